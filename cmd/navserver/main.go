package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/milk9111/tilepath/api"
	"github.com/milk9111/tilepath/prefabs"
	"github.com/milk9111/tilepath/system"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	specPath := flag.String("spec", "", "navigator spec file (defaults to prefabs/navigator.yaml)")
	extra := flag.String("levels", "", "comma separated level files to serve next to the embedded ones")
	watch := flag.Bool("watch", false, "rebuild finders when the navigator spec, scripts or levels change")
	flag.Parse()

	spec, err := loadSpec(*specPath)
	if err != nil {
		log.Fatal(err)
	}

	var files []string
	for _, f := range strings.Split(*extra, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}

	svc, err := api.NewService(spec, files...)
	if err != nil {
		log.Fatal(err)
	}

	if *watch {
		w, err := prefabs.NewWatcher(prefabs.DiskDir, filepath.Join(prefabs.DiskDir, "scripts"), system.LevelsDir)
		if err != nil {
			log.Fatalf("watch: %v", err)
		}
		defer w.Close()
		go func() {
			for change := range w.Events {
				spec, err := loadSpec(*specPath)
				if err == nil {
					err = svc.Reload(spec)
				}
				if err != nil {
					log.Printf("[WARN] reload after %s change %s: %v", change.Kind, change.Path, err)
				}
			}
		}()
		go func() {
			for err := range w.Errors {
				log.Printf("[WARN] watch: %v", err)
			}
		}()
	}

	log.Printf("[INFO] navserver listening on %s", *addr)
	if err := api.NewRouter(svc).Run(*addr); err != nil {
		log.Fatal(err)
	}
}

func loadSpec(path string) (*prefabs.NavigatorSpec, error) {
	if path != "" {
		return prefabs.LoadNavigatorSpecFile(path)
	}
	return prefabs.LoadNavigatorSpec("navigator.yaml")
}

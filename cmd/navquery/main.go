package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/milk9111/tilepath/ecs"
	"github.com/milk9111/tilepath/pathfind"
	"github.com/milk9111/tilepath/prefabs"
	"github.com/milk9111/tilepath/system"
)

func main() {
	levelName := flag.String("level", "arena", "level name in levels/ (basename, .json optional) or a level file")
	specPath := flag.String("spec", "", "navigator spec file (defaults to prefabs/navigator.yaml)")
	ax := flag.Float64("ax", -1, "agent x in pixels (defaults to the level's agent)")
	ay := flag.Float64("ay", -1, "agent y in pixels")
	tx := flag.Float64("tx", -1, "target x in pixels (defaults to the level's target)")
	ty := flag.Float64("ty", -1, "target y in pixels")
	ticks := flag.Int("ticks", 0, "simulate this many frames of the agent chasing the target")
	interval := flag.Duration("interval", 16*time.Millisecond, "delay between simulated frames")
	watch := flag.Bool("watch", false, "reload the navigator spec and level when files change")
	record := flag.String("record", "", "write each simulated frame to this zstd JSONL file")
	flag.Parse()

	spec, err := loadSpec(*specPath)
	if err != nil {
		log.Fatal(err)
	}

	world, err := system.NewWorld(*levelName, spec)
	if err != nil {
		log.Fatal(err)
	}

	if *ticks <= 0 {
		if err := query(world, *ax, *ay, *tx, *ty); err != nil {
			log.Fatal(err)
		}
		return
	}

	var changes <-chan prefabs.Change
	if *watch {
		w, err := prefabs.NewWatcher(prefabs.DiskDir, filepath.Join(prefabs.DiskDir, "scripts"), system.LevelsDir)
		if err != nil {
			log.Fatalf("watch: %v", err)
		}
		defer w.Close()
		changes = w.Events
		go func() {
			for err := range w.Errors {
				log.Printf("watch: %v", err)
			}
		}()
	}

	var frames *system.FrameLog
	if *record != "" {
		frames, err = system.CreateFrameLog(*record)
		if err != nil {
			log.Fatalf("record: %v", err)
		}
		defer func() {
			if err := frames.Close(); err != nil {
				log.Printf("record: %v", err)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for world.Frame() < *ticks {
		select {
		case <-stop:
			return
		case change := <-changes:
			reload(world, *specPath, change)
		case <-ticker.C:
			events := world.Step()
			if frames != nil {
				if err := frames.Write(world.Record(events)); err != nil {
					log.Printf("record: %v", err)
				}
			}
			for _, evt := range events {
				if pe, ok := evt.Data.(ecs.PathEvent); ok {
					fmt.Printf("frame %d: %s %s\n", world.Frame(), pe.Entity, pe.Kind)
				}
			}
			for _, a := range world.Agents() {
				if a.HasWaypoint {
					fmt.Printf("frame %d: agent %s at %v tile %v -> %v\n", world.Frame(), a.Entity, a.Position, a.Tile, a.Waypoint)
				}
			}
		}
	}
}

func query(world *system.World, ax, ay, tx, ty float64) error {
	agent, ok := world.Level.SpawnPosition("agent")
	if ax >= 0 && ay >= 0 {
		agent, ok = pathfind.Vec{X: ax, Y: ay}, true
	}
	target, okT := world.Level.SpawnPosition("target")
	if tx >= 0 && ty >= 0 {
		target, okT = pathfind.Vec{X: tx, Y: ty}, true
	}
	if !ok || !okT {
		return errors.New("navquery: level has no agent/target; pass -ax -ay -tx -ty")
	}

	res, err := world.Finder.Search(agent, target)
	if err != nil {
		fmt.Printf("no path from %v to %v: %s (%v)\n", agent, target, pathfind.Outcome(err), err)
		return nil
	}
	fmt.Printf("next waypoint %v (tile %v), %d steps, %d nodes expanded\n", res.Waypoint, res.Next, len(res.Path), res.Expanded)
	return nil
}

func reload(world *system.World, specPath string, change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeLevel:
		if !world.UsesLevelFile(change.Path) {
			return
		}
		if err := world.ReloadLevel(); err != nil {
			log.Printf("reload %s: %v", change.Path, err)
		}
	default:
		spec, err := loadSpec(specPath)
		if err != nil {
			log.Printf("reload %s: %v", change.Path, err)
			return
		}
		if err := world.Reload(spec); err != nil {
			log.Printf("reload %s: %v", change.Path, err)
		}
	}
}

func loadSpec(path string) (*prefabs.NavigatorSpec, error) {
	if path != "" {
		return prefabs.LoadNavigatorSpecFile(path)
	}
	return prefabs.LoadNavigatorSpec("navigator.yaml")
}

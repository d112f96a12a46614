package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml
var PrefabsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// DiskDir shadows the embedded files: a copy found here is read instead, so
// edits are visible without a rebuild.
var DiskDir = "prefabs"

// Load returns a spec file by name. "prefabs/agent.yaml" and "agent.yaml"
// name the same file.
func Load(name string) ([]byte, error) {
	return readShadowed(PrefabsFS, specKey(name))
}

// LoadScript returns a tengo script from scripts/. Any "prefabs/" or
// "scripts/" prefix on name is ignored.
func LoadScript(name string) ([]byte, error) {
	return readShadowed(ScriptsFS, scriptKey(name))
}

func readShadowed(fsys embed.FS, key string) ([]byte, error) {
	if data, err := os.ReadFile(onDisk(key)); err == nil {
		return data, nil
	}
	return fsys.ReadFile(key)
}

func specKey(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
}

func scriptKey(name string) string {
	if name == "" {
		return ""
	}
	s := strings.TrimPrefix(filepath.ToSlash(name), "prefabs/")
	s = strings.TrimPrefix(s, "scripts/")
	return path.Join("scripts", s)
}

func onDisk(key string) string {
	return filepath.Join(DiskDir, filepath.FromSlash(key))
}

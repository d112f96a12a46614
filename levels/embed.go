package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed *.json
var LevelsFS embed.FS

//go:embed schema/level.schema.json
var levelSchemaJSON string

var levelSchema = jsonschema.MustCompileString("level.schema.json", levelSchemaJSON)

const defaultTileSize = 32

type Level struct {
	Name      string      `json:"name,omitempty"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  int         `json:"tile_size,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Name    string `json:"name,omitempty"`
	Physics bool   `json:"physics"`
}

// Entity is a placed object. X and Y are world pixels.
type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, levelFileName(name))
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return parseLevel(name, data)
}

// LoadLevelFile reads a level from disk instead of the embedded set.
func LoadLevelFile(filename string) (*Level, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return parseLevel(filename, data)
}

// List returns the embedded level names without extension.
func List() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}

func parseLevel(name string, data []byte) (*Level, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := levelSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}

	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(path.Base(name), ".json")
	}
	if lvl.TileSize <= 0 {
		lvl.TileSize = defaultTileSize
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Validate checks that every layer covers the whole map.
func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("level %s: invalid size %dx%d", l.Name, l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("level %s: layer %d has %d tiles, want %d", l.Name, i, len(layer), l.Width*l.Height)
		}
	}
	return nil
}

func levelFileName(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(name, "\\", "/")), "/")
	name = strings.TrimPrefix(name, "levels/")
	if path.Ext(name) != ".json" {
		name += ".json"
	}
	return name
}

package prefabs

import (
	"fmt"
	"os"
	"strings"

	"github.com/milk9111/tilepath/pathfind"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// NavigatorSpec configures the pathfinder built for every level.
type NavigatorSpec struct {
	Name              string `yaml:"name"`
	MaxSearchDistance int    `yaml:"max_search_distance"`
	MaxExpansions     int    `yaml:"max_expansions"`
	Heuristic         string `yaml:"heuristic"`
	CostScript        string `yaml:"cost_script"`
	Metrics           *bool  `yaml:"metrics"`
}

func LoadNavigatorSpec(name string) (*NavigatorSpec, error) {
	if name == "" {
		name = "navigator.yaml"
	}
	spec, err := LoadSpec[NavigatorSpec](name)
	if err != nil {
		return nil, err
	}
	return finishNavigatorSpec(name, &spec)
}

// LoadNavigatorSpecFile reads a navigator spec from an arbitrary path.
func LoadNavigatorSpecFile(filename string) (*NavigatorSpec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	var spec NavigatorSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return finishNavigatorSpec(filename, &spec)
}

func finishNavigatorSpec(name string, spec *NavigatorSpec) (*NavigatorSpec, error) {
	if spec.MaxSearchDistance == 0 {
		spec.MaxSearchDistance = pathfind.DefaultMaxSearchDistance
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return spec, nil
}

func (s NavigatorSpec) Validate() error {
	if s.MaxSearchDistance <= 0 {
		return fmt.Errorf("max_search_distance must be positive, got %d", s.MaxSearchDistance)
	}
	if s.MaxExpansions < 0 {
		return fmt.Errorf("max_expansions must not be negative, got %d", s.MaxExpansions)
	}
	if _, err := pathfind.HeuristicByName(s.Heuristic); err != nil {
		return err
	}
	return nil
}

// FinderOptions translates the spec. Tile size comes from the level, not the spec.
func (s NavigatorSpec) FinderOptions() ([]pathfind.Option, error) {
	h, err := pathfind.HeuristicByName(s.Heuristic)
	if err != nil {
		return nil, err
	}
	opts := []pathfind.Option{
		pathfind.WithMaxSearchDistance(s.MaxSearchDistance),
		pathfind.WithMaxExpansions(s.MaxExpansions),
		pathfind.WithHeuristic(h),
	}
	if s.Metrics != nil {
		opts = append(opts, pathfind.WithMetrics(*s.Metrics))
	}
	return opts, nil
}

// CostScriptSource returns the tile cost script, or nil when none is set.
func (s NavigatorSpec) CostScriptSource() ([]byte, error) {
	name := strings.TrimSpace(s.CostScript)
	if name == "" {
		return nil, nil
	}
	data, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	return data, nil
}

package system

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/tilepath/ecs"
	"github.com/milk9111/tilepath/ecs/component"
	"github.com/milk9111/tilepath/ecs/entity"
	ecssystem "github.com/milk9111/tilepath/ecs/system"
	"github.com/milk9111/tilepath/levels"
	"github.com/milk9111/tilepath/pathfind"
	"github.com/milk9111/tilepath/prefabs"
)

// World owns the loaded level, its pathfinder and the ECS simulation that
// drives agents through it.
type World struct {
	Spec   *prefabs.NavigatorSpec
	Level  *levels.Level
	Grid   *pathfind.Grid
	Finder *pathfind.Finder

	levelPath string
	ecs       *ecs.World
	scheduler *ecs.Scheduler
	recorder  *eventRecorder
	frame     int
}

// AgentState is a snapshot of one agent after a frame.
type AgentState struct {
	Entity      ecs.Entity    `json:"entity"`
	Position    pathfind.Vec  `json:"position"`
	Tile        pathfind.Tile `json:"tile"`
	Waypoint    pathfind.Vec  `json:"waypoint"`
	HasWaypoint bool          `json:"has_waypoint"`
}

// NewWorld loads levelPath and spawns its agents and targets.
func NewWorld(levelPath string, spec *prefabs.NavigatorSpec) (*World, error) {
	if spec == nil {
		return nil, fmt.Errorf("world: navigator spec is nil")
	}
	w := &World{Spec: spec}
	if err := w.Load(levelPath); err != nil {
		return nil, err
	}
	return w, nil
}

// BuildFinder prices lvl with the spec's cost script and returns a finder
// sized to the level's tiles.
func BuildFinder(lvl *levels.Level, spec *prefabs.NavigatorSpec) (*pathfind.Grid, *pathfind.Finder, error) {
	var rules levels.CostRules
	src, err := spec.CostScriptSource()
	if err != nil {
		return nil, nil, err
	}
	if src != nil {
		sr, err := levels.NewScriptRules(spec.CostScript, src)
		if err != nil {
			return nil, nil, err
		}
		rules = sr
	}

	grid, err := lvl.CostMap(rules)
	if err != nil {
		return nil, nil, err
	}
	opts, err := spec.FinderOptions()
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, pathfind.WithTileSize(lvl.TileSize))
	finder, err := pathfind.New(grid, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("level %s: %w", lvl.Name, err)
	}
	return grid, finder, nil
}

// Load replaces the level and resets the simulation.
func (w *World) Load(levelPath string) error {
	if w == nil {
		return fmt.Errorf("world is nil")
	}
	lvl, err := LoadLevel(levelPath)
	if err != nil {
		return err
	}
	grid, finder, err := BuildFinder(lvl, w.Spec)
	if err != nil {
		return err
	}

	world := ecs.NewWorld()
	if err := entity.LoadLevelToWorld(world, lvl, finder); err != nil {
		return err
	}

	w.Level = lvl
	w.Grid = grid
	w.Finder = finder
	w.levelPath = levelPath
	w.ecs = world
	w.recorder = &eventRecorder{}
	w.scheduler = ecs.NewScheduler(
		ecssystem.NewPathfindingSystem(),
		ecssystem.NewFollowSystem(),
		w.recorder,
	)
	w.frame = 0
	log.Printf("world: loaded level %s (%dx%d, tile %d)", lvl.Name, lvl.Width, lvl.Height, lvl.TileSize)
	return nil
}

// Reload rebuilds the finder from spec without moving any entity. Agents
// search again on the next frame.
func (w *World) Reload(spec *prefabs.NavigatorSpec) error {
	if w == nil || w.Level == nil {
		return fmt.Errorf("world: no level loaded")
	}
	if spec == nil {
		spec = w.Spec
	}
	grid, finder, err := BuildFinder(w.Level, spec)
	if err != nil {
		return err
	}

	nav, ok := entity.NavGrid(w.ecs)
	if !ok {
		return fmt.Errorf("world: level %s has no nav grid", w.Level.Name)
	}
	nav.Finder = finder
	ecs.ForEach(w.ecs, component.PathfindingComponent.Kind(), func(_ ecs.Entity, pf *component.Pathfinding) {
		pf.Searched = false
	})

	w.Spec = spec
	w.Grid = grid
	w.Finder = finder
	log.Printf("world: reloaded navigator %s for level %s", spec.Name, w.Level.Name)
	return nil
}

// ReloadLevel re-reads the current level from its source.
func (w *World) ReloadLevel() error {
	if w == nil {
		return fmt.Errorf("world is nil")
	}
	return w.Load(w.levelPath)
}

// Step advances the simulation one frame and returns the events it raised.
func (w *World) Step() []ecs.Event {
	if w == nil || w.scheduler == nil {
		return nil
	}
	w.frame++
	w.recorder.events = nil
	w.scheduler.Update(w.ecs)
	return w.recorder.events
}

// eventRecorder runs last so the frame's events survive the scheduler flush.
type eventRecorder struct {
	events []ecs.Event
}

func (r *eventRecorder) Update(w *ecs.World) {
	r.events = append(r.events, w.Events().Peek()...)
}

// UsesLevelFile reports whether a change to path affects the loaded level:
// the exact file it was read from, or a level file with the same base name
// shadowing an embedded level.
func (w *World) UsesLevelFile(path string) bool {
	if w == nil || w.levelPath == "" || path == "" {
		return false
	}
	if filepath.Clean(path) == filepath.Clean(w.levelPath) {
		return true
	}
	return levelBase(path) == levelBase(w.levelPath)
}

func levelBase(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".json")
}

func (w *World) Frame() int {
	return w.frame
}

func (w *World) Agents() []AgentState {
	if w == nil || w.ecs == nil {
		return nil
	}
	var out []AgentState
	ecs.ForEach3(w.ecs, component.AgentTagComponent.Kind(), component.PathfindingComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.AgentTag, pf *component.Pathfinding, t *component.Transform) {
		pos := pathfind.Vec{X: t.X, Y: t.Y}
		tile, _ := w.Finder.ToTile(pos)
		out = append(out, AgentState{
			Entity:      e,
			Position:    pos,
			Tile:        tile,
			Waypoint:    pf.Waypoint,
			HasWaypoint: pf.HasWaypoint,
		})
	})
	return out
}

// LevelsDir is checked for an edited copy of an embedded level before the
// embedded one is used.
var LevelsDir = "levels"

// LoadLevel reads a level file from disk when path names one, then tries
// LevelsDir, then the embedded set.
func LoadLevel(levelPath string) (*levels.Level, error) {
	if levelPath == "" {
		return nil, fmt.Errorf("level path is empty")
	}
	if isFile(levelPath) {
		return levels.LoadLevelFile(levelPath)
	}
	name := levelPath
	if filepath.Ext(name) != ".json" {
		name += ".json"
	}
	if disk := filepath.Join(LevelsDir, filepath.Base(name)); isFile(disk) {
		return levels.LoadLevelFile(disk)
	}
	lvl, err := levels.LoadLevelFromFS(levelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load level %s: %w", levelPath, err)
	}
	return lvl, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

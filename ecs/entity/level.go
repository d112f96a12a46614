package entity

import (
	"fmt"

	"github.com/milk9111/tilepath/ecs"
	"github.com/milk9111/tilepath/ecs/component"
	"github.com/milk9111/tilepath/levels"
	"github.com/milk9111/tilepath/pathfind"
)

// LoadLevelToWorld creates the nav grid singleton for finder and spawns a
// prefab entity for every agent or target placed in the level.
func LoadLevelToWorld(world *ecs.World, lvl *levels.Level, finder *pathfind.Finder) error {
	if world == nil || lvl == nil || finder == nil {
		return fmt.Errorf("load level: world, level and finder are required")
	}

	grid := ecs.CreateEntity(world)
	if err := ecs.Add(world, grid, component.NavGridComponent.Kind(), &component.NavGrid{
		Level:  lvl.Name,
		Finder: finder,
	}); err != nil {
		return err
	}

	for _, kind := range spawnKinds {
		for _, ent := range lvl.EntitiesOfType(kind) {
			prefab := kind + ".yaml"
			if p, ok := ent.Props["prefab"].(string); ok && p != "" {
				prefab = p
			}
			e, err := BuildEntity(world, prefab)
			if err != nil {
				return fmt.Errorf("load level %s: %s at (%d,%d): %w", lvl.Name, kind, ent.X, ent.Y, err)
			}
			if err := SetEntityTransform(world, e, float64(ent.X), float64(ent.Y)); err != nil {
				return err
			}
		}
	}
	return nil
}

// spawnKinds are the placed entity types that get a prefab, spawned in this
// order. Each uses <kind>.yaml unless the entity sets a "prefab" prop.
var spawnKinds = []string{"agent", "target"}

// NavGrid returns the world's pathfinder, if a level has been loaded.
func NavGrid(w *ecs.World) (*component.NavGrid, bool) {
	e, ok := ecs.First(w, component.NavGridComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, e, component.NavGridComponent.Kind())
}

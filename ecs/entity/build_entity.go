package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/tilepath/ecs"
	"github.com/milk9111/tilepath/ecs/component"
	"github.com/milk9111/tilepath/prefabs"
)

type buildContext struct {
	PrefabPath string
	Name       string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"agent":       addAgentTag,
	"target":      addTargetTag,
	"transform":   addTransform,
	"pathfinding": addPathfinding,
	"mover":       addMover,
}

var componentBuildOrder = []string{
	"agent",
	"target",
	"transform",
	"pathfinding",
	"mover",
}

// BuildEntity creates an entity from a prefab's component list. Unknown
// component names fail the build and leave no entity behind.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Name: spec.Name}

	if spec.Name != "" {
		if err := ecs.Add(w, e, component.NamedComponent.Kind(), &component.Named{Name: spec.Name}); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, err
		}
	}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	names := make([]string, 0, len(remaining))
	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; ok {
			names = append(names, name)
			delete(remaining, name)
		}
	}
	if len(remaining) > 0 {
		unknown := make([]string, 0, len(remaining))
		for name := range remaining {
			unknown = append(unknown, name)
		}
		sort.Strings(unknown)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, unknown[0])
	}

	for _, name := range names {
		if err := componentRegistry[name](w, e, spec.Components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.X = x
	t.Y = y
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addAgentTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.AgentTagComponent.Kind(), &component.AgentTag{})
}

func addTargetTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.TargetTagComponent.Kind(), &component.TargetTag{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y})
}

type pathfindingSpec = prefabs.PathfindingComponentSpec

const defaultRepathFrames = 15

func addPathfinding(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[pathfindingSpec](raw)
	if err != nil {
		return fmt.Errorf("decode pathfinding spec: %w", err)
	}
	if spec.RepathFrames < 0 {
		return fmt.Errorf("repath_frames must not be negative, got %d", spec.RepathFrames)
	}
	if spec.RepathFrames == 0 {
		spec.RepathFrames = defaultRepathFrames
	}
	return ecs.Add(w, e, component.PathfindingComponent.Kind(), &component.Pathfinding{
		Target:       spec.Target,
		RepathFrames: spec.RepathFrames,
	})
}

type moverSpec = prefabs.MoverComponentSpec

func addMover(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[moverSpec](raw)
	if err != nil {
		return fmt.Errorf("decode mover spec: %w", err)
	}
	if spec.Speed < 0 {
		return fmt.Errorf("speed must not be negative, got %v", spec.Speed)
	}
	return ecs.Add(w, e, component.MoverComponent.Kind(), &component.Mover{Speed: spec.Speed})
}

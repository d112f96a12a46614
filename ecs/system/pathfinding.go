package system

import (
	"errors"

	"github.com/milk9111/tilepath/ecs"
	"github.com/milk9111/tilepath/ecs/component"
	"github.com/milk9111/tilepath/ecs/entity"
	"github.com/milk9111/tilepath/pathfind"
)

// PathfindingSystem refreshes each agent's waypoint toward its target. A new
// search runs when the agent or target changes tile, or every RepathFrames
// frames so edits to the cost map are picked up.
type PathfindingSystem struct{}

func NewPathfindingSystem() *PathfindingSystem {
	return &PathfindingSystem{}
}

func (ps *PathfindingSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	nav, ok := entity.NavGrid(w)
	if !ok || nav.Finder == nil {
		return
	}
	finder := nav.Finder

	ecs.ForEach3(w, component.AgentTagComponent.Kind(), component.PathfindingComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.AgentTag, pf *component.Pathfinding, t *component.Transform) {
		agentPos := pathfind.Vec{X: t.X, Y: t.Y}
		targetPos, ok := targetPosition(w, pf.Target)
		if !ok {
			ps.drop(w, e, pf, ecs.PathEventLost)
			return
		}

		start, okStart := finder.ToTile(agentPos)
		goal, okGoal := finder.ToTile(targetPos)
		if !okStart || !okGoal {
			ps.drop(w, e, pf, ecs.PathEventLost)
			return
		}

		pf.FrameCounter++
		repath := pf.RepathFrames <= 0 || pf.FrameCounter%pf.RepathFrames == 0
		if pf.Searched && !repath && pf.LastStart == start && pf.LastTarget == goal {
			return
		}

		res, err := finder.Next(start, goal)
		pf.Searched = true
		pf.LastStart = start
		pf.LastTarget = goal

		switch {
		case err == nil:
			if !pf.HasWaypoint {
				w.Events().Push(ecs.Event{Type: string(ecs.PathEventFound), Data: ecs.PathEvent{Entity: e, Kind: ecs.PathEventFound}})
			}
			pf.Waypoint = res.Waypoint
			pf.HasWaypoint = true
		case errors.Is(err, pathfind.ErrAtTarget):
			ps.drop(w, e, pf, ecs.PathEventArrived)
		default:
			ps.drop(w, e, pf, ecs.PathEventLost)
		}
	})
}

// drop clears the waypoint, raising kind only when one was held.
func (ps *PathfindingSystem) drop(w *ecs.World, e ecs.Entity, pf *component.Pathfinding, kind ecs.PathEventKind) {
	if pf.HasWaypoint {
		w.Events().Push(ecs.Event{Type: string(kind), Data: ecs.PathEvent{Entity: e, Kind: kind}})
	}
	pf.HasWaypoint = false
	pf.Waypoint = pathfind.Vec{}
}

// targetPosition finds the named target, or the first tagged target when name
// is empty.
func targetPosition(w *ecs.World, name string) (pathfind.Vec, bool) {
	var target ecs.Entity
	found := false
	if name == "" {
		target, found = ecs.First(w, component.TargetTagComponent.Kind())
	} else {
		ecs.ForEach(w, component.NamedComponent.Kind(), func(e ecs.Entity, n *component.Named) {
			if !found && n.Name == name {
				target, found = e, true
			}
		})
	}
	if !found {
		return pathfind.Vec{}, false
	}
	t, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return pathfind.Vec{}, false
	}
	return pathfind.Vec{X: t.X, Y: t.Y}, true
}

package system

import (
	"github.com/milk9111/tilepath/common"
	"github.com/milk9111/tilepath/ecs"
	"github.com/milk9111/tilepath/ecs/component"
)

// FollowSystem moves agents toward their current waypoint.
type FollowSystem struct{}

func NewFollowSystem() *FollowSystem {
	return &FollowSystem{}
}

func (fs *FollowSystem) Update(w *ecs.World) {
	if fs == nil || w == nil {
		return
	}
	ecs.ForEach3(w, component.PathfindingComponent.Kind(), component.TransformComponent.Kind(), component.MoverComponent.Kind(), func(_ ecs.Entity, pf *component.Pathfinding, t *component.Transform, m *component.Mover) {
		if !pf.HasWaypoint || m.Speed <= 0 {
			return
		}
		t.X, t.Y, _ = common.MoveToward(t.X, t.Y, pf.Waypoint.X, pf.Waypoint.Y, m.Speed)
	})
}

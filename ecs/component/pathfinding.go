package component

import "github.com/milk9111/tilepath/pathfind"

// Pathfinding holds an agent's current waypoint toward the entity named by
// Target. The waypoint is refreshed every RepathFrames frames, or sooner when
// the agent or target changes tile.
type Pathfinding struct {
	Target       string
	RepathFrames int
	FrameCounter int

	LastStart  pathfind.Tile
	LastTarget pathfind.Tile
	Searched   bool

	Waypoint    pathfind.Vec
	HasWaypoint bool
}

var PathfindingComponent = NewComponent[Pathfinding]()

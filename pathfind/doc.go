// Package pathfind finds the next step an agent should take across a tile
// grid toward a target.
//
// A Finder owns one node per tile and reuses them across queries, stamping
// each query with a new generation instead of clearing the table. Searches
// are bounded A* over the 8 neighbouring tiles with a uniform step cost, cut
// off once any discovered node is MaxSearchDistance steps from the start.
// Only the first step of the route is returned; callers query again every
// tick as the agent and target move.
package pathfind

package pathfind

import "fmt"

// Impassable is the tile cost that marks a tile as blocked. Any negative cost
// is treated the same way.
const Impassable = -1.0

// Tile is a cell coordinate on the grid.
type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}

// Vec is a world-space position in pixels.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CostMap supplies per-tile traversal costs. It must not change while a
// search against it is running.
type CostMap interface {
	Width() int
	Height() int
	CostAt(x, y int) float64
}

// Grid is a row-major CostMap.
type Grid struct {
	width  int
	height int
	costs  []float64
}

// NewGrid creates a width x height grid with every tile set to fill.
func NewGrid(width, height int, fill float64) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	costs := make([]float64, width*height)
	for i := range costs {
		costs[i] = fill
	}
	return &Grid{width: width, height: height, costs: costs}
}

func (g *Grid) Width() int {
	if g == nil {
		return 0
	}
	return g.width
}

func (g *Grid) Height() int {
	if g == nil {
		return 0
	}
	return g.height
}

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return g != nil && x >= 0 && y >= 0 && x < g.width && y < g.height
}

// CostAt returns the cost of (x, y), or Impassable outside the grid.
func (g *Grid) CostAt(x, y int) float64 {
	if !g.InBounds(x, y) {
		return Impassable
	}
	return g.costs[y*g.width+x]
}

// Set assigns the cost of (x, y). It returns false if the tile is outside the grid.
func (g *Grid) Set(x, y int, cost float64) bool {
	if !g.InBounds(x, y) {
		return false
	}
	g.costs[y*g.width+x] = cost
	return true
}

// Passable reports whether (x, y) is inside the grid and not blocked.
func (g *Grid) Passable(x, y int) bool {
	return !isImpassable(g.CostAt(x, y))
}

func isImpassable(cost float64) bool {
	return cost < 0
}

func inBounds(m CostMap, x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width() && y < m.Height()
}

// costAt bounds-checks before asking m, so CostMap implementations never see
// out-of-grid coordinates.
func costAt(m CostMap, x, y int) float64 {
	if !inBounds(m, x, y) {
		return Impassable
	}
	return m.CostAt(x, y)
}

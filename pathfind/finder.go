package pathfind

import (
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	DefaultTileSize          = 32
	DefaultMaxSearchDistance = 10
)

// Options configures a Finder.
type Options struct {
	TileSize          int
	MaxSearchDistance int
	// MaxExpansions caps expanded nodes per query. Zero means no cap.
	MaxExpansions int
	Heuristic     Heuristic
	Metrics       bool
}

// Option is a function that modifies Options.
type Option func(*Options)

func WithTileSize(size int) Option {
	return func(o *Options) { o.TileSize = size }
}

func WithMaxSearchDistance(depth int) Option {
	return func(o *Options) { o.MaxSearchDistance = depth }
}

func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

func WithHeuristic(h Heuristic) Option {
	return func(o *Options) { o.Heuristic = h }
}

// WithMetrics toggles the prometheus collectors in metrics.go.
func WithMetrics(enabled bool) Option {
	return func(o *Options) { o.Metrics = enabled }
}

func defaultOptions() Options {
	return Options{
		TileSize:          DefaultTileSize,
		MaxSearchDistance: DefaultMaxSearchDistance,
		Heuristic:         Chebyshev,
		Metrics:           true,
	}
}

func (o Options) validate() error {
	if o.TileSize <= 0 {
		return fmt.Errorf("%w: tile size %d", ErrInvalidOption, o.TileSize)
	}
	if o.MaxSearchDistance <= 0 {
		return fmt.Errorf("%w: max search distance %d", ErrInvalidOption, o.MaxSearchDistance)
	}
	if o.MaxExpansions < 0 {
		return fmt.Errorf("%w: max expansions %d", ErrInvalidOption, o.MaxExpansions)
	}
	if o.Heuristic == nil {
		return fmt.Errorf("%w: nil heuristic", ErrInvalidOption)
	}
	return nil
}

// Result describes a successful query.
type Result struct {
	// Next is the tile immediately after the start on the found route.
	Next Tile
	// Waypoint is Next in world space.
	Waypoint Vec
	// Path runs from Next to the target, inclusive.
	Path     []Tile
	Expanded int
	Reopened int
	MaxDepth int
}

// Finder runs bounded A* searches over one CostMap. The node table is shared
// by every query on the Finder, so calls are serialised.
type Finder struct {
	mu     sync.Mutex
	grid   CostMap
	opts   Options
	nodes  *nodeTable
	open   *frontier
	closed *exploredSet
}

// New allocates the node table for grid. The grid's dimensions are read once;
// build a new Finder if the map is resized.
func New(grid CostMap, options ...Option) (*Finder, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil cost map", ErrInvalidOption)
	}
	width, height := grid.Width(), grid.Height()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrInvalidOption, width, height)
	}

	opts := defaultOptions()
	for _, option := range options {
		option(&opts)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	nodes := newNodeTable(width, height)
	return &Finder{
		grid:   grid,
		opts:   opts,
		nodes:  nodes,
		open:   newFrontier(nodes),
		closed: newExploredSet(width * height),
	}, nil
}

func (f *Finder) Options() Options {
	return f.opts
}

// ToTile maps a world position to its tile by truncating toward zero, so
// small negative positions land on tile 0. ok is false for non-finite input.
func (f *Finder) ToTile(p Vec) (Tile, bool) {
	size := float64(f.opts.TileSize)
	x, okX := truncDiv(p.X, size)
	y, okY := truncDiv(p.Y, size)
	return Tile{X: x, Y: y}, okX && okY
}

// ToWorld returns the world position of a tile's origin.
func (f *Finder) ToWorld(t Tile) Vec {
	return Vec{
		X: float64(t.X * f.opts.TileSize),
		Y: float64(t.Y * f.opts.TileSize),
	}
}

// FindNext returns the waypoint agent should move toward to reach target.
// ok is false when there is no path for any reason.
func (f *Finder) FindNext(agent, target Vec) (Vec, bool) {
	res, err := f.Search(agent, target)
	if err != nil {
		return Vec{}, false
	}
	return res.Waypoint, true
}

// Search is FindNext with the full result and the reason for a miss.
func (f *Finder) Search(agent, target Vec) (Result, error) {
	start, ok := f.ToTile(agent)
	if !ok {
		return f.finish(time.Now(), Result{}, fmt.Errorf("%w: agent position %v", ErrInvalidCoordinate, agent))
	}
	goal, ok := f.ToTile(target)
	if !ok {
		return f.finish(time.Now(), Result{}, fmt.Errorf("%w: target position %v", ErrInvalidCoordinate, target))
	}
	return f.Next(start, goal)
}

// Next searches from start toward goal in tile space.
func (f *Finder) Next(start, goal Tile) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	began := time.Now()
	res, err := f.search(start, goal)
	return f.finish(began, res, err)
}

func (f *Finder) finish(began time.Time, res Result, err error) (Result, error) {
	if f.opts.Metrics {
		observeQuery(res, err, time.Since(began))
	}
	return res, err
}

func (f *Finder) search(start, goal Tile) (Result, error) {
	if !inBounds(f.grid, start.X, start.Y) {
		return Result{}, fmt.Errorf("%w: agent tile %v", ErrInvalidCoordinate, start)
	}
	if !inBounds(f.grid, goal.X, goal.Y) {
		return Result{}, fmt.Errorf("%w: target tile %v", ErrInvalidCoordinate, goal)
	}
	if isImpassable(costAt(f.grid, goal.X, goal.Y)) {
		return Result{}, fmt.Errorf("%w: %v", ErrUnreachableTarget, goal)
	}
	// The goal check happens before any expansion and the target never gets
	// a parent, so standing on the target is reported as no path.
	if start == goal {
		return Result{}, fmt.Errorf("%w: %v", ErrAtTarget, goal)
	}

	f.nodes.begin()
	f.open.clear()
	f.closed.clear()

	startIdx := f.nodes.index(start.X, start.Y)
	goalIdx := f.nodes.index(goal.X, goal.Y)

	startNode := f.nodes.at(startIdx)
	startNode.cost = 0
	startNode.depth = 0
	startNode.heuristic = f.opts.Heuristic(start, goal)
	f.open.insert(startIdx)
	f.nodes.at(goalIdx).parent = noParent

	var res Result
	for res.MaxDepth < f.opts.MaxSearchDistance && f.open.size() != 0 {
		if f.opts.MaxExpansions > 0 && res.Expanded >= f.opts.MaxExpansions {
			break
		}

		currentIdx, _ := f.open.peek()
		if currentIdx == goalIdx {
			break
		}
		f.open.remove(currentIdx)
		f.closed.insert(currentIdx)
		res.Expanded++

		current := &f.nodes.nodes[currentIdx]
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				x, y := current.tile.X+dx, current.tile.Y+dy
				if isImpassable(costAt(f.grid, x, y)) {
					continue
				}

				nextCost := current.cost + 1
				neighbourIdx := f.nodes.index(x, y)
				neighbour := f.nodes.at(neighbourIdx)

				if nextCost < neighbour.cost {
					f.open.remove(neighbourIdx)
					if f.closed.contains(neighbourIdx) {
						f.closed.remove(neighbourIdx)
						res.Reopened++
					}
				}

				if !f.open.contains(neighbourIdx) && !f.closed.contains(neighbourIdx) {
					neighbour.cost = nextCost
					neighbour.heuristic = f.opts.Heuristic(neighbour.tile, goal)
					neighbour.parent = currentIdx
					neighbour.depth = current.depth + 1
					if neighbour.depth > res.MaxDepth {
						res.MaxDepth = neighbour.depth
					}
					f.open.insert(neighbourIdx)
				}
			}
		}
	}

	if f.nodes.nodes[goalIdx].parent == noParent {
		return res, fmt.Errorf("%w: %v -> %v", ErrSearchExhausted, start, goal)
	}

	res.Path = f.reconstruct(startIdx, goalIdx)
	res.Next = res.Path[0]
	res.Waypoint = f.ToWorld(res.Next)
	return res, nil
}

// reconstruct walks parent links back from the goal. A chain that never
// reaches the start is a bookkeeping bug, not a search outcome.
func (f *Finder) reconstruct(startIdx, goalIdx int) []Tile {
	path := make([]Tile, 0, 16)
	idx := goalIdx
	for steps := 0; ; steps++ {
		if steps > len(f.nodes.nodes) {
			panic("pathfind: parent chain does not terminate")
		}
		n := &f.nodes.nodes[idx]
		path = append(path, n.tile)
		if n.parent == startIdx {
			break
		}
		if n.parent == noParent {
			panic(fmt.Sprintf("pathfind: parent chain broken at %v", n.tile))
		}
		idx = n.parent
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func truncDiv(v, size float64) (int, bool) {
	q := v / size
	if math.IsNaN(q) || math.IsInf(q, 0) || q > math.MaxInt32 || q < math.MinInt32 {
		return 0, false
	}
	return int(q), true
}

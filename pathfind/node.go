package pathfind

import "math"

const noParent = -1

// node is the per-tile search record. Its fields are only meaningful when
// gen matches the owning table's current generation.
type node struct {
	tile      Tile
	cost      float64
	heuristic float64
	depth     int
	parent    int
	seq       uint64
	heapIndex int
	gen       uint32
}

func (n *node) priority() float64 {
	return n.cost + n.heuristic
}

func (n *node) reset(gen uint32) {
	n.gen = gen
	n.cost = math.Inf(1)
	n.heuristic = 0
	n.depth = 0
	n.parent = noParent
	n.seq = 0
	n.heapIndex = -1
}

// nodeTable is allocated once per map and reused by every query. Nodes are
// reset lazily the first time a query touches them.
type nodeTable struct {
	width int
	nodes []node
	gen   uint32
	seq   uint64
}

func newNodeTable(width, height int) *nodeTable {
	t := &nodeTable{width: width, nodes: make([]node, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			n := &t.nodes[y*width+x]
			n.tile = Tile{X: x, Y: y}
			n.reset(0)
		}
	}
	return t
}

// begin starts a new query generation, invalidating every node.
func (t *nodeTable) begin() {
	t.gen++
	if t.gen == 0 {
		for i := range t.nodes {
			t.nodes[i].reset(0)
		}
		t.gen = 1
	}
	t.seq = 0
}

func (t *nodeTable) index(x, y int) int {
	return y*t.width + x
}

// at returns the node at idx, resetting it first if it belongs to an older query.
func (t *nodeTable) at(idx int) *node {
	n := &t.nodes[idx]
	if n.gen != t.gen {
		n.reset(t.gen)
	}
	return n
}

func (t *nodeTable) nextSeq() uint64 {
	t.seq++
	return t.seq
}

package pathfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNode(table *nodeTable, idx int, cost, heuristic float64) {
	n := table.at(idx)
	n.cost = cost
	n.heuristic = heuristic
}

func TestFrontierOrdering(t *testing.T) {
	table := newNodeTable(4, 1)
	table.begin()
	open := newFrontier(table)

	seedNode(table, 0, 3, 1) // 4
	seedNode(table, 1, 1, 1) // 2
	seedNode(table, 2, 2, 0) // 2, inserted after 1
	seedNode(table, 3, 0, 5) // 5
	for idx := 0; idx < 4; idx++ {
		open.insert(idx)
	}
	require.Equal(t, 4, open.size())

	var order []int
	for open.size() > 0 {
		idx, ok := open.peek()
		require.True(t, ok)
		order = append(order, idx)
		open.remove(idx)
	}
	assert.Equal(t, []int{1, 2, 0, 3}, order)

	_, ok := open.peek()
	assert.False(t, ok)
}

func TestFrontierRemoveArbitrary(t *testing.T) {
	table := newNodeTable(6, 1)
	table.begin()
	open := newFrontier(table)
	for idx := 0; idx < 6; idx++ {
		seedNode(table, idx, float64(6-idx), 0)
		open.insert(idx)
	}

	open.remove(2)
	open.remove(5)
	open.remove(5) // already gone

	assert.False(t, open.contains(2))
	assert.False(t, open.contains(5))
	assert.True(t, open.contains(4))
	assert.Equal(t, 4, open.size())

	idx, _ := open.peek()
	assert.Equal(t, 4, idx)

	// re-insert after a cost change
	table.nodes[2].cost = 0
	open.insert(2)
	idx, _ = open.peek()
	assert.Equal(t, 2, idx)
}

func TestFrontierInsertTwiceIsNoop(t *testing.T) {
	table := newNodeTable(2, 1)
	table.begin()
	open := newFrontier(table)
	seedNode(table, 0, 1, 0)

	open.insert(0)
	open.insert(0)
	assert.Equal(t, 1, open.size())
}

func TestFrontierClear(t *testing.T) {
	table := newNodeTable(3, 1)
	table.begin()
	open := newFrontier(table)
	for idx := 0; idx < 3; idx++ {
		seedNode(table, idx, 1, 0)
		open.insert(idx)
	}

	open.clear()
	assert.Equal(t, 0, open.size())
	for idx := 0; idx < 3; idx++ {
		assert.False(t, open.contains(idx))
	}
}

func TestExploredSet(t *testing.T) {
	closed := newExploredSet(5)
	assert.False(t, closed.contains(0), "fresh set must be empty")

	closed.insert(1)
	closed.insert(3)
	closed.insert(3)
	assert.True(t, closed.contains(1))
	assert.True(t, closed.contains(3))
	assert.Equal(t, 2, closed.size())

	closed.remove(3)
	assert.False(t, closed.contains(3))
	assert.Equal(t, 1, closed.size())
	closed.remove(3)
	assert.Equal(t, 1, closed.size())

	closed.clear()
	assert.False(t, closed.contains(1))
	assert.Equal(t, 0, closed.size())
}

func TestExploredSetEpochWrap(t *testing.T) {
	closed := newExploredSet(2)
	closed.epoch = ^uint32(0)
	closed.insert(0)
	closed.clear()
	assert.Equal(t, uint32(1), closed.epoch)
	assert.False(t, closed.contains(0))
	assert.False(t, closed.contains(1))
}

func TestNodeTableGenerations(t *testing.T) {
	table := newNodeTable(3, 2)
	table.begin()

	n := table.at(table.index(2, 1))
	assert.Equal(t, Tile{2, 1}, n.tile)
	n.cost = 7
	n.parent = 0

	table.begin()
	n = table.at(table.index(2, 1))
	assert.True(t, n.cost > 1e300, "stale cost must be reset")
	assert.Equal(t, noParent, n.parent)
}

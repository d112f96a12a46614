package pathfind

import "container/heap"

// frontier is the open set: an indexed binary heap of node-table indices
// ordered by cost+heuristic, then by insertion order. Each node keeps its
// heap slot so it can be removed from anywhere in the heap.
type frontier struct {
	table *nodeTable
	items []int
}

func newFrontier(table *nodeTable) *frontier {
	return &frontier{table: table, items: make([]int, 0, 64)}
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	a := &f.table.nodes[f.items[i]]
	b := &f.table.nodes[f.items[j]]
	pa, pb := a.priority(), b.priority()
	if pa != pb {
		return pa < pb
	}
	return a.seq < b.seq
}

func (f *frontier) Swap(i, j int) {
	f.items[i], f.items[j] = f.items[j], f.items[i]
	f.table.nodes[f.items[i]].heapIndex = i
	f.table.nodes[f.items[j]].heapIndex = j
}

func (f *frontier) Push(x any) {
	idx := x.(int)
	f.table.nodes[idx].heapIndex = len(f.items)
	f.items = append(f.items, idx)
}

func (f *frontier) Pop() any {
	old := f.items
	n := len(old)
	idx := old[n-1]
	f.items = old[:n-1]
	f.table.nodes[idx].heapIndex = -1
	return idx
}

// peek returns the best node without removing it.
func (f *frontier) peek() (int, bool) {
	if len(f.items) == 0 {
		return noParent, false
	}
	return f.items[0], true
}

// insert adds idx. The node's cost and heuristic must already be final; to
// change them, remove the node first and insert it again.
func (f *frontier) insert(idx int) {
	if f.contains(idx) {
		return
	}
	f.table.nodes[idx].seq = f.table.nextSeq()
	heap.Push(f, idx)
}

func (f *frontier) remove(idx int) {
	slot := f.table.nodes[idx].heapIndex
	if slot < 0 || slot >= len(f.items) || f.items[slot] != idx {
		return
	}
	heap.Remove(f, slot)
}

func (f *frontier) contains(idx int) bool {
	slot := f.table.nodes[idx].heapIndex
	return slot >= 0 && slot < len(f.items) && f.items[slot] == idx
}

func (f *frontier) size() int {
	return len(f.items)
}

func (f *frontier) clear() {
	for _, idx := range f.items {
		f.table.nodes[idx].heapIndex = -1
	}
	f.items = f.items[:0]
}

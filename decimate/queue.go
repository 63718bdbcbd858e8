package decimate

import (
	"container/heap"

	"gonum.org/v1/gonum/spatial/r3"
)

// Compile time check to ensure candidateQueue satisfies the heap interface.
var _ heap.Interface = (*candidateQueue)(nil)

// candidate is a queued edge collapse: the unordered vertex pair (u < v),
// its cached quadric cost and the precomputed merge position. The version
// fields snapshot the endpoint versions at push time; a mismatch at pop time
// means an intervening collapse invalidated the entry (lazy deletion).
type candidate struct {
	u, v       uint32
	verU, verV uint32
	cost       float64
	target     r3.Vec
	index      int // maintained by the heap.Interface methods
}

// candidateQueue implements heap.Interface as a min-heap over collapse cost.
// Equal costs are broken by the lowest (u, v) pair so runs are reproducible.
type candidateQueue struct {
	items []*candidate
}

// Len returns the number of queued candidates.
func (cq *candidateQueue) Len() int { return len(cq.items) }

// Less reports whether the candidate at i should sort before the one at j.
func (cq *candidateQueue) Less(i, j int) bool {
	a, b := cq.items[i], cq.items[j]
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.u != b.u {
		return a.u < b.u
	}
	return a.v < b.v
}

// Swap swaps the candidates with indexes i and j.
func (cq *candidateQueue) Swap(i, j int) {
	cq.items[i], cq.items[j] = cq.items[j], cq.items[i]
	cq.items[i].index, cq.items[j].index = i, j
}

// Push adds x to the queue.
func (cq *candidateQueue) Push(x any) {
	item, _ := x.(*candidate)
	item.index = len(cq.items)
	cq.items = append(cq.items, item)
}

// Pop removes and returns the lowest-cost candidate.
func (cq *candidateQueue) Pop() any {
	old := cq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // Avoid memory leak
	item.index = -1 // For safety
	cq.items = old[:n-1]
	return item
}

package searcher

import (
	"cmp"
	"slices"
)

// Candidate is a corpus entry scored against a query.
type Candidate struct {
	ID       uint64  // ID of the corpus entry.
	Distance float64 // Distance to the query; lower is closer.
}

// Compare orders candidates by ascending distance, then ascending ID.
func Compare(a, b Candidate) int {
	if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// PriorityQueue is a max-heap of candidates: the top is the worst candidate
// (largest distance, then largest ID). Bounded to k items it keeps the k best.
type PriorityQueue struct {
	items []Candidate
}

// NewPriorityQueue creates a new priority queue with the given initial capacity.
func NewPriorityQueue(capacity int) *PriorityQueue {
	return &PriorityQueue{
		items: make([]Candidate, 0, capacity),
	}
}

// Len returns the number of elements in the heap.
func (pq *PriorityQueue) Len() int {
	return len(pq.items)
}

// Top returns the worst candidate in the heap.
func (pq *PriorityQueue) Top() (Candidate, bool) {
	if len(pq.items) == 0 {
		return Candidate{}, false
	}
	return pq.items[0], true
}

// Push inserts an item while maintaining the heap invariant.
func (pq *PriorityQueue) Push(item Candidate) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// PushBounded inserts an item into a heap bounded to capacity items.
// If the heap is full and the new item is worse than the top, it is skipped.
// If the heap is full and the new item is better, the top is replaced.
// It reports whether the item was kept.
func (pq *PriorityQueue) PushBounded(item Candidate, capacity int) bool {
	if capacity <= 0 {
		return false
	}
	if len(pq.items) < capacity {
		pq.Push(item)
		return true
	}
	if Compare(item, pq.items[0]) >= 0 {
		return false
	}
	pq.items[0] = item
	pq.siftDown(0)
	return true
}

// Pop removes and returns the worst candidate.
func (pq *PriorityQueue) Pop() (Candidate, bool) {
	n := len(pq.items)
	if n == 0 {
		return Candidate{}, false
	}

	item := pq.items[0]
	pq.items[0] = pq.items[n-1]
	pq.items = pq.items[:n-1]

	if len(pq.items) > 0 {
		pq.siftDown(0)
	}

	return item, true
}

// Sorted returns a copy of the items ordered best first.
func (pq *PriorityQueue) Sorted() []Candidate {
	out := slices.Clone(pq.items)
	slices.SortFunc(out, Compare)
	return out
}

// Reset clears the priority queue.
func (pq *PriorityQueue) Reset() {
	pq.items = pq.items[:0]
}

// less reports whether item i is worse than item j (max-heap order).
func (pq *PriorityQueue) less(i, j int) bool {
	return Compare(pq.items[i], pq.items[j]) > 0
}

func (pq *PriorityQueue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !pq.less(i, parent) {
			break
		}
		pq.items[i], pq.items[parent] = pq.items[parent], pq.items[i]
		i = parent
	}
}

func (pq *PriorityQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		right := left + 1
		if right < n && pq.less(right, left) {
			child = right
		}
		if !pq.less(child, i) {
			break
		}
		pq.items[i], pq.items[child] = pq.items[child], pq.items[i]
		i = child
	}
}

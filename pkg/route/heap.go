package route

import "math"

// minHeap is a concrete-typed min-heap for the search priority queue.
// Avoids the interface boxing overhead of container/heap.
type minHeap struct {
	items []pqItem
}

// pqItem is a priority queue entry. Priority is the full ordering key
// (distance for Dijkstra, distance plus heuristic for A*); Dist is the
// accumulated distance from the start node.
type pqItem struct {
	Node     int
	Priority float64
	Dist     float64
}

func (h *minHeap) Len() int { return len(h.items) }

func (h *minHeap) Push(node int, priority, dist float64) {
	h.items = append(h.items, pqItem{Node: node, Priority: priority, Dist: dist})
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) Pop() pqItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *minHeap) PeekPriority() float64 {
	if len(h.items) == 0 {
		return math.Inf(1)
	}
	return h.items[0].Priority
}

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Priority >= h.items[parent].Priority {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].Priority < h.items[smallest].Priority {
			smallest = left
		}
		if right < n && h.items[right].Priority < h.items[smallest].Priority {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

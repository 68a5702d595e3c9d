package sqlite

// touchHeap is a min-heap of cached statements ordered by last touch, so
// the eviction victim is always at the root. onMove keeps the cache's
// hash->index table in sync as entries shift.
type touchHeap struct {
	heap   []*cachedStmt
	size   int
	onMove func(e *cachedStmt, i int)
}

const heapRoot = 1

func newTouchHeap(onMove func(e *cachedStmt, i int)) *touchHeap {
	return &touchHeap{
		heap:   make([]*cachedStmt, 8),
		onMove: onMove,
	}
}

func (h *touchHeap) len() int {
	return h.size
}

func (h *touchHeap) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.onMove(h.heap[i], i)
	h.onMove(h.heap[j], j)
}

func (h *touchHeap) put(e *cachedStmt) {
	pos := h.size + 1
	if pos >= len(h.heap) {
		grown := make([]*cachedStmt, len(h.heap)*2)
		copy(grown, h.heap)
		h.heap = grown
	}
	h.heap[pos] = e
	h.size++
	h.onMove(e, pos)
	h.siftUp(pos)
}

func (h *touchHeap) siftUp(current int) {
	for current != heapRoot {
		parent := current / 2
		if h.heap[parent].lastTouch > h.heap[current].lastTouch {
			h.swap(parent, current)
			current = parent
		} else {
			return
		}
	}
}

func (h *touchHeap) siftDown(current int) {
	for {
		l := current * 2
		r := l + 1
		if l > h.size {
			return
		}
		child := l
		if r <= h.size && h.heap[r].lastTouch < h.heap[child].lastTouch {
			child = r
		}
		if h.heap[child].lastTouch < h.heap[current].lastTouch {
			h.swap(child, current)
			current = child
		} else {
			return
		}
	}
}

// extract removes the entry at index i and restores heap order.
func (h *touchHeap) extract(i int) *cachedStmt {
	res := h.heap[i]
	last := h.size
	h.size--
	if i != last {
		h.swap(i, last)
		h.siftUp(i)
		h.siftDown(i)
	}
	h.heap[last] = nil
	return res
}

// pop removes the least recently touched entry.
func (h *touchHeap) pop() *cachedStmt {
	return h.extract(heapRoot)
}

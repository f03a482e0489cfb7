// Package boundedheap implements a fixed-capacity key-indexed heap: a
// binary heap over (key, priority) pairs with an auxiliary key→slot map, so
// that the priority of an already-resident key can be changed in O(log k)
// without a linear scan. When full, inserting a new key evicts the current
// root first.
//
// Ported from the C++ FixedSizeHeap in
// original_source/cache/stack_simulator/fixed_size_heap.hpp, generalized to
// a Go generic and extended with a two-way restore (sift-up-then-down) so
// that the same type serves both the LFU simulator (priority only ever
// increases on a hit) and the OPT simulator (a next-reference index may
// move either direction relative to its neighbors after an eviction).
package boundedheap

// Less reports whether a has higher priority for eviction purposes than b,
// i.e. whether a should sit closer to the root than b. For a min-heap
// (LFU: evict least-frequent) Less(a, b) is "a < b"; for a max-heap (OPT:
// evict the key referenced farthest in the future) Less(a, b) is "a > b".
type Less[V any] func(a, b V) bool

// Min is a Less for an ordered type, comparing lowest-first (min-heap:
// the root, and the first eviction victim, is the smallest value).
func Min[V int | int64 | uint64 | float64](a, b V) bool {
	return a < b
}

// Max is a Less for an ordered type, comparing highest-first (max-heap:
// the root, and the first eviction victim, is the largest value).
func Max[V int | int64 | uint64 | float64](a, b V) bool {
	return a > b
}

type slot[K comparable, V any] struct {
	key   K
	value V
}

// Heap is a fixed-capacity key-indexed binary heap.
type Heap[K comparable, V any] struct {
	slots    []slot[K, V]
	index    map[K]int
	size     int
	capacity int
	less     Less[V]
}

// New creates a Heap with the given capacity and comparator. A capacity of
// 0 produces a heap that immediately evicts anything inserted into it
// (useful for representing a zero-size cache).
func New[K comparable, V any](capacity int, less Less[V]) *Heap[K, V] {
	if capacity < 0 {
		panic("boundedheap: negative capacity")
	}
	return &Heap[K, V]{
		slots:    make([]slot[K, V], capacity),
		index:    make(map[K]int, capacity),
		capacity: capacity,
		less:     less,
	}
}

// Len returns the number of resident elements.
func (h *Heap[K, V]) Len() int { return h.size }

// Cap returns the fixed capacity.
func (h *Heap[K, V]) Cap() int { return h.capacity }

// Contains reports whether key is currently resident.
func (h *Heap[K, V]) Contains(key K) bool {
	_, ok := h.index[key]
	return ok
}

// Get returns the value currently associated with key. It is a contract
// violation to call Get with a key that is not resident.
func (h *Heap[K, V]) Get(key K) V {
	i, ok := h.index[key]
	if !ok {
		panic("boundedheap: Get on absent key")
	}
	return h.slots[i].value
}

func parent(i int) int { return (i - 1) / 2 }
func left(i int) int   { return 2*i + 1 }
func right(i int) int  { return 2*i + 2 }

func (h *Heap[K, V]) swap(i, j int) {
	h.slots[i], h.slots[j] = h.slots[j], h.slots[i]
	h.index[h.slots[i].key] = i
	h.index[h.slots[j].key] = j
}

// siftDown restores heap order downward from i.
func (h *Heap[K, V]) siftDown(i int) {
	for {
		l, r := left(i), right(i)
		pivot := i
		if l < h.size && h.less(h.slots[l].value, h.slots[pivot].value) {
			pivot = l
		}
		if r < h.size && h.less(h.slots[r].value, h.slots[pivot].value) {
			pivot = r
		}
		if pivot == i {
			return
		}
		h.swap(i, pivot)
		i = pivot
	}
}

// siftUp restores heap order upward from i.
func (h *Heap[K, V]) siftUp(i int) {
	for i > 0 {
		p := parent(i)
		if !h.less(h.slots[i].value, h.slots[p].value) {
			return
		}
		h.swap(i, p)
		i = p
	}
}

// restore repairs heap order at slot i in either direction: it tries
// sift-up first, and if i did not move, falls back to sift-down. This
// covers both "priority only improves" callers (LFU) and "priority may
// move either way relative to its new neighborhood" callers (OPT), per the
// two-direction restore the bounded heap's `change` must support.
func (h *Heap[K, V]) restore(i int) {
	if i > 0 && h.less(h.slots[i].value, h.slots[parent(i)].value) {
		h.siftUp(i)
		return
	}
	h.siftDown(i)
}

// Insert adds a new key/value pair. It is a contract violation to insert a
// key that is already resident — callers must use Change or Set instead.
// If the heap is full, the current root is evicted first.
func (h *Heap[K, V]) Insert(key K, value V) {
	if h.Contains(key) {
		panic("boundedheap: Insert called with an already-resident key")
	}
	if h.capacity == 0 {
		return
	}
	if h.size == h.capacity {
		delete(h.index, h.slots[0].key)
		h.size--
		if h.size > 0 {
			h.slots[0] = h.slots[h.size]
			h.index[h.slots[0].key] = 0
			h.siftDown(0)
		}
	}
	i := h.size
	h.slots[i] = slot[K, V]{key: key, value: value}
	h.index[key] = i
	h.size++
	h.siftUp(i)
}

// Change applies f to the value currently stored for key and restores heap
// order. It is a contract violation to call Change with a key that is not
// resident.
func (h *Heap[K, V]) Change(key K, f func(V) V) {
	i, ok := h.index[key]
	if !ok {
		panic("boundedheap: Change on absent key")
	}
	h.slots[i].value = f(h.slots[i].value)
	h.restore(i)
}

// Set replaces the value stored for key and restores heap order. Shorthand
// for Change(key, func(V) V { return value }).
func (h *Heap[K, V]) Set(key K, value V) {
	h.Change(key, func(V) V { return value })
}

// KeyAt returns the key resident at slot i (0 <= i < Len()), in whatever
// order the heap currently holds it — callers needing a stable traversal
// (e.g. a footprint-by-group query) should not assume heap order carries
// meaning beyond "resident". It is a contract violation to call KeyAt with
// i out of [0, Len()).
func (h *Heap[K, V]) KeyAt(i int) K {
	if i < 0 || i >= h.size {
		panic("boundedheap: KeyAt index out of range")
	}
	return h.slots[i].key
}

// Root returns the key and value currently at the root (the next eviction
// victim), and false if the heap is empty.
func (h *Heap[K, V]) Root() (K, V, bool) {
	if h.size == 0 {
		var zk K
		var zv V
		return zk, zv, false
	}
	return h.slots[0].key, h.slots[0].value, true
}

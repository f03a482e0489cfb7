// Package clustercache implements the per-processor LFU cache the cluster
// simulator consults to short-circuit remote embedding lookups, in two
// modes: Private (one boundedheap.Heap per (processor, table)) and Shared
// (one boundedheap.Heap per processor, keyed by the composite (table, id)).
//
// Grounded on spec.md §4.7; built directly on sim/boundedheap's
// min-frequency heap, the same primitive the HRC LFU simulator (sim/hrc)
// uses, so that one heap implementation serves both the HRC and cluster
// families (SPEC_FULL.md §3.1).
package clustercache

import "github.com/fsossai/embeddings/sim/boundedheap"

// PolicyName identifies the replacement policy this package implements, for
// the cluster simulator's cache_policy report field (spec.md §6) — the only
// policy clustercache implements is LFU.
const PolicyName = "LFU"

// compositeKey identifies a resident row in Shared mode.
type compositeKey struct {
	table int
	id    uint32
}

// Cache is a per-processor LFU cache fronting embedding-table lookups.
type Cache struct {
	shared bool
	sizes  []int // per-table capacities; a Shared heap's capacity is their sum

	// Private mode: private[p][table]
	private [][]*boundedheap.Heap[uint32, int]
	// Shared mode: shared[p]
	sharedHeaps []*boundedheap.Heap[compositeKey, int]

	refs map[[2]int]int64 // (p,table) -> reference count
	hits map[[2]int]int64 // (p,table) -> hit count

	numProcessors int
	numTables     int
}

// NewPrivate creates a Private-mode cache: one heap per (processor, table)
// with per-table capacity sizes[table].
func NewPrivate(numProcessors int, sizes []int) *Cache {
	c := &Cache{
		sizes:         sizes,
		numProcessors: numProcessors,
		numTables:     len(sizes),
		refs:          make(map[[2]int]int64),
		hits:          make(map[[2]int]int64),
	}
	c.private = make([][]*boundedheap.Heap[uint32, int], numProcessors)
	for p := range c.private {
		c.private[p] = make([]*boundedheap.Heap[uint32, int], len(sizes))
		for tbl, size := range sizes {
			c.private[p][tbl] = boundedheap.New[uint32, int](size, boundedheap.Min[int])
		}
	}
	return c
}

// NewShared creates a Shared-mode cache: one heap per processor, keyed by
// (table, id), with aggregate capacity sum(sizes).
func NewShared(numProcessors int, sizes []int) *Cache {
	aggregate := 0
	for _, s := range sizes {
		aggregate += s
	}
	c := &Cache{
		shared:        true,
		sizes:         sizes,
		numProcessors: numProcessors,
		numTables:     len(sizes),
		refs:          make(map[[2]int]int64),
		hits:          make(map[[2]int]int64),
	}
	c.sharedHeaps = make([]*boundedheap.Heap[compositeKey, int], numProcessors)
	for p := range c.sharedHeaps {
		c.sharedHeaps[p] = boundedheap.New[compositeKey, int](aggregate, boundedheap.Min[int])
	}
	return c
}

// Reference records one access to (p, table, id) against an LFU heap and
// returns true iff it was a hit. Drives the cluster simulator's
// short-circuiting of remote lookups on cache hits (spec.md §4.8).
func (c *Cache) Reference(p, table int, id uint32) bool {
	key := [2]int{p, table}
	c.refs[key]++

	if c.shared {
		h := c.sharedHeaps[p]
		ck := compositeKey{table: table, id: id}
		if h.Contains(ck) {
			h.Change(ck, func(v int) int { return v + 1 })
			c.hits[key]++
			return true
		}
		h.Insert(ck, 1)
		return false
	}

	h := c.private[p][table]
	if h.Contains(id) {
		h.Change(id, func(v int) int { return v + 1 })
		c.hits[key]++
		return true
	}
	h.Insert(id, 1)
	return false
}

// Refs returns the number of references recorded for (p, table).
func (c *Cache) Refs(p, table int) int64 { return c.refs[[2]int{p, table}] }

// Hits returns the number of hits recorded for (p, table).
func (c *Cache) Hits(p, table int) int64 { return c.hits[[2]int{p, table}] }

// Footprint is a Shared-mode-only query: for processor p, the count of
// resident keys grouped by their table field (spec.md §3, §4.7).
func (c *Cache) Footprint(p int) []int {
	if !c.shared {
		panic("clustercache: Footprint is only defined in Shared mode")
	}
	counts := make([]int, c.numTables)
	h := c.sharedHeaps[p]
	for i := 0; i < h.Len(); i++ {
		counts[h.KeyAt(i).table]++
	}
	return counts
}

// Package hrc implements the LFU and OPT (Bélády) hit-rate-curve
// simulators, both built on sim/boundedheap. LFU streams the trace through
// a min-frequency heap; OPT precomputes each key's future reference
// timestamps and streams the trace through a max-next-reference heap, the
// offline-optimal replacement policy.
//
// Grounded on original_source/cache/stack_simulator/cpolicies.hpp (LRU/LFU
// hit-rate derivation shape) and spec.md §4.4-§4.5; the original source
// does not implement LFU/OPT itself (only LRU, per SPEC_FULL.md §9's note
// on authoritative variants), so these are built directly from the
// specification against the shared boundedheap.Heap primitive.
package hrc

import "github.com/fsossai/embeddings/sim/boundedheap"

// LFU streams requests through a BoundedKeyedHeap of capacity size,
// configured as a min-frequency heap, and returns the hit rate. Ties among
// equal-frequency residents are broken by the heap's structural order
// (implementation-defined, per spec.md §4.4 / §9).
func LFU[T comparable](requests []T, size int) float64 {
	if size <= 0 || len(requests) == 0 {
		return 0
	}
	h := boundedheap.New[T, int](size, boundedheap.Min[int])
	hits := 0
	for _, key := range requests {
		if h.Contains(key) {
			h.Change(key, func(v int) int { return v + 1 })
			hits++
		} else {
			h.Insert(key, 1)
		}
	}
	return float64(hits) / float64(len(requests))
}

// LFUCurve runs LFU independently for every requested cache size and
// returns a size→hitrate map.
func LFUCurve[T comparable](requests []T, sizes []int) map[int]float64 {
	out := make(map[int]float64, len(sizes))
	for _, size := range sizes {
		out[size] = LFU(requests, size)
	}
	return out
}

package hrc

import (
	"math"

	"github.com/fsossai/embeddings/sim/boundedheap"
)

// nextRefIndex precomputes, for each position in requests, the index of
// that key's next future reference (or math.MaxInt for none), per spec.md
// §4.5. One scan builds a per-key list of reference indices; a second pass
// (implicit in the cursor below) reads each key's own next index lazily.
func nextRefIndex[T comparable](requests []T) []int {
	occurrences := make(map[T][]int, len(requests))
	for i, key := range requests {
		occurrences[key] = append(occurrences[key], i)
	}

	const noMore = math.MaxInt
	cursor := make(map[T]int, len(requests))
	next := make([]int, len(requests))
	for i, key := range requests {
		idxs := occurrences[key]
		c := cursor[key]
		c++ // skip past the current occurrence
		cursor[key] = c
		if c < len(idxs) {
			next[i] = idxs[c]
		} else {
			next[i] = noMore
		}
	}
	return next
}

// OPT streams requests through a BoundedKeyedHeap of capacity size,
// configured as a max-next-reference heap (Bélády's offline-optimal
// policy: evict the key referenced farthest in the future), and returns
// the hit rate.
func OPT[T comparable](requests []T, size int) float64 {
	if size <= 0 || len(requests) == 0 {
		return 0
	}
	next := nextRefIndex(requests)
	h := boundedheap.New[T, int](size, boundedheap.Max[int])
	hits := 0
	for i, key := range requests {
		if h.Contains(key) {
			h.Set(key, next[i])
			hits++
		} else {
			h.Insert(key, next[i])
		}
	}
	return float64(hits) / float64(len(requests))
}

// OPTCurve runs OPT independently for every requested cache size and
// returns a size→hitrate map.
func OPTCurve[T comparable](requests []T, sizes []int) map[int]float64 {
	out := make(map[int]float64, len(sizes))
	for _, size := range sizes {
		out[size] = OPT(requests, size)
	}
	return out
}

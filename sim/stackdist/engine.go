// Package stackdist implements the exact LRU stack-distance engine: given a
// reference stream, it computes for each reference the number of distinct
// keys seen since that key's previous occurrence (its "stack distance"),
// using a ranktree.Tree so each reference costs O(log n) instead of a
// linear LRU-stack scan. From the resulting distance stream the exact LRU
// hit-rate curve is derived in a single sort-and-sweep pass.
//
// Grounded on original_source/cache/stack_simulator/simulator.hpp's
// Simulator<Policy::LRU, T>, generalized to a Go generic over comparable
// keys (string, uint32, int64 — the types spec.md §6 names for HRC
// traces).
package stackdist

import (
	"math"
	"math/rand"
	"sort"

	"github.com/fsossai/embeddings/sim/ranktree"
)

// Infinite is the sentinel stack distance returned for a key's first
// occurrence: it has no prior reference, so no finite cache size could have
// made it a hit.
const Infinite = math.MaxUint64

// Engine computes per-reference LRU stack distances over a single stream.
type Engine[T comparable] struct {
	tree   *ranktree.Tree[T]
	lookup map[T]*ranktree.Node[T]
}

// New creates an Engine. A nil rnd uses a fixed default seed; pass a seeded
// rand.Rand for reproducibility across runs of the same trace.
func New[T comparable](rnd *rand.Rand) *Engine[T] {
	return &Engine[T]{
		tree:   ranktree.New[T](rnd),
		lookup: make(map[T]*ranktree.Node[T]),
	}
}

// Reference records one access to key and returns its stack distance: the
// number of distinct keys referenced since the previous access to key, or
// Infinite on a first occurrence.
func (e *Engine[T]) Reference(key T) uint64 {
	node, seen := e.lookup[key]
	if !seen {
		e.lookup[key] = e.tree.Insert(key)
		return Infinite
	}
	distance := e.tree.Rank(node)
	e.tree.Remove(node)
	e.tree.InsertNode(node)
	return distance
}

// Distinct returns the number of distinct keys referenced so far.
func (e *Engine[T]) Distinct() int {
	return len(e.lookup)
}

// Distances runs Reference over the whole stream and returns the resulting
// distance sequence, in order.
func Distances[T comparable](requests []T, rnd *rand.Rand) []uint64 {
	e := New[T](rnd)
	out := make([]uint64, len(requests))
	for i, r := range requests {
		out[i] = e.Reference(r)
	}
	return out
}

// HitRates computes the exact LRU hit-rate curve for every cache size
// present as a distinct step in the trace's sorted distance stream: a
// cache of size s hits exactly the references whose distance is < s.
// Expressed as a monotone, right-continuous step function, sized to the
// number of distinct values the distance stream takes (spec.md §4.3).
func HitRates[T comparable](requests []T, rnd *rand.Rand) map[uint64]float64 {
	distances := Distances(requests, rnd)
	return hitRatesFromDistances(distances)
}

func hitRatesFromDistances(distances []uint64) map[uint64]float64 {
	sorted := append([]uint64(nil), distances...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	curve := make(map[uint64]float64)
	if len(sorted) == 0 {
		return curve
	}
	length := float64(len(sorted))
	key := uint64(0)
	count := 0
	for _, val := range sorted {
		if val != key {
			curve[key+1] = float64(count) / length
			key = val
		}
		count++
	}
	return curve
}

// HitRateAt computes the exact LRU hit rate for a single cache size: the
// fraction of references whose stack distance is strictly less than size.
func HitRateAt[T comparable](requests []T, size int, rnd *rand.Rand) float64 {
	if len(requests) == 0 {
		return 0
	}
	distances := Distances(requests, rnd)
	hits := 0
	for _, d := range distances {
		if d < uint64(size) {
			hits++
		}
	}
	return float64(hits) / float64(len(requests))
}

// RelativeHitRates additionally reports cache sizes both in absolute terms
// (floor(p*distinct)) and relative terms (p), for each requested
// percentage, by bracketing the requested absolute size against the sorted
// curve's step boundaries (spec.md §4.3).
func RelativeHitRates[T comparable](requests []T, percentages []float64, rnd *rand.Rand) map[float64]RelativeEntry {
	e := New[T](rnd)
	distances := make([]uint64, len(requests))
	for i, r := range requests {
		distances[i] = e.Reference(r)
	}
	distinct := e.Distinct()
	curve := hitRatesFromDistances(distances)

	sizes := make([]uint64, 0, len(curve))
	for size := range curve {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })

	out := make(map[float64]RelativeEntry, len(percentages))
	for _, p := range percentages {
		absSize := uint64(p * float64(distinct))
		out[p] = RelativeEntry{
			AbsoluteSize: absSize,
			Relative:     p,
			HitRate:      bracketHitRate(sizes, curve, absSize),
		}
	}
	return out
}

// RelativeEntry is one row of a hitrates_relative report.
type RelativeEntry struct {
	AbsoluteSize uint64
	Relative     float64
	HitRate      float64
}

// bracketHitRate finds the curve entry whose absolute-size bracket contains
// target, by an adjacent-pair scan of the ascending, sorted curve-entry
// sizes (spec.md §4.3).
func bracketHitRate(sizes []uint64, curve map[uint64]float64, target uint64) float64 {
	if len(sizes) == 0 {
		return 0
	}
	if target < sizes[0] {
		return 0
	}
	for i := 0; i < len(sizes)-1; i++ {
		if target >= sizes[i] && target < sizes[i+1] {
			return curve[sizes[i]]
		}
	}
	return curve[sizes[len(sizes)-1]]
}

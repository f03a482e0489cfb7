package hrc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLFU_ClassicAnomaly_FourHits(t *testing.T) {
	// GIVEN the classic Bélády stream with a cache of size 3
	stream := []string{"A", "B", "C", "A", "B", "D", "E", "A", "B"}

	// WHEN run through LFU
	rate := LFU(stream, 3)

	// THEN A and B are retained by frequency (their count of 2 always beats
	// the newcomers D/E's count of 1), yielding hits on both of their
	// later repeats: 4 hits out of 9.
	require.InDelta(t, 4.0/9.0, rate, 1e-9)
}

func TestOPT_ClassicAnomaly_FourHits(t *testing.T) {
	// GIVEN the same stream
	stream := []string{"A", "B", "C", "A", "B", "D", "E", "A", "B"}

	// WHEN run through OPT
	rate := OPT(stream, 3)

	// THEN OPT retains A and B throughout (they recur), yielding 4 hits
	require.InDelta(t, 4.0/9.0, rate, 1e-9)
}

func TestOPT_DominatesLFU_OnClassicAnomaly(t *testing.T) {
	stream := []string{"A", "B", "C", "A", "B", "D", "E", "A", "B"}
	require.GreaterOrEqual(t, OPT(stream, 3), LFU(stream, 3))
}

func TestLFU_ZeroSize_HitRateIsZero(t *testing.T) {
	require.Equal(t, 0.0, LFU([]string{"A", "B", "A"}, 0))
}

func TestOPT_ZeroSize_HitRateIsZero(t *testing.T) {
	require.Equal(t, 0.0, OPT([]string{"A", "B", "A"}, 0))
}

func TestHitRate_MonotonicInSize(t *testing.T) {
	// GIVEN a trace with more distinct keys than the largest cache size tried
	stream := []int{1, 2, 3, 4, 5, 1, 2, 3, 1, 2, 6, 7, 1}

	var prevLFU, prevOPT float64
	for _, size := range []int{1, 2, 3, 4, 5, 6, 7} {
		lfu := LFU(stream, size)
		opt := OPT(stream, size)
		require.GreaterOrEqual(t, lfu, prevLFU-1e-9, "LFU hit rate must be non-decreasing in size")
		require.GreaterOrEqual(t, opt, prevOPT-1e-9, "OPT hit rate must be non-decreasing in size")
		require.GreaterOrEqual(t, opt, lfu-1e-9, "OPT must never do worse than LFU")
		require.LessOrEqual(t, lfu, 1.0)
		require.LessOrEqual(t, opt, 1.0)
		prevLFU, prevOPT = lfu, opt
	}
}

func TestNextRefIndex_NoFutureReference_IsSentinel(t *testing.T) {
	next := nextRefIndex([]string{"A", "B", "C"})
	require.Equal(t, 3, len(next))
	for _, n := range next {
		require.Greater(t, n, 2) // none of these keys recur
	}
}

func TestNextRefIndex_TracksRepeatedKey(t *testing.T) {
	next := nextRefIndex([]string{"A", "B", "A", "C", "A"})
	// index 0 (first A) should point to index 2 (second A)
	require.Equal(t, 2, next[0])
	// index 2 (second A) should point to index 4 (third A)
	require.Equal(t, 4, next[2])
}

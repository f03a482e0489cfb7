package ranktree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTree[T any](seed int64) *Tree[T] {
	return New[T](rand.New(rand.NewSource(seed)))
}

func TestTree_Insert_SingleNode_RankIsZero(t *testing.T) {
	// GIVEN an empty tree
	tree := newTestTree[string](1)

	// WHEN a single key is inserted
	n := tree.Insert("A")

	// THEN its rank is 0 and the tree size is 1
	require.Equal(t, uint64(0), tree.Rank(n))
	require.Equal(t, uint64(1), tree.Size())
	require.Equal(t, n, tree.First())
	require.Equal(t, n, tree.Last())
}

func TestTree_Insert_AlwaysAtPositionZero(t *testing.T) {
	// GIVEN a tree with two prior insertions
	tree := newTestTree[string](2)
	a := tree.Insert("A")
	b := tree.Insert("B")

	// WHEN a third key is inserted
	c := tree.Insert("C")

	// THEN the new node is at rank 0, and the others shift right
	require.Equal(t, uint64(0), tree.Rank(c))
	require.Equal(t, uint64(3), tree.Size())
	ranks := map[uint64]bool{tree.Rank(a): true, tree.Rank(b): true, tree.Rank(c): true}
	require.Len(t, ranks, 3, "all three ranks must be distinct")
}

func TestTree_Remove_DecreasesWeightAndUnlinks(t *testing.T) {
	// GIVEN a tree of 5 nodes
	tree := newTestTree[int](3)
	nodes := make([]*Node[int], 5)
	for i := range nodes {
		nodes[i] = tree.Insert(i)
	}
	require.Equal(t, uint64(5), tree.Size())

	// WHEN one node is removed
	tree.Remove(nodes[2])

	// THEN the tree size drops by one and all remaining ranks are in range
	require.Equal(t, uint64(4), tree.Size())
	for i, n := range nodes {
		if i == 2 {
			continue
		}
		require.Less(t, tree.Rank(n), uint64(4))
	}
}

func TestTree_RemoveThenReinsert_MovesToFront(t *testing.T) {
	// GIVEN a tree with A, B, C inserted in that order (C is currently first)
	tree := newTestTree[string](4)
	a := tree.Insert("A")
	_ = tree.Insert("B")
	_ = tree.Insert("C")

	// WHEN A is removed and immediately reinserted (as the LRU engine does
	// on a repeat reference)
	rankBefore := tree.Rank(a)
	tree.Remove(a)
	tree.InsertNode(a)

	// THEN A is now at rank 0 and its prior rank was nonzero
	require.NotZero(t, rankBefore)
	require.Equal(t, uint64(0), tree.Rank(a))
	require.Equal(t, uint64(3), tree.Size())
}

func TestTree_FirstAndLast_MatchRankZeroAndWeightMinusOne(t *testing.T) {
	// GIVEN a tree with several insertions
	tree := newTestTree[int](5)
	var last *Node[int]
	for i := 0; i < 20; i++ {
		last = tree.Insert(i)
	}
	_ = last // the most recently inserted node is always rank 0 (First)

	// THEN First() has rank 0 and Last() has rank weight-1
	require.Equal(t, uint64(0), tree.Rank(tree.First()))
	require.Equal(t, tree.Size()-1, tree.Rank(tree.Last()))
}

func TestTree_Stress_RankInvariantsHoldThroughout(t *testing.T) {
	// GIVEN 10,000 sequential insertions
	tree := newTestTree[int](42)
	const n = 10000
	nodes := make([]*Node[int], n)
	for i := 0; i < n; i++ {
		nodes[i] = tree.Insert(i)
	}
	require.Equal(t, uint64(n), tree.Size())

	// WHEN repeatedly moving First() back to the front via Remove+Insert
	for i := 0; i < 2000; i++ {
		first := tree.First()
		require.Equal(t, uint64(0), tree.Rank(first))
		tree.Remove(first)
		tree.InsertNode(first)
		require.Equal(t, uint64(0), tree.Rank(first))
		require.Equal(t, uint64(n), tree.Size(), "weight must stay at n throughout")
	}
}

func TestTree_Rank_LessThanWeightForEveryLiveNode(t *testing.T) {
	tree := newTestTree[int](7)
	nodes := make([]*Node[int], 50)
	for i := range nodes {
		nodes[i] = tree.Insert(i)
	}
	for _, n := range nodes {
		require.Less(t, tree.Rank(n), tree.Size())
	}
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package merkle

import (
	stdsha256 "crypto/sha256"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func testLeaves(n int) [][]byte {
	leaves := make([][]byte, n)
	for i := range leaves {
		leaves[i] = []byte(fmt.Sprintf("signature-%d", i))
	}
	return leaves
}

func TestEmptyRoot(t *testing.T) {
	require := require.New(t)

	require.Equal(ids.ID(stdsha256.Sum256(nil)), Root(nil))
	require.Equal(Root(nil), Root([][]byte{}))
	require.Equal(EmptyRoot, New(nil).Root())
}

func TestSingleLeaf(t *testing.T) {
	leaf := []byte("only")
	require.Equal(t, HashLeaf(leaf), Root([][]byte{leaf}))
}

func TestOddLeafIsDuplicated(t *testing.T) {
	leaves := testLeaves(3)

	l0, l1, l2 := HashLeaf(leaves[0]), HashLeaf(leaves[1]), HashLeaf(leaves[2])
	expected := HashIntermediate(
		HashIntermediate(l0, l1),
		HashIntermediate(l2, l2),
	)
	require.Equal(t, expected, Root(leaves))
}

func TestRootIsOrderSensitive(t *testing.T) {
	leaves := testLeaves(2)
	swapped := [][]byte{leaves[1], leaves[0]}
	require.NotEqual(t, Root(leaves), Root(swapped))
}

func TestTreeMatchesRoot(t *testing.T) {
	for n := 0; n <= 17; n++ {
		leaves := testLeaves(n)
		require.Equal(t, Root(leaves), New(leaves).Root(), "leaves=%d", n)
	}
}

func TestProofs(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 8, 13} {
		leaves := testLeaves(n)
		tree := New(leaves)
		root := tree.Root()

		for i, leaf := range leaves {
			proof, err := tree.Prove(i)
			require.NoError(t, err)
			require.True(t, proof.Verify(leaf, root), "leaves=%d index=%d", n, i)
			require.False(t, proof.Verify([]byte("forged"), root))
		}
	}
}

func TestProveOutOfBounds(t *testing.T) {
	tree := New(testLeaves(4))
	_, err := tree.Prove(4)
	require.ErrorIs(t, err, errIndexOutOfBounds)

	_, err = New(nil).Prove(0)
	require.ErrorIs(t, err, errIndexOutOfBounds)
}

func BenchmarkRoot(b *testing.B) {
	leaves := testLeaves(1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Root(leaves)
	}
}

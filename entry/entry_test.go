// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package entry_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/entry/entry"
	"github.com/luxfi/entry/entry/entrytest"
	"github.com/luxfi/entry/hashing"
	"github.com/luxfi/entry/merkle"
	"github.com/luxfi/entry/txs"
)

func TestTickEntry(t *testing.T) {
	require := require.New(t)

	h0 := ids.GenerateTestID()
	tick := entry.NewTick(h0, 5)
	require.True(tick.IsTick())
	require.Nil(tick.Mixin())

	h5 := h0
	for i := 0; i < 5; i++ {
		h5 = hashing.Iterate(h5)
	}
	require.Equal(h5, tick.Hash)
	require.True(tick.Verify(h0))

	tick.Hash[len(tick.Hash)-1] ^= 0xff
	require.False(tick.Verify(h0))
}

func TestEntryWithTransactions(t *testing.T) {
	require := require.New(t)

	h0 := ids.GenerateTestID()
	transactions := entrytest.Txs(t, "pair", 2)
	e, err := entry.NextEntry(h0, 3, transactions)
	require.NoError(err)
	require.False(e.IsTick())

	sigs := [][]byte{
		transactions[0].Signatures()[0],
		transactions[1].Signatures()[0],
	}
	mixin := merkle.Root(sigs)
	require.Equal(mixin, entry.ComputeMixin(transactions))
	require.Equal(hashing.Mix(hashing.Iterate(hashing.Iterate(h0)), mixin), e.Hash)
	require.True(e.Verify(h0))

	swapped := e
	swapped.Transactions = []entry.Transaction{transactions[1], transactions[0]}
	require.False(swapped.Verify(h0))
}

func TestComputeMixin(t *testing.T) {
	require := require.New(t)

	require.Equal(merkle.EmptyRoot, entry.ComputeMixin(nil))
	require.Equal(entry.ComputeMixin(nil), entry.ComputeMixin([]entry.Transaction{}))

	single := entrytest.Txs(t, "single", 1)
	require.Equal(merkle.HashLeaf(single[0].Signatures()[0]), entry.ComputeMixin(single))

	three := entrytest.Txs(t, "three", 3)
	permuted := []entry.Transaction{three[2], three[0], three[1]}
	require.NotEqual(entry.ComputeMixin(three), entry.ComputeMixin(permuted))
}

func TestComputeMixinMultiSignature(t *testing.T) {
	require := require.New(t)

	tx, err := txs.New([]byte("multisig"), entrytest.Key(1), entrytest.Key(2))
	require.NoError(err)

	expected := merkle.Root([][]byte{tx.Sigs[0], tx.Sigs[1]})
	require.Equal(expected, entry.ComputeMixin([]entry.Transaction{tx}))
}

func TestNextEntryMalformed(t *testing.T) {
	require := require.New(t)

	_, err := entry.NextEntry(ids.Empty, 0, entrytest.Txs(t, "zero", 1))
	require.ErrorIs(err, entry.ErrMalformedEntry)
	require.ErrorIs(err, hashing.ErrZeroIterationsWithMixin)

	_, err = entry.NextEntry(ids.Empty, 1, []entry.Transaction{nil})
	require.ErrorIs(err, entry.ErrMalformedEntry)
}

func TestValidate(t *testing.T) {
	h0 := ids.GenerateTestID()

	tests := []struct {
		name    string
		prev    ids.ID
		entries func(t *testing.T) []entry.Entry
		err     error
	}{
		{
			name:    "valid batch",
			prev:    h0,
			entries: func(t *testing.T) []entry.Entry { return entrytest.Batch(t, h0, 4, 0, 2, 0) },
		},
		{
			name:    "empty batch with starting hash",
			prev:    h0,
			entries: func(*testing.T) []entry.Entry { return nil },
		},
		{
			name:    "empty batch without starting hash",
			prev:    ids.Empty,
			entries: func(*testing.T) []entry.Entry { return nil },
			err:     entry.ErrMalformedEntry,
		},
		{
			name: "zero iterations with transactions",
			prev: h0,
			entries: func(t *testing.T) []entry.Entry {
				entries := entrytest.Batch(t, h0, 4, 0, 2)
				entries[1].NumHashes = 0
				return entries
			},
			err: entry.ErrMalformedEntry,
		},
		{
			name: "zero iteration tick",
			prev: h0,
			entries: func(*testing.T) []entry.Entry {
				return []entry.Entry{entry.NewTick(h0, 0)}
			},
		},
		{
			name: "iteration count overflow",
			prev: h0,
			entries: func(*testing.T) []entry.Entry {
				return []entry.Entry{
					{NumHashes: math.MaxUint64},
					{NumHashes: 1},
				}
			},
			err: entry.ErrMalformedEntry,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := entry.Validate(test.prev, test.entries(t))
			require.ErrorIs(t, err, test.err)
		})
	}
}

func TestCounts(t *testing.T) {
	require := require.New(t)

	entries := entrytest.Batch(t, ids.GenerateTestID(), 7, 0, 3, 0, 0, 1)
	require.Equal(3, entry.TickCount(entries))
	require.Equal(4, entry.TransactionCount(entries))

	total, err := entry.TotalHashes(entries)
	require.NoError(err)
	require.Equal(uint64(35), total)
}

func TestStartHash(t *testing.T) {
	h0 := ids.GenerateTestID()
	entries := entrytest.Batch(t, h0, 2, 0, 0)

	require.Equal(t, h0, entry.StartHash(h0, entries, 0))
	require.Equal(t, entries[0].Hash, entry.StartHash(h0, entries, 1))
}

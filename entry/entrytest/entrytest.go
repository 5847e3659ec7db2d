// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package entrytest builds signed entry batches for tests.
package entrytest

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/entry/entry"
	"github.com/luxfi/entry/txs"
)

// Key returns a deterministic key derived from i.
func Key(i int) ed25519.PrivateKey {
	seed := make([]byte, ed25519.SeedSize)
	binary.BigEndian.PutUint64(seed, uint64(i)+1)
	return ed25519.NewKeyFromSeed(seed)
}

// Txs returns n distinct signed transactions. Transaction i is signed by
// Key(i) over a message derived from tag and i.
func Txs(tb testing.TB, tag string, n int) []entry.Transaction {
	tb.Helper()

	out := make([]entry.Transaction, n)
	for i := range out {
		tx, err := txs.New([]byte(fmt.Sprintf("%s/%d", tag, i)), Key(i))
		require.NoError(tb, err)
		out[i] = tx
	}
	return out
}

// Batch returns a valid chain of entries starting at prev. Entry i carries
// txCounts[i] transactions, a zero count produces a tick. Every entry uses
// numHashes iterations.
func Batch(tb testing.TB, prev ids.ID, numHashes uint64, txCounts ...int) []entry.Entry {
	tb.Helper()

	entries := make([]entry.Entry, len(txCounts))
	for i, n := range txCounts {
		if n == 0 {
			entries[i] = entry.NewTick(prev, numHashes)
		} else {
			e, err := entry.NextEntry(prev, numHashes, Txs(tb, fmt.Sprintf("entry-%d", i), n))
			require.NoError(tb, err)
			entries[i] = e
		}
		prev = entries[i].Hash
	}
	return entries
}

// CorruptSignature flips a bit in the first signature of the transaction at
// txIndex within entries[entryIndex]. The stored entry hash is left untouched.
func CorruptSignature(tb testing.TB, entries []entry.Entry, entryIndex, txIndex int) {
	tb.Helper()

	tx, ok := entries[entryIndex].Transactions[txIndex].(*txs.Tx)
	require.True(tb, ok)
	tx.Sigs[0][0] ^= 0x01
}

// Rehash recomputes the hash of every entry from prev so that the chain
// commits to whatever the transactions currently hold.
func Rehash(tb testing.TB, prev ids.ID, entries []entry.Entry) {
	tb.Helper()

	for i := range entries {
		hash, err := entries[i].ExpectedHash(prev)
		require.NoError(tb, err)
		entries[i].Hash = hash
		prev = hash
	}
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sigverify

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/entry/entry"
	"github.com/luxfi/entry/entry/entrytest"
	"github.com/luxfi/entry/txs"
)

type countingChecker struct {
	entry.SignatureChecker
	calls atomic.Int64
}

func (c *countingChecker) Check(tx entry.Transaction) bool {
	c.calls.Add(1)
	return c.SignatureChecker.Check(tx)
}

func newTestVerifier(t *testing.T, config Config, checker entry.SignatureChecker) *Verifier {
	v, err := NewVerifier(config, checker, log.NewNoOpLogger())
	require.NoError(t, err)
	return v
}

func TestFlatten(t *testing.T) {
	require := require.New(t)

	entries := entrytest.Batch(t, ids.GenerateTestID(), 2, 2, 0, 1)
	items := Flatten(entries)
	require.Len(items, 3)
	require.Equal(0, items[0].EntryIndex)
	require.Equal(0, items[1].EntryIndex)
	require.Equal(2, items[2].EntryIndex)
	require.Same(entries[2].Transactions[0], items[2].Tx)
}

func TestVerifyValid(t *testing.T) {
	entries := entrytest.Batch(t, ids.GenerateTestID(), 2, 3, 0, 5, 1)
	v := newTestVerifier(t, DefaultConfig(), txs.Checker{})

	result, err := v.Verify(context.Background(), entries)
	require.NoError(t, err)
	require.Equal(t, Valid, result)
}

func TestVerifyNoTransactions(t *testing.T) {
	entries := entrytest.Batch(t, ids.GenerateTestID(), 2, 0, 0)
	v := newTestVerifier(t, DefaultConfig(), txs.Checker{})

	result, err := v.Verify(context.Background(), entries)
	require.NoError(t, err)
	require.Equal(t, Valid, result)
}

// A single corrupted signature must be found at its owning entry no matter
// how the batch is chunked.
func TestVerifyCorruptedSignatureAnyChunking(t *testing.T) {
	configs := []Config{
		{NumWorkers: 1, SmallBatchFactor: 1, ChunksPerWorker: 1, MaxChunkSize: 1000},
		{NumWorkers: 4, SmallBatchFactor: 100, ChunksPerWorker: 1, MaxChunkSize: 1},
		{NumWorkers: 3, SmallBatchFactor: 1, ChunksPerWorker: 2, MaxChunkSize: 7},
		{NumWorkers: 16, SmallBatchFactor: 1, ChunksPerWorker: 4, MaxChunkSize: 128},
	}
	for _, corruptEntry := range []int{0, 3, 9} {
		entries := entrytest.Batch(t, ids.GenerateTestID(), 2, 4, 4, 0, 4, 4, 4, 0, 4, 4, 4)
		entrytest.CorruptSignature(t, entries, corruptEntry, 2)

		for _, config := range configs {
			v := newTestVerifier(t, config, txs.Checker{})
			result, err := v.Verify(context.Background(), entries)
			require.NoError(t, err)
			require.False(t, result.Valid)
			require.Equal(t, corruptEntry, result.FirstInvalidEntry, "config=%+v", config)
		}
	}
}

func TestVerifyReportsEarliest(t *testing.T) {
	require := require.New(t)

	entries := entrytest.Batch(t, ids.GenerateTestID(), 2, 8, 8, 8, 8)
	entrytest.CorruptSignature(t, entries, 3, 7)
	entrytest.CorruptSignature(t, entries, 1, 4)

	config := Config{NumWorkers: 4, SmallBatchFactor: 1, ChunksPerWorker: 2, MaxChunkSize: 3}
	v := newTestVerifier(t, config, txs.Checker{})
	result, err := v.Verify(context.Background(), entries)
	require.NoError(err)
	require.Equal(Result{FirstInvalidEntry: 1, FirstInvalidTx: 12}, result)
}

func TestVerifySkipsChunksAfterFailure(t *testing.T) {
	require := require.New(t)

	entries := entrytest.Batch(t, ids.GenerateTestID(), 2, 64)
	entrytest.CorruptSignature(t, entries, 0, 0)

	checker := &countingChecker{SignatureChecker: txs.Checker{}}
	config := Config{NumWorkers: 1, SmallBatchFactor: 1, ChunksPerWorker: 1, MaxChunkSize: 8}
	v := newTestVerifier(t, config, checker)

	result, err := v.Verify(context.Background(), entries)
	require.NoError(err)
	require.Equal(0, result.FirstInvalidTx)
	require.Equal(int64(1), checker.calls.Load())
}

func TestVerifyCache(t *testing.T) {
	require := require.New(t)

	entries := entrytest.Batch(t, ids.GenerateTestID(), 2, 5)
	checker := &countingChecker{SignatureChecker: txs.Checker{}}
	config := DefaultConfig()
	config.CacheSize = 16
	v := newTestVerifier(t, config, checker)

	for i := 0; i < 3; i++ {
		result, err := v.Verify(context.Background(), entries)
		require.NoError(err)
		require.Equal(Valid, result)
	}
	require.Equal(int64(5), checker.calls.Load())

	// A corrupted copy has a different ID and must be checked again.
	entrytest.CorruptSignature(t, entries, 0, 1)
	result, err := v.Verify(context.Background(), entries)
	require.NoError(err)
	require.Equal(1, result.FirstInvalidTx)
}

func TestVerifyCanceled(t *testing.T) {
	entries := entrytest.Batch(t, ids.GenerateTestID(), 2, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := newTestVerifier(t, DefaultConfig(), txs.Checker{})
	_, err := v.Verify(ctx, entries)
	require.ErrorIs(t, err, context.Canceled)
}

func TestChunkSize(t *testing.T) {
	config := Config{NumWorkers: 4, SmallBatchFactor: 2, ChunksPerWorker: 4, MaxChunkSize: 10}

	tests := []struct {
		numTxs   int
		expected int
	}{
		{numTxs: 1, expected: 1},
		{numTxs: 8, expected: 1},
		{numTxs: 9, expected: 1},
		{numTxs: 64, expected: 4},
		{numTxs: 100, expected: 7},
		{numTxs: 10_000, expected: 10},
	}
	for _, test := range tests {
		require.Equal(t, test.expected, config.chunkSize(test.numTxs), "numTxs=%d", test.numTxs)
	}
}

func TestConfigVerify(t *testing.T) {
	require.NoError(t, DefaultConfig().Verify())

	config := DefaultConfig()
	config.ChunksPerWorker = 0
	config.CacheSize = -1
	require.ErrorIs(t, config.Verify(), errInvalidChunksPerWorker)
}

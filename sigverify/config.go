// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sigverify

import (
	"errors"
	"runtime"

	"github.com/luxfi/entry/utils/wrappers"
)

var (
	errInvalidSmallBatchFactor = errors.New("small batch factor must be positive")
	errInvalidChunksPerWorker  = errors.New("chunks per worker must be positive")
	errInvalidMaxChunkSize     = errors.New("max chunk size must be positive")
	errInvalidCacheSize        = errors.New("cache size must not be negative")
)

// Config for the signature verifier
type Config struct {
	// NumWorkers is the number of chunks verified concurrently. Zero selects
	// runtime.NumCPU.
	NumWorkers int `json:"numWorkers"`
	// Batches of at most NumWorkers*SmallBatchFactor transactions are
	// dispatched one transaction per chunk.
	SmallBatchFactor int `json:"smallBatchFactor"`
	// ChunksPerWorker is the target number of chunks per worker for large
	// batches.
	ChunksPerWorker int `json:"chunksPerWorker"`
	// MaxChunkSize caps the number of transactions in one chunk.
	MaxChunkSize int `json:"maxChunkSize"`
	// CacheSize is the number of verified transactions remembered across
	// calls. Zero disables the cache.
	CacheSize int `json:"cacheSize"`
}

// DefaultConfig returns the default signature verifier configuration
func DefaultConfig() Config {
	return Config{
		NumWorkers:       0, // 0 = auto-detect
		SmallBatchFactor: 2,
		ChunksPerWorker:  4,
		MaxChunkSize:     128,
		CacheSize:        0,
	}
}

// Verify checks the configuration
func (c Config) Verify() error {
	errs := wrappers.Errs{}
	if c.SmallBatchFactor <= 0 {
		errs.Add(errInvalidSmallBatchFactor)
	}
	if c.ChunksPerWorker <= 0 {
		errs.Add(errInvalidChunksPerWorker)
	}
	if c.MaxChunkSize <= 0 {
		errs.Add(errInvalidMaxChunkSize)
	}
	if c.CacheSize < 0 {
		errs.Add(errInvalidCacheSize)
	}
	return errs.Err
}

func (c Config) workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}

// chunkSize picks how many transactions one task verifies. Small batches get
// one transaction per task, large batches get coarser tasks so per-task
// overhead stays small relative to the signature checks.
func (c Config) chunkSize(numTxs int) int {
	workers := c.workers()
	if numTxs <= workers*c.SmallBatchFactor {
		return 1
	}
	target := workers * c.ChunksPerWorker
	size := (numTxs + target - 1) / target
	return max(1, min(size, c.MaxChunkSize))
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"runtime"
)

var errInvalidChunkSize = errors.New("minimum chunk size must be positive")

// Config for the chain verifier
type Config struct {
	// NumWorkers is the number of chunks hashed concurrently. Zero selects
	// runtime.NumCPU.
	NumWorkers int `json:"numWorkers"`
	// MinChunkSize is the smallest number of entries handed to one worker.
	// Batches no larger than this are verified on the calling goroutine.
	MinChunkSize int `json:"minChunkSize"`
}

// DefaultConfig returns the default chain verifier configuration
func DefaultConfig() Config {
	return Config{
		NumWorkers:   0, // 0 = auto-detect
		MinChunkSize: 4,
	}
}

// Verify checks the configuration
func (c Config) Verify() error {
	if c.MinChunkSize <= 0 {
		return errInvalidChunkSize
	}
	return nil
}

func (c Config) workers() int {
	if c.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return c.NumWorkers
}

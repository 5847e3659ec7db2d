// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accel

import (
	"context"
	"errors"
	"runtime"

	"github.com/luxfi/entry/entry"
)

// Backend names an accelerator implementation
type Backend string

const (
	BackendSoftware Backend = "software" // In-process, asynchronous, always available
	BackendPlugin   Backend = "plugin"   // Native library loaded at runtime
)

var (
	// ErrUnavailable is returned by an absent capability. Callers verify on
	// the CPU instead.
	ErrUnavailable   = errors.New("accelerator unavailable")
	ErrUnknownHandle = errors.New("unknown or already consumed handle")
	ErrJobTooLarge   = errors.New("job exceeds accelerator batch size")
	ErrClosed        = errors.New("accelerator closed")
)

// Config for accelerator discovery
type Config struct {
	// Backend forces a specific backend. Empty selects the highest priority
	// backend that initializes.
	Backend Backend `json:"backend"`
	// LibraryPath is the native library loaded by the plugin backend.
	LibraryPath string `json:"libraryPath"`
	// MaxBatchSize bounds the number of entries or transactions in one job.
	MaxBatchSize int `json:"maxBatchSize"`
	// NumThreads used by backends that run on the host. 0 = auto-detect.
	NumThreads int `json:"numThreads"`
	// MaxPooledPerClass bounds how many idle buffers of one size class are
	// kept for reuse.
	MaxPooledPerClass int `json:"maxPooledPerClass"`
}

// DefaultConfig returns default accelerator configuration
func DefaultConfig() Config {
	return Config{
		MaxBatchSize:      1 << 16,
		NumThreads:        0, // 0 = auto-detect
		MaxPooledPerClass: 4,
	}
}

func (c Config) threads() int {
	if c.NumThreads <= 0 {
		return runtime.NumCPU()
	}
	return c.NumThreads
}

// Handle identifies a submitted job until its result is consumed.
type Handle uint64

// Status of a submitted job
type Status int

const (
	StatusPending Status = iota
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}

// Result of a finished job. For chain jobs FirstInvalid is an entry index,
// for signature jobs it is an index into SignatureJob.Transactions. It is -1
// when the job found nothing invalid.
type Result struct {
	Valid        bool
	FirstInvalid int
}

// ValidResult is the result of a job that found nothing invalid.
var ValidResult = Result{Valid: true, FirstInvalid: -1}

// ChainJob asks the accelerator to recompute the hash of every entry from its
// starting hash and compare it with the stored one. The job owns Buffers
// until it is recycled.
type ChainJob struct {
	Buffers *Buffers

	// inFlight is set between a successful submit and the result being
	// collected. Buffers of a job still in flight are never pooled again.
	inFlight bool
	handle   Handle
}

// Len returns the number of entries in the job.
func (j *ChainJob) Len() int {
	return len(j.Buffers.NumHashes)
}

// SignatureJob asks the accelerator to check every transaction with Checker.
type SignatureJob struct {
	Transactions []entry.Transaction
	Checker      entry.SignatureChecker
}

// Accelerator is a capability that verifies chain segments and signatures
// asynchronously. Submitting never blocks on the work itself; a job's result
// is consumed exactly once by the Poll that reports StatusDone.
type Accelerator interface {
	// Info
	Backend() Backend
	Device() string
	Close() error

	SubmitChainCheck(job *ChainJob) (Handle, error)
	SubmitSignatureCheck(job *SignatureJob) (Handle, error)
	Poll(h Handle) (Status, Result, error)
	// Abandon gives up on h without collecting its result. The accelerator
	// drops the job once it finishes. Abandoning a consumed or unknown handle
	// does nothing.
	Abandon(h Handle)
	// Recycle releases any accelerator-side state tied to b. The caller
	// returns b to its pool afterwards.
	Recycle(b *Buffers)
}

// Waiter is implemented by accelerators that can block until a job is done.
// Like a terminal Poll, Wait consumes the handle.
type Waiter interface {
	Wait(ctx context.Context, h Handle) (Result, error)
}

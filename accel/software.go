// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accel

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/ids"

	"github.com/luxfi/entry/hashing"
	"github.com/luxfi/entry/utils"
)

var (
	_ Accelerator = (*SoftwareAccelerator)(nil)
	_ Waiter      = (*SoftwareAccelerator)(nil)
)

type softwareJob struct {
	done      chan struct{}
	result    Result
	abandoned bool
}

// SoftwareAccelerator runs jobs on its own goroutines, independent of the
// caller's workers. It has the same contract as a native accelerator and is
// used where one is not installed but the asynchronous path is wanted.
type SoftwareAccelerator struct {
	config     Config
	numWorkers int

	mu     sync.Mutex
	next   Handle
	jobs   map[Handle]*softwareJob
	closed bool

	// running tracks job goroutines so Close can wait for them.
	running sync.WaitGroup
}

// NewSoftwareAccelerator creates a software accelerator
func NewSoftwareAccelerator(config Config) (*SoftwareAccelerator, error) {
	return &SoftwareAccelerator{
		config:     config,
		numWorkers: config.threads(),
		jobs:       make(map[Handle]*softwareJob),
	}, nil
}

func (a *SoftwareAccelerator) Backend() Backend {
	return BackendSoftware
}

func (a *SoftwareAccelerator) Device() string {
	return "CPU (" + runtime.GOARCH + ", " + runtime.GOOS + ")"
}

// Close stops accepting jobs and waits for running ones to finish.
func (a *SoftwareAccelerator) Close() error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	a.running.Wait()
	return nil
}

func (a *SoftwareAccelerator) SubmitChainCheck(job *ChainJob) (Handle, error) {
	if err := a.checkSize(job.Len()); err != nil {
		return 0, err
	}
	b := job.Buffers
	return a.submit(func() Result {
		return a.checkChain(b)
	})
}

func (a *SoftwareAccelerator) SubmitSignatureCheck(job *SignatureJob) (Handle, error) {
	if err := a.checkSize(len(job.Transactions)); err != nil {
		return 0, err
	}
	return a.submit(func() Result {
		return a.checkSignatures(job)
	})
}

func (a *SoftwareAccelerator) checkSize(n int) error {
	if a.config.MaxBatchSize > 0 && n > a.config.MaxBatchSize {
		return fmt.Errorf("%w: %d > %d", ErrJobTooLarge, n, a.config.MaxBatchSize)
	}
	return nil
}

func (a *SoftwareAccelerator) submit(run func() Result) (Handle, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return 0, ErrClosed
	}
	a.next++
	h := a.next
	job := &softwareJob{done: make(chan struct{})}
	a.jobs[h] = job

	a.running.Add(1)
	go func() {
		defer a.running.Done()
		result := run()

		a.mu.Lock()
		defer a.mu.Unlock()
		job.result = result
		if job.abandoned {
			delete(a.jobs, h)
		}
		close(job.done)
	}()
	return h, nil
}

func (a *SoftwareAccelerator) Abandon(h Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()

	job, ok := a.jobs[h]
	if !ok {
		return
	}
	select {
	case <-job.done:
		delete(a.jobs, h)
	default:
		job.abandoned = true
	}
}

// Pending returns the number of jobs still tracked: running, or finished
// with a result nobody has collected or abandoned yet.
func (a *SoftwareAccelerator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.jobs)
}

func (a *SoftwareAccelerator) Poll(h Handle) (Status, Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	job, ok := a.jobs[h]
	if !ok {
		return StatusPending, Result{}, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	select {
	case <-job.done:
		delete(a.jobs, h)
		return StatusDone, job.result, nil
	default:
		return StatusPending, Result{}, nil
	}
}

func (a *SoftwareAccelerator) Wait(ctx context.Context, h Handle) (Result, error) {
	a.mu.Lock()
	job, ok := a.jobs[h]
	a.mu.Unlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}

	select {
	case <-job.done:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.jobs[h]; !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	delete(a.jobs, h)
	return job.result, nil
}

// Recycle is a no-op: the software backend holds no state per buffer.
func (*SoftwareAccelerator) Recycle(*Buffers) {}

// checkChain verifies every entry of the job independently; each has its
// starting hash in the buffers.
func (a *SoftwareAccelerator) checkChain(b *Buffers) Result {
	n := len(b.NumHashes)
	lowest := utils.NewLowest(n)

	var g errgroup.Group
	g.SetLimit(a.numWorkers)
	for i := 0; i < n; i++ {
		if lowest.Covers(i) {
			break
		}
		g.Go(func() error {
			if lowest.Covers(i) {
				return nil
			}
			var mixin *ids.ID
			if b.HasMixin[i] {
				mixin = &b.Mixins[i]
			}
			hash, err := hashing.Chain(b.StartHashes[i], b.NumHashes[i], mixin)
			if err != nil || hash != b.Expected[i] {
				lowest.Report(i)
			}
			return nil
		})
	}
	_ = g.Wait()

	if index, ok := lowest.Get(); ok {
		return Result{FirstInvalid: index}
	}
	return ValidResult
}

func (a *SoftwareAccelerator) checkSignatures(job *SignatureJob) Result {
	lowest := utils.NewLowest(len(job.Transactions))

	var g errgroup.Group
	g.SetLimit(a.numWorkers)
	for i, tx := range job.Transactions {
		if lowest.Covers(i) {
			break
		}
		g.Go(func() error {
			if !lowest.Covers(i) && !job.Checker.Check(tx) {
				lowest.Report(i)
			}
			return nil
		})
	}
	_ = g.Wait()

	if index, ok := lowest.Get(); ok {
		return Result{FirstInvalid: index}
	}
	return ValidResult
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/entry/entry"
)

var errPollsExhausted = errors.New("accelerator job still pending after max polls")

var (
	discoverOnce sync.Once
	discovered   *Capability
)

// Capability is the process-wide view of the accelerator: either present,
// wrapping an Accelerator and the buffer pool its jobs draw from, or absent.
// It never changes after construction.
type Capability struct {
	acc  Accelerator
	pool *BufferPool
}

// Absent returns a capability without an accelerator.
func Absent() *Capability {
	return &Capability{}
}

// NewCapability wraps acc. A nil acc yields an absent capability.
func NewCapability(acc Accelerator, config Config) *Capability {
	if acc == nil {
		return Absent()
	}
	return &Capability{
		acc:  acc,
		pool: NewBufferPool(config.MaxPooledPerClass),
	}
}

// Discover probes for an accelerator the first time it is called and returns
// the same capability on every later call, whatever config is passed. A
// failed probe is never retried.
func Discover(config Config, logger log.Logger) *Capability {
	discoverOnce.Do(func() {
		discovered = discover(config, logger)
	})
	return discovered
}

func discover(config Config, logger log.Logger) *Capability {
	acc, err := NewAccelerator(config)
	if err != nil {
		logger.Debug("accelerator unavailable, verifying on the CPU",
			log.Err(err),
		)
		return Absent()
	}
	logger.Info("accelerator discovered",
		log.String("backend", string(acc.Backend())),
		log.String("device", acc.Device()),
	)
	return NewCapability(acc, config)
}

// Present returns true if an accelerator is available.
func (c *Capability) Present() bool {
	return c.acc != nil
}

// Accelerator returns the wrapped accelerator, or nil when absent.
func (c *Capability) Accelerator() Accelerator {
	return c.acc
}

// PoolStats reports reuse of job buffers. It is zero when absent.
func (c *Capability) PoolStats() PoolStats {
	if c.pool == nil {
		return PoolStats{}
	}
	return c.pool.Stats()
}

// NewChainJob fills pooled buffers with the chain check of entries starting
// at prev. Mixins are computed here, on the caller's goroutine.
func (c *Capability) NewChainJob(prev ids.ID, entries []entry.Entry) (*ChainJob, error) {
	if !c.Present() {
		return nil, ErrUnavailable
	}
	b := c.pool.Acquire(len(entries))
	for i := range entries {
		e := &entries[i]
		b.StartHashes[i] = entry.StartHash(prev, entries, i)
		b.NumHashes[i] = e.NumHashes
		b.Expected[i] = e.Hash
		b.HasMixin[i] = !e.IsTick()
		if b.HasMixin[i] {
			b.Mixins[i] = entry.ComputeMixin(e.Transactions)
		} else {
			b.Mixins[i] = ids.Empty
		}
	}
	return &ChainJob{Buffers: b}, nil
}

// SubmitChainCheck enqueues job without waiting for it.
func (c *Capability) SubmitChainCheck(job *ChainJob) (Handle, error) {
	if !c.Present() {
		return 0, ErrUnavailable
	}
	h, err := c.acc.SubmitChainCheck(job)
	if err != nil {
		return 0, err
	}
	job.inFlight = true
	job.handle = h
	return h, nil
}

// WaitChain is Wait for the chain job submitted as h. Once it returns a
// result the accelerator is done with the job's buffers.
func (c *Capability) WaitChain(ctx context.Context, job *ChainJob, h Handle, policy PollPolicy) (Result, error) {
	result, err := c.Wait(ctx, h, policy)
	if err != nil {
		return Result{}, err
	}
	job.inFlight = false
	return result, nil
}

// SubmitSignatureCheck enqueues job without waiting for it.
func (c *Capability) SubmitSignatureCheck(job *SignatureJob) (Handle, error) {
	if !c.Present() {
		return 0, ErrUnavailable
	}
	return c.acc.SubmitSignatureCheck(job)
}

// Abandon gives up on a handle whose result will not be collected.
func (c *Capability) Abandon(h Handle) {
	if c.Present() {
		c.acc.Abandon(h)
	}
}

// Poll reports the status of h without blocking.
func (c *Capability) Poll(h Handle) (Status, Result, error) {
	if !c.Present() {
		return StatusPending, Result{}, ErrUnavailable
	}
	return c.acc.Poll(h)
}

// Recycle hands the buffers of job back to the accelerator and then to the
// pool. A job whose result was never collected is abandoned and its buffers
// are left to the garbage collector instead of the pool. It is safe to call
// with a nil job.
func (c *Capability) Recycle(job *ChainJob) {
	if job == nil || job.Buffers == nil || !c.Present() {
		return
	}
	if job.inFlight {
		c.acc.Abandon(job.handle)
	}
	c.acc.Recycle(job.Buffers)
	if !job.inFlight {
		c.pool.Release(job.Buffers)
	}
	job.Buffers = nil
}

// Close releases the accelerator.
func (c *Capability) Close() error {
	if !c.Present() {
		return nil
	}
	return c.acc.Close()
}

// PollPolicy bounds how long Wait polls an accelerator that cannot block.
type PollPolicy struct {
	Interval    time.Duration `json:"interval"`
	MaxInterval time.Duration `json:"maxInterval"`
	MaxPolls    int           `json:"maxPolls"`
}

// DefaultPollPolicy returns the default polling bounds
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		Interval:    50 * time.Microsecond,
		MaxInterval: 10 * time.Millisecond,
		MaxPolls:    10_000,
	}
}

// Wait returns the result of h. It blocks on the accelerator when it
// implements Waiter, otherwise polls with exponential backoff up to
// policy.MaxPolls times.
func (c *Capability) Wait(ctx context.Context, h Handle, policy PollPolicy) (Result, error) {
	if !c.Present() {
		return Result{}, ErrUnavailable
	}
	if w, ok := c.acc.(Waiter); ok {
		return w.Wait(ctx, h)
	}

	interval := policy.Interval
	for polls := 0; polls < policy.MaxPolls; polls++ {
		status, result, err := c.acc.Poll(h)
		if err != nil {
			return Result{}, err
		}
		if status == StatusDone {
			return result, nil
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{}, ctx.Err()
		case <-timer.C:
		}
		interval = min(2*interval, policy.MaxInterval)
	}
	return Result{}, fmt.Errorf("%w: handle %d", errPollsExhausted, h)
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	"github.com/luxfi/entry/accel"
	"github.com/luxfi/entry/chain"
	"github.com/luxfi/entry/entry"
	"github.com/luxfi/entry/sigverify"
	"github.com/luxfi/entry/txs"
	"github.com/luxfi/entry/utils/timer/mockable"
	"github.com/luxfi/entry/utils/wrappers"
)

var (
	_ Verifier = (*Pipeline)(nil)

	errResultOutOfRange = errors.New("accelerator reported an index outside the job")

	defaultOnce     sync.Once
	defaultPipeline *Pipeline
	defaultErr      error
)

// Verifier decides whether a batch of entries correctly extends prev.
//
// Malformed batches are reported as errors wrapping entry.ErrMalformedEntry.
// A well formed batch that fails verification is not an error: it yields an
// Invalid outcome naming the earliest failing entry.
type Verifier interface {
	Verify(ctx context.Context, prev ids.ID, entries []entry.Entry) (Outcome, error)
}

// Pipeline checks the hash chain and the transaction signatures of a batch
// at the same time, using the accelerator for the chain when one is present
// and the CPU worker pools otherwise. Both paths produce the same outcome.
type Pipeline struct {
	config     Config
	capability *accel.Capability
	checker    entry.SignatureChecker
	chain      *chain.Verifier
	signatures *sigverify.Verifier
	log        log.Logger
	metrics    *pipelineMetrics
	clock      mockable.Clock
}

// New returns a pipeline. A nil capability is treated as absent.
func New(
	config Config,
	capability *accel.Capability,
	checker entry.SignatureChecker,
	logger log.Logger,
	registerer metric.Registerer,
) (*Pipeline, error) {
	if err := config.Verify(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	if capability == nil {
		capability = accel.Absent()
	}

	chainVerifier, err := chain.NewVerifier(config.Chain, logger)
	if err != nil {
		return nil, err
	}
	sigVerifier, err := sigverify.NewVerifier(config.Signatures, checker, logger)
	if err != nil {
		return nil, err
	}
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register pipeline metrics: %w", err)
	}

	return &Pipeline{
		config:     config,
		capability: capability,
		checker:    checker,
		chain:      chainVerifier,
		signatures: sigVerifier,
		log:        logger,
		metrics:    m,
	}, nil
}

// Default returns the process-wide pipeline. It is built on first use with
// the default config, the discovered accelerator and the ed25519 checker of
// package txs.
func Default() (*Pipeline, error) {
	defaultOnce.Do(func() {
		config := DefaultConfig()
		logger := log.NewNoOpLogger()
		defaultPipeline, defaultErr = New(
			config,
			accel.Discover(config.Accel, logger),
			txs.Checker{},
			logger,
			metric.NewRegistry(),
		)
	})
	return defaultPipeline, defaultErr
}

// VerifyEntryBatch verifies entries with the process-wide pipeline.
func VerifyEntryBatch(ctx context.Context, prev ids.ID, entries []entry.Entry) (Outcome, error) {
	p, err := Default()
	if err != nil {
		return Outcome{}, err
	}
	return p.Verify(ctx, prev, entries)
}

// Accelerated returns true if chain checks are offered to an accelerator.
func (p *Pipeline) Accelerated() bool {
	return p.capability.Present()
}

// Verify checks that entries extend prev and that every transaction carries
// valid signatures.
//
// The structure of the batch is validated before any work starts. The chain
// check then runs on its own goroutine, on the accelerator or the CPU, while
// signatures are checked on the calling goroutine. Verify returns only after
// both sides finished and any accelerator buffers were recycled.
func (p *Pipeline) Verify(ctx context.Context, prev ids.ID, entries []entry.Entry) (Outcome, error) {
	if err := entry.Validate(prev, entries); err != nil {
		p.metrics.numMalformed.Inc()
		return Outcome{}, err
	}

	p.metrics.start()
	defer p.metrics.done()
	startTime := p.clock.Time()

	job, handle, submitted := p.submitChain(prev, entries)
	defer p.capability.Recycle(job)

	chainDone := make(chan chainVerdict, 1)
	go func() {
		index, err := p.finishChain(ctx, prev, entries, job, handle, submitted)
		chainDone <- chainVerdict{index: index, err: err}
	}()

	sigIndex, sigErr := p.verifySignatures(ctx, entries)
	chainResult := <-chainDone

	var errs wrappers.Errs
	errs.Add(chainResult.err, sigErr, ctx.Err())
	if errs.Errored() {
		p.log.Debug("entry batch verification aborted",
			log.Stringer("stage", abortedAt(sigErr)),
			log.Err(errs.Err),
		)
		return Outcome{}, errs.Err
	}

	outcome := combine(chainResult.index, sigIndex)
	stage := Accepted
	if !outcome.IsValid() {
		stage = Rejected
	}

	numTxs := entry.TransactionCount(entries)
	p.metrics.observe(outcome, len(entries), numTxs)
	p.log.Debug("verified entry batch",
		log.Int("numEntries", len(entries)),
		log.Int("numTxs", numTxs),
		log.Bool("accelerated", submitted),
		log.Stringer("stage", stage),
		log.Stringer("outcome", outcome),
		log.Duration("duration", p.clock.Since(startTime)),
	)
	return outcome, nil
}

type chainVerdict struct {
	index int
	err   error
}

// submitChain offers the chain check to the accelerator. The returned job,
// if any, must be recycled by the caller even when submitting failed.
func (p *Pipeline) submitChain(prev ids.ID, entries []entry.Entry) (*accel.ChainJob, accel.Handle, bool) {
	if !p.capability.Present() || len(entries) == 0 {
		return nil, 0, false
	}
	job, err := p.capability.NewChainJob(prev, entries)
	if err != nil {
		p.fallback("chain", err)
		return nil, 0, false
	}
	h, err := p.capability.SubmitChainCheck(job)
	if err != nil {
		p.fallback("chain", err)
		return job, 0, false
	}
	return job, h, true
}

// finishChain returns the earliest entry whose hash does not match, or -1.
func (p *Pipeline) finishChain(
	ctx context.Context,
	prev ids.ID,
	entries []entry.Entry,
	job *accel.ChainJob,
	h accel.Handle,
	submitted bool,
) (int, error) {
	if submitted {
		result, err := p.capability.WaitChain(ctx, job, h, p.config.Poll)
		if err == nil {
			err = checkRange(result, len(entries))
		}
		if err == nil {
			return firstInvalid(result), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return -1, ctxErr
		}
		p.fallback("chain", err)
	}

	result, err := p.chain.Verify(ctx, prev, entries)
	if err != nil {
		return -1, err
	}
	return result.FirstInvalid, nil
}

// verifySignatures returns the entry owning the earliest transaction with a
// bad signature, or -1.
func (p *Pipeline) verifySignatures(ctx context.Context, entries []entry.Entry) (int, error) {
	items := sigverify.Flatten(entries)
	if p.config.OffloadSignatures && p.capability.Present() && len(items) > 0 {
		index, err := p.offloadSignatures(ctx, items)
		if err == nil {
			return index, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return -1, ctxErr
		}
		p.fallback("signatures", err)
	}

	result, err := p.signatures.VerifyItems(ctx, items)
	if err != nil {
		return -1, err
	}
	return result.FirstInvalidEntry, nil
}

func (p *Pipeline) offloadSignatures(ctx context.Context, items []sigverify.Item) (int, error) {
	transactions := make([]entry.Transaction, len(items))
	for i, item := range items {
		transactions[i] = item.Tx
	}
	h, err := p.capability.SubmitSignatureCheck(&accel.SignatureJob{
		Transactions: transactions,
		Checker:      p.checker,
	})
	if err != nil {
		return -1, err
	}
	result, err := p.capability.Wait(ctx, h, p.config.Poll)
	if err != nil {
		p.capability.Abandon(h)
		return -1, err
	}
	if err := checkRange(result, len(items)); err != nil {
		return -1, err
	}
	if result.Valid {
		return -1, nil
	}
	return items[result.FirstInvalid].EntryIndex, nil
}

func (p *Pipeline) fallback(check string, err error) {
	p.metrics.numFallbacks.Inc()
	p.log.Warn("accelerator failed, verifying on the CPU",
		log.String("check", check),
		log.Err(err),
	)
}

func checkRange(result accel.Result, n int) error {
	if result.Valid {
		return nil
	}
	if result.FirstInvalid < 0 || result.FirstInvalid >= n {
		return fmt.Errorf("%w: %d not in [0, %d)", errResultOutOfRange, result.FirstInvalid, n)
	}
	return nil
}

func firstInvalid(result accel.Result) int {
	if result.Valid {
		return -1
	}
	return result.FirstInvalid
}

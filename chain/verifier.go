// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chain verifies hash chain continuity across a batch of entries.
//
// The chain is sequential, but every entry records the hash it ends at, so
// the hash an entry continues from is known without recomputing its
// predecessors. The batch is split into contiguous spans whose starting hash
// is read off the previous span's last entry, and the spans are hashed in
// parallel.
package chain

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/entry/entry"
	"github.com/luxfi/entry/utils"
)

// Result of a chain verification. FirstInvalid is the index of the earliest
// entry whose hash does not follow from its predecessor, or -1.
type Result struct {
	Valid        bool
	FirstInvalid int
}

// Valid is the result of a batch with an unbroken chain.
var Valid = Result{Valid: true, FirstInvalid: -1}

// Invalid returns the result for a chain broken at index.
func Invalid(index int) Result {
	return Result{FirstInvalid: index}
}

// span is a contiguous range of entries [start, end) together with the hash
// the first entry continues from.
type span struct {
	start, end int
	startHash  ids.ID
}

// partition sweeps the batch once and cuts it into spans of at most size
// entries.
func partition(prev ids.ID, entries []entry.Entry, size int) []span {
	spans := make([]span, 0, (len(entries)+size-1)/size)
	for start := 0; start < len(entries); start += size {
		spans = append(spans, span{
			start:     start,
			end:       min(start+size, len(entries)),
			startHash: entry.StartHash(prev, entries, start),
		})
	}
	return spans
}

type Verifier struct {
	config Config
	log    log.Logger
}

func NewVerifier(config Config, logger log.Logger) (*Verifier, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	return &Verifier{
		config: config,
		log:    logger,
	}, nil
}

// Verify checks that every entry's hash follows from the one before it,
// starting at prev. Structural problems are returned as errors wrapping
// entry.ErrMalformedEntry before any hashing starts.
//
// The first failing span stops every other span at the failing index:
// in-flight spans return once they reach it and spans that start beyond it
// are never dispatched. The reported index is always the earliest failure.
func (v *Verifier) Verify(ctx context.Context, prev ids.ID, entries []entry.Entry) (Result, error) {
	if err := entry.Validate(prev, entries); err != nil {
		return Result{}, err
	}

	workers := v.config.workers()
	if workers == 1 || len(entries) <= v.config.MinChunkSize {
		return v.verifySpan(ctx, entries, span{end: len(entries), startHash: prev}, utils.NewLowest(len(entries)))
	}

	size := max(v.config.MinChunkSize, (len(entries)+workers-1)/workers)
	spans := partition(prev, entries, size)
	lowest := utils.NewLowest(len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, s := range spans {
		if lowest.Covers(s.start) || gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			_, err := v.verifySpan(gctx, entries, s, lowest)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if index, ok := lowest.Get(); ok {
		return Invalid(index), nil
	}
	return Valid, nil
}

func (v *Verifier) verifySpan(ctx context.Context, entries []entry.Entry, s span, lowest *utils.Lowest) (Result, error) {
	hash := s.startHash
	for i := s.start; i < s.end; i++ {
		if lowest.Covers(i) {
			break
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		e := &entries[i]
		expected, err := e.ExpectedHash(hash)
		if err != nil {
			return Result{}, err
		}
		if expected != e.Hash {
			v.log.Debug("entry hash mismatch",
				log.Int("index", i),
				log.Uint64("numHashes", e.NumHashes),
				log.Stringer("expected", expected),
				log.Stringer("stored", e.Hash),
			)
			lowest.Report(i)
			return Invalid(i), nil
		}
		hash = e.Hash
	}
	if index, ok := lowest.Get(); ok {
		return Invalid(index), nil
	}
	return Valid, nil
}

// VerifySequential checks the batch on the calling goroutine. It does not
// validate structure; a malformed entry is reported as invalid.
func VerifySequential(prev ids.ID, entries []entry.Entry) Result {
	for i := range entries {
		if !entries[i].Verify(prev) {
			return Invalid(i)
		}
		prev = entries[i].Hash
	}
	return Valid
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sigverify checks every transaction signature of an entry batch on a
// bounded pool of workers.
package sigverify

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/entry/entry"
	"github.com/luxfi/entry/utils"
)

// Identifiable transactions commit to their full contents with ID and can be
// remembered by the verified-transaction cache.
type Identifiable interface {
	ID() ids.ID
}

// Item is one transaction of the flattened batch.
type Item struct {
	EntryIndex int
	Tx         entry.Transaction
}

// Flatten lists every transaction of entries in order.
func Flatten(entries []entry.Entry) []Item {
	items := make([]Item, 0, entry.TransactionCount(entries))
	for i := range entries {
		for _, tx := range entries[i].Transactions {
			items = append(items, Item{EntryIndex: i, Tx: tx})
		}
	}
	return items
}

// Result of a signature verification. FirstInvalidEntry is the index of the
// entry owning the earliest transaction with a bad signature, FirstInvalidTx
// is that transaction's position in the flattened batch. Both are -1 when
// every signature is valid.
type Result struct {
	Valid             bool
	FirstInvalidEntry int
	FirstInvalidTx    int
}

// Valid is the result of a batch whose signatures all verify.
var Valid = Result{Valid: true, FirstInvalidEntry: -1, FirstInvalidTx: -1}

type Verifier struct {
	config  Config
	checker entry.SignatureChecker
	log     log.Logger

	// cache holds IDs of transactions that verified; nil when disabled.
	cache *lru.Cache
}

func NewVerifier(config Config, checker entry.SignatureChecker, logger log.Logger) (*Verifier, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	v := &Verifier{
		config:  config,
		checker: checker,
		log:     logger,
	}
	if config.CacheSize > 0 {
		cache, err := lru.New(config.CacheSize)
		if err != nil {
			return nil, err
		}
		v.cache = cache
	}
	return v, nil
}

// Verify checks the signatures of every transaction in entries.
func (v *Verifier) Verify(ctx context.Context, entries []entry.Entry) (Result, error) {
	return v.VerifyItems(ctx, Flatten(entries))
}

// VerifyItems checks the signatures of items. A bad signature stops further
// dispatch: chunks already running finish, chunks starting after the failing
// transaction are skipped. Chunks before it still run so the earliest bad
// transaction is always the one reported.
func (v *Verifier) VerifyItems(ctx context.Context, items []Item) (Result, error) {
	if len(items) == 0 {
		return Valid, ctx.Err()
	}

	size := v.config.chunkSize(len(items))
	lowest := utils.NewLowest(len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.config.workers())
	for start := 0; start < len(items); start += size {
		if lowest.Covers(start) || gctx.Err() != nil {
			break
		}
		end := min(start+size, len(items))
		g.Go(func() error {
			return v.verifyChunk(gctx, items, start, end, lowest)
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	index, ok := lowest.Get()
	if !ok {
		return Valid, nil
	}
	return Result{
		FirstInvalidEntry: items[index].EntryIndex,
		FirstInvalidTx:    index,
	}, nil
}

func (v *Verifier) verifyChunk(ctx context.Context, items []Item, start, end int, lowest *utils.Lowest) error {
	for i := start; i < end; i++ {
		if lowest.Covers(i) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !v.check(items[i].Tx) {
			v.log.Debug("invalid transaction signature",
				log.Int("entryIndex", items[i].EntryIndex),
				log.Int("txIndex", i),
			)
			lowest.Report(i)
			return nil
		}
	}
	return nil
}

func (v *Verifier) check(tx entry.Transaction) bool {
	if v.cache == nil {
		return v.checker.Check(tx)
	}
	identifiable, ok := tx.(Identifiable)
	if !ok {
		return v.checker.Check(tx)
	}
	txID := identifiable.ID()
	if v.cache.Contains(txID) {
		return true
	}
	if !v.checker.Check(tx) {
		return false
	}
	v.cache.Add(txID, struct{}{})
	return true
}

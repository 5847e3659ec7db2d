// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package generate

import (
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/minio/sha256-simd"

	"github.com/luxfi/ids"

	"github.com/luxfi/entry/batchfile"
	"github.com/luxfi/entry/entry"
	"github.com/luxfi/entry/txs"
)

var errNoSignatureToCorrupt = errors.New("entry has no transaction to corrupt")

// Batch builds the batch described by config. Everything is derived from
// config.Seed, so equal configs give equal batches.
func Batch(config *Config) (*batchfile.Batch, error) {
	prev := ids.ID(sha256.Sum256([]byte(config.Seed)))
	b := &batchfile.Batch{
		Prev:    prev,
		Entries: make([]entry.Entry, config.NumEntries),
	}

	for i := range b.Entries {
		numTxs := i % (config.MaxTxs + 1)
		if numTxs == 0 {
			b.Entries[i] = entry.NewTick(prev, config.NumHashes)
		} else {
			transactions, err := newTxs(config.Seed, i, numTxs)
			if err != nil {
				return nil, err
			}
			e, err := entry.NextEntry(prev, config.NumHashes, transactions)
			if err != nil {
				return nil, err
			}
			b.Entries[i] = e
		}
		prev = b.Entries[i].Hash
	}

	if i := config.CorruptSignature; i >= 0 && i < len(b.Entries) {
		if err := corruptSignature(b, i); err != nil {
			return nil, err
		}
	}
	if i := config.CorruptHash; i >= 0 && i < len(b.Entries) {
		b.Entries[i].Hash[0] ^= 0x01
	}
	return b, nil
}

func newTxs(seed string, entryIndex, n int) ([]entry.Transaction, error) {
	transactions := make([]entry.Transaction, n)
	for j := range transactions {
		label := fmt.Sprintf("%s/%d/%d", seed, entryIndex, j)
		keySeed := sha256.Sum256([]byte(label))
		key := ed25519.NewKeyFromSeed(keySeed[:ed25519.SeedSize])
		tx, err := txs.New([]byte(label), key)
		if err != nil {
			return nil, err
		}
		transactions[j] = tx
	}
	return transactions, nil
}

// corruptSignature damages the first signature of entry i and recomputes the
// chain from there, so only the signature check can catch it.
func corruptSignature(b *batchfile.Batch, i int) error {
	e := &b.Entries[i]
	if e.IsTick() {
		return fmt.Errorf("%w: %d", errNoSignatureToCorrupt, i)
	}
	tx := e.Transactions[0].(*txs.Tx)
	tx.Sigs[0][0] ^= 0x01

	for j := i; j < len(b.Entries); j++ {
		hash, err := b.Entries[j].ExpectedHash(entry.StartHash(b.Prev, b.Entries, j))
		if err != nil {
			return err
		}
		b.Entries[j].Hash = hash
	}
	return nil
}

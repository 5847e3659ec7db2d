// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package entry defines the ledger entry: a segment of the sequential hash
// chain together with the transactions recorded at its end.
package entry

import (
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/entry/hashing"
	"github.com/luxfi/entry/merkle"
	"github.com/luxfi/entry/utils/math"
)

// Transaction is an opaque signed transaction. Only its signatures take part
// in the hash chain.
type Transaction interface {
	Signatures() [][]byte
}

// SignatureChecker verifies every signature of a transaction. Implementations
// must be safe for concurrent use.
type SignatureChecker interface {
	Check(tx Transaction) bool
}

// SignatureCheckerFunc adapts a function to a SignatureChecker.
type SignatureCheckerFunc func(tx Transaction) bool

func (f SignatureCheckerFunc) Check(tx Transaction) bool {
	return f(tx)
}

// Entry is NumHashes iterations of the hash chain ending at Hash. When
// Transactions is non-empty their mixin is folded into the final iteration.
//
// Entries must not be modified once they are handed to a verifier.
type Entry struct {
	NumHashes    uint64
	Hash         ids.ID
	Transactions []Transaction
}

// IsTick returns true if the entry only marks elapsed time.
func (e *Entry) IsTick() bool {
	return len(e.Transactions) == 0
}

// Mixin returns the merkle root over the entry's transaction signatures, or
// nil for a tick.
func (e *Entry) Mixin() *ids.ID {
	if e.IsTick() {
		return nil
	}
	mixin := ComputeMixin(e.Transactions)
	return &mixin
}

// ExpectedHash recomputes the hash this entry must carry when it follows prev.
func (e *Entry) ExpectedHash(prev ids.ID) (ids.ID, error) {
	return hashing.Chain(prev, e.NumHashes, e.Mixin())
}

// Verify reports whether the entry's hash follows from prev.
func (e *Entry) Verify(prev ids.ID) bool {
	expected, err := e.ExpectedHash(prev)
	return err == nil && expected == e.Hash
}

// ComputeMixin returns the merkle root over the signatures of txs, in
// transaction order. A transaction with several signatures contributes them in
// their own order.
func ComputeMixin(txs []Transaction) ids.ID {
	return merkle.Root(SignatureLeaves(txs))
}

// SignatureLeaves flattens the signatures of txs into merkle leaves.
func SignatureLeaves(txs []Transaction) [][]byte {
	var leaves [][]byte
	for _, tx := range txs {
		leaves = append(leaves, tx.Signatures()...)
	}
	return leaves
}

// NewTick returns the tick entry numHashes iterations after prev.
func NewTick(prev ids.ID, numHashes uint64) Entry {
	return Entry{
		NumHashes: numHashes,
		Hash:      hashing.IterateN(prev, numHashes),
	}
}

// NextEntry returns the entry recording txs numHashes iterations after prev.
func NextEntry(prev ids.ID, numHashes uint64, txs []Transaction) (Entry, error) {
	e := Entry{
		NumHashes:    numHashes,
		Transactions: txs,
	}
	if err := e.validate(); err != nil {
		return Entry{}, err
	}
	hash, err := e.ExpectedHash(prev)
	if err != nil {
		return Entry{}, err
	}
	e.Hash = hash
	return e, nil
}

func (e *Entry) validate() error {
	for i, tx := range e.Transactions {
		if tx == nil {
			return fmt.Errorf("%w: transaction %d: %w", ErrMalformedEntry, i, errNilTransaction)
		}
	}
	if !e.IsTick() && e.NumHashes == 0 {
		return fmt.Errorf("%w: %w", ErrMalformedEntry, hashing.ErrZeroIterationsWithMixin)
	}
	return nil
}

// Validate checks the structure of a batch that will be verified from prev.
// The returned error wraps ErrMalformedEntry and names the offending entry.
func Validate(prev ids.ID, entries []Entry) error {
	if len(entries) == 0 && prev == ids.Empty {
		return fmt.Errorf("%w: %w", ErrMalformedEntry, errNoStartingHash)
	}
	for i := range entries {
		if err := entries[i].validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	if _, err := TotalHashes(entries); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEntry, err)
	}
	return nil
}

// TickCount returns the number of tick entries.
func TickCount(entries []Entry) int {
	count := 0
	for i := range entries {
		if entries[i].IsTick() {
			count++
		}
	}
	return count
}

// TransactionCount returns the number of transactions across all entries.
func TransactionCount(entries []Entry) int {
	count := 0
	for i := range entries {
		count += len(entries[i].Transactions)
	}
	return count
}

// TotalHashes returns the sum of all iteration counts.
func TotalHashes(entries []Entry) (uint64, error) {
	var total uint64
	for i := range entries {
		var err error
		total, err = math.Add(total, entries[i].NumHashes)
		if err != nil {
			return 0, fmt.Errorf("%w at entry %d", errTotalHashesRange, i)
		}
	}
	return total, nil
}

// StartHash returns the hash that entries[i] continues from.
func StartHash(prev ids.ID, entries []Entry, i int) ids.ID {
	if i == 0 {
		return prev
	}
	return entries[i-1].Hash
}

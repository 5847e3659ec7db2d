// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package hashing implements the sequential hash chain primitive that entries
// are built on.
//
// A chain value is advanced by Iterate, which applies SHA-256 once. An entry
// that carries transactions replaces its final iteration with Mix, which
// hashes the intermediate value concatenated with the transaction mixin.
package hashing

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/minio/sha256-simd"
)

var (
	// ErrMalformedEntry is returned for structurally invalid input. It is
	// detected before any verification work is dispatched and is never the
	// result of a failed verification.
	ErrMalformedEntry = errors.New("malformed entry")

	// ErrZeroIterationsWithMixin is returned, wrapped in ErrMalformedEntry,
	// when a mixin is supplied but there is no iteration to fold it into.
	ErrZeroIterationsWithMixin = errors.New("mixin requires at least one iteration")
)

// Iterate applies the base hash once.
func Iterate(value ids.ID) ids.ID {
	return sha256.Sum256(value[:])
}

// Mix hashes value || mixin.
func Mix(value, mixin ids.ID) ids.ID {
	var buf [2 * ids.IDLen]byte
	copy(buf[:ids.IDLen], value[:])
	copy(buf[ids.IDLen:], mixin[:])
	return sha256.Sum256(buf[:])
}

// IterateN applies Iterate n times.
func IterateN(value ids.ID, n uint64) ids.ID {
	for ; n > 0; n-- {
		value = sha256.Sum256(value[:])
	}
	return value
}

// Chain advances prev by numHashes applications of the base hash. If mixin is
// non-nil the last application is Mix instead of Iterate, so the total number
// of applications is always numHashes.
func Chain(prev ids.ID, numHashes uint64, mixin *ids.ID) (ids.ID, error) {
	if mixin == nil {
		return IterateN(prev, numHashes), nil
	}
	if numHashes == 0 {
		return ids.Empty, fmt.Errorf("%w: %w", ErrMalformedEntry, ErrZeroIterationsWithMixin)
	}
	return Mix(IterateN(prev, numHashes-1), *mixin), nil
}

// ChainValue computes the hash an entry must carry given the previous entry's
// hash, its iteration count and its optional transaction mixin.
func ChainValue(prev ids.ID, numHashes uint64, mixin *ids.ID) (ids.ID, error) {
	h, err := Chain(prev, numHashes, mixin)
	if err != nil {
		return ids.Empty, fmt.Errorf("chain value: %w", err)
	}
	return h, nil
}

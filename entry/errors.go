// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package entry

import (
	"errors"

	"github.com/luxfi/entry/hashing"
)

var (
	// ErrMalformedEntry is returned for structurally invalid input. It is
	// detected before any verification work is dispatched and is never the
	// result of a failed verification.
	ErrMalformedEntry = hashing.ErrMalformedEntry

	errNilTransaction   = errors.New("nil transaction")
	errNoStartingHash   = errors.New("empty batch without a starting hash")
	errTotalHashesRange = errors.New("total iteration count overflows")
)

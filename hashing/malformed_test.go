// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"

	"github.com/luxfi/entry/entry"
	"github.com/luxfi/entry/hashing"
)

func TestChainValueMixinWithoutIterationsIsMalformed(t *testing.T) {
	require := require.New(t)

	mixin := ids.GenerateTestID()
	_, err := hashing.ChainValue(ids.GenerateTestID(), 0, &mixin)
	require.ErrorIs(err, entry.ErrMalformedEntry)
	require.ErrorIs(err, hashing.ErrZeroIterationsWithMixin)

	e := entry.Entry{
		NumHashes:    0,
		Transactions: []entry.Transaction{signedTx{[]byte{0x01}}},
	}
	_, err = e.ExpectedHash(ids.GenerateTestID())
	require.ErrorIs(err, entry.ErrMalformedEntry)
}

type signedTx [][]byte

func (tx signedTx) Signatures() [][]byte {
	return tx
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCombine(t *testing.T) {
	tests := []struct {
		name       string
		chainIndex int
		sigIndex   int
		expected   Outcome
	}{
		{name: "both valid", chainIndex: -1, sigIndex: -1, expected: ValidOutcome},
		{name: "chain only", chainIndex: 4, sigIndex: -1, expected: InvalidOutcome(4, ReasonHashMismatch)},
		{name: "signatures only", chainIndex: -1, sigIndex: 2, expected: InvalidOutcome(2, ReasonSignatureInvalid)},
		{name: "chain first", chainIndex: 1, sigIndex: 3, expected: InvalidOutcome(1, ReasonHashMismatch)},
		{name: "signatures first", chainIndex: 5, sigIndex: 0, expected: InvalidOutcome(0, ReasonSignatureInvalid)},
		{name: "same entry", chainIndex: 3, sigIndex: 3, expected: InvalidOutcome(3, ReasonHashMismatch)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, combine(test.chainIndex, test.sigIndex))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	require := require.New(t)

	require.Equal("valid", ValidOutcome.String())
	require.Equal("invalid at entry 7: signature invalid", InvalidOutcome(7, ReasonSignatureInvalid).String())
	require.Equal("invalid at entry 0: hash mismatch", InvalidOutcome(0, ReasonHashMismatch).String())
}

func TestStages(t *testing.T) {
	require := require.New(t)

	for _, stage := range []Stage{Created, ChainSubmitted, SignaturesRunning, Joining} {
		require.False(stage.Terminal(), stage.String())
	}
	require.True(Accepted.Terminal())
	require.True(Rejected.Terminal())
	require.Equal("unknown", Stage(42).String())

	require.Equal(SignaturesRunning, abortedAt(context.Canceled))
	require.Equal(Joining, abortedAt(nil))
}

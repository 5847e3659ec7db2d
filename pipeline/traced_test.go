// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/luxfi/ids"

	"github.com/luxfi/entry/entry"
	"github.com/luxfi/entry/entry/entrytest"

	oteltrace "go.opentelemetry.io/otel/trace"
)

type verifierFunc func(context.Context, ids.ID, []entry.Entry) (Outcome, error)

func (f verifierFunc) Verify(ctx context.Context, prev ids.ID, entries []entry.Entry) (Outcome, error) {
	return f(ctx, prev, entries)
}

func TestTracedVerifier(t *testing.T) {
	h0 := ids.GenerateTestID()
	entries := entrytest.Batch(t, h0, 2, 1, 0)

	tests := []struct {
		name        string
		outcome     Outcome
		err         error
		expectedErr error
	}{
		{name: "valid", outcome: ValidOutcome},
		{name: "invalid", outcome: InvalidOutcome(1, ReasonHashMismatch)},
		{name: "malformed", err: entry.ErrMalformedEntry, expectedErr: entry.ErrMalformedEntry},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			var called bool
			inner := verifierFunc(func(ctx context.Context, prev ids.ID, got []entry.Entry) (Outcome, error) {
				called = true
				require.Equal(h0, prev)
				require.Len(got, len(entries))
				require.NotNil(oteltrace.SpanFromContext(ctx))
				return test.outcome, test.err
			})

			traced := NewTraced(inner, noop.NewTracerProvider().Tracer("test"))
			outcome, err := traced.Verify(context.Background(), h0, entries)
			require.True(called)
			require.ErrorIs(err, test.expectedErr)
			require.Equal(test.outcome, outcome)
		})
	}
}

func TestTracedPipeline(t *testing.T) {
	require := require.New(t)

	h0 := ids.GenerateTestID()
	p := newTestPipeline(t, DefaultConfig(), nil)
	traced := NewTraced(p, noop.NewTracerProvider().Tracer("test"))

	outcome, err := traced.Verify(context.Background(), h0, entrytest.Batch(t, h0, 3, 2, 0))
	require.NoError(err)
	require.Equal(ValidOutcome, outcome)
}

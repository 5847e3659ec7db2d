// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pipeline

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/luxfi/ids"

	"github.com/luxfi/entry/entry"

	oteltrace "go.opentelemetry.io/otel/trace"
)

var _ Verifier = (*tracedVerifier)(nil)

type tracedVerifier struct {
	Verifier

	tracer oteltrace.Tracer
}

// NewTraced records every Verify call of verifier as a span.
func NewTraced(verifier Verifier, tracer oteltrace.Tracer) Verifier {
	return &tracedVerifier{
		Verifier: verifier,
		tracer:   tracer,
	}
}

func (v *tracedVerifier) Verify(ctx context.Context, prev ids.ID, entries []entry.Entry) (Outcome, error) {
	ctx, span := v.tracer.Start(ctx, "pipeline.Verify", oteltrace.WithAttributes(
		attribute.Stringer("prev", prev),
		attribute.Int("numEntries", len(entries)),
		attribute.Int("numTxs", entry.TransactionCount(entries)),
	))
	defer span.End()

	outcome, err := v.Verifier.Verify(ctx, prev, entries)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return outcome, err
	}
	span.SetAttributes(
		attribute.Stringer("status", outcome.Status),
		attribute.Int("index", outcome.Index),
	)
	if !outcome.IsValid() {
		span.SetAttributes(attribute.Stringer("reason", outcome.Reason))
	}
	return outcome, nil
}

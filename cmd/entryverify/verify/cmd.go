// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package verify

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	"github.com/luxfi/entry/accel"
	"github.com/luxfi/entry/batchfile"
	"github.com/luxfi/entry/pipeline"
	"github.com/luxfi/entry/txs"
	"github.com/luxfi/entry/utils/profiler"
)

// ErrInvalidBatch is returned after reporting a batch that failed
// verification, so the process exits non-zero.
var ErrInvalidBatch = errors.New("batch failed verification")

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "verify",
		Short: "Verifies the hash chain and signatures of a batch file",
		RunE:  verifyFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func verifyFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	config, err := ParseFlags(flags, args)
	if err != nil {
		return err
	}

	var logger log.Logger = log.NewNoOpLogger()
	if config.Verbose {
		logger = log.Root()
	}

	compressor, err := batchfile.NewCompressor()
	if err != nil {
		return err
	}
	b, err := batchfile.Read(config.Input, compressor)
	if err != nil {
		return err
	}

	capability := accel.Discover(config.Pipeline.Accel, logger)
	defer capability.Close()

	p, err := pipeline.New(config.Pipeline, capability, txs.Checker{}, logger, metric.NewRegistry())
	if err != nil {
		return err
	}
	verifier := pipeline.NewTraced(p, otel.Tracer("entryverify"))

	outcome, duration, err := profile(config.ProfileDir, func() (pipeline.Outcome, error) {
		return verifier.Verify(c.Context(), b.Prev, b.Entries)
	})
	if err != nil {
		return err
	}

	report, err := newReport(b, outcome, p.Accelerated(), duration)
	if err != nil {
		return err
	}
	out := c.OutOrStdout()
	if config.JSON {
		err = report.writeJSON(out)
	} else {
		err = report.writeText(out)
	}
	if err != nil {
		return err
	}
	if !outcome.IsValid() {
		return ErrInvalidBatch
	}
	return nil
}

// profile times verify, capturing a CPU profile of it and a heap profile
// after it when dir is set.
func profile(dir string, verify func() (pipeline.Outcome, error)) (pipeline.Outcome, time.Duration, error) {
	if dir == "" {
		startTime := time.Now()
		outcome, err := verify()
		return outcome, time.Since(startTime), err
	}

	prof := profiler.New(dir)
	if err := prof.StartCPUProfiler(); err != nil {
		return pipeline.Outcome{}, 0, err
	}
	startTime := time.Now()
	outcome, err := verify()
	duration := time.Since(startTime)
	if stopErr := prof.StopCPUProfiler(); err == nil {
		err = stopErr
	}
	if err != nil {
		return pipeline.Outcome{}, 0, err
	}
	return outcome, duration, prof.MemoryProfile()
}

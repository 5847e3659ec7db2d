// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pipeline

import (
	"sync/atomic"

	"github.com/luxfi/metric"

	"github.com/luxfi/entry/utils/wrappers"
)

type pipelineMetrics struct {
	numValid      metric.Counter
	numInvalid    metric.Counter
	numMalformed  metric.Counter
	numFallbacks  metric.Counter
	numEntries    metric.Counter
	numSignatures metric.Counter

	inFlight      atomic.Int64
	inFlightGauge metric.Gauge
}

func newMetrics(registerer metric.Registerer) (*pipelineMetrics, error) {
	m := &pipelineMetrics{
		numValid: metric.NewCounter(metric.CounterOpts{
			Name: "entry_batches_valid",
			Help: "Number of entry batches verified as valid",
		}),
		numInvalid: metric.NewCounter(metric.CounterOpts{
			Name: "entry_batches_invalid",
			Help: "Number of entry batches verified as invalid",
		}),
		numMalformed: metric.NewCounter(metric.CounterOpts{
			Name: "entry_batches_malformed",
			Help: "Number of entry batches rejected before verification started",
		}),
		numFallbacks: metric.NewCounter(metric.CounterOpts{
			Name: "entry_accel_fallbacks",
			Help: "Number of accelerator jobs that were redone on the CPU",
		}),
		numEntries: metric.NewCounter(metric.CounterOpts{
			Name: "entry_entries_verified",
			Help: "Number of entries in verified batches",
		}),
		numSignatures: metric.NewCounter(metric.CounterOpts{
			Name: "entry_transactions_verified",
			Help: "Number of transactions whose signatures were checked",
		}),
		inFlightGauge: metric.NewGauge(metric.GaugeOpts{
			Name: "entry_verifications_in_flight",
			Help: "Number of batches currently being verified",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(metric.AsCollector(m.numValid)),
		registerer.Register(metric.AsCollector(m.numInvalid)),
		registerer.Register(metric.AsCollector(m.numMalformed)),
		registerer.Register(metric.AsCollector(m.numFallbacks)),
		registerer.Register(metric.AsCollector(m.numEntries)),
		registerer.Register(metric.AsCollector(m.numSignatures)),
		registerer.Register(metric.AsCollector(m.inFlightGauge)),
	)
	return m, errs.Err
}

func (m *pipelineMetrics) start() {
	m.inFlightGauge.Set(float64(m.inFlight.Add(1)))
}

func (m *pipelineMetrics) done() {
	m.inFlightGauge.Set(float64(m.inFlight.Add(-1)))
}

func (m *pipelineMetrics) observe(outcome Outcome, numEntries, numTxs int) {
	if outcome.IsValid() {
		m.numValid.Inc()
	} else {
		m.numInvalid.Inc()
	}
	m.numEntries.Add(float64(numEntries))
	m.numSignatures.Add(float64(numTxs))
}

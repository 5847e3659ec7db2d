// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package verify

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/luxfi/ids"

	"github.com/luxfi/entry/batchfile"
	"github.com/luxfi/entry/entry"
	"github.com/luxfi/entry/pipeline"

	luxjson "github.com/luxfi/entry/utils/json"
)

// Report describes one verified batch.
type Report struct {
	Prev        ids.ID         `json:"prev"`
	NumEntries  int            `json:"numEntries"`
	NumTicks    int            `json:"numTicks"`
	NumTxs      int            `json:"numTxs"`
	TotalHashes luxjson.Uint64 `json:"totalHashes"`
	Accelerated bool           `json:"accelerated"`
	Status      string         `json:"status"`
	Index       *int           `json:"index,omitempty"`
	Reason      string         `json:"reason,omitempty"`
	Duration    time.Duration  `json:"duration"`
}

func newReport(b *batchfile.Batch, outcome pipeline.Outcome, accelerated bool, duration time.Duration) (*Report, error) {
	totalHashes, err := entry.TotalHashes(b.Entries)
	if err != nil {
		return nil, err
	}
	r := &Report{
		Prev:        b.Prev,
		NumEntries:  len(b.Entries),
		NumTicks:    entry.TickCount(b.Entries),
		NumTxs:      entry.TransactionCount(b.Entries),
		TotalHashes: luxjson.Uint64(totalHashes),
		Accelerated: accelerated,
		Status:      outcome.Status.String(),
		Duration:    duration,
	}
	if !outcome.IsValid() {
		index := outcome.Index
		r.Index = &index
		r.Reason = outcome.Reason.String()
	}
	return r, nil
}

func (r *Report) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r *Report) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"%d entries (%d ticks, %d transactions, %d hashes) from %s\n",
		r.NumEntries, r.NumTicks, r.NumTxs, uint64(r.TotalHashes), r.Prev,
	)
	if err != nil {
		return err
	}
	if r.Index == nil {
		_, err = fmt.Fprintf(w, "%s in %s (accelerated: %t)\n", r.Status, r.Duration, r.Accelerated)
		return err
	}
	_, err = fmt.Fprintf(w, "%s at entry %d: %s in %s (accelerated: %t)\n", r.Status, *r.Index, r.Reason, r.Duration, r.Accelerated)
	return err
}

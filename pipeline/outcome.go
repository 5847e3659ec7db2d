// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pipeline

import "fmt"

// Status is the verdict on a batch.
type Status uint8

const (
	Valid Status = iota
	Invalid
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Reason explains an Invalid outcome.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonHashMismatch
	ReasonSignatureInvalid
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonHashMismatch:
		return "hash mismatch"
	case ReasonSignatureInvalid:
		return "signature invalid"
	default:
		return "unknown"
	}
}

// Outcome of verifying a batch. Index is the earliest failing entry and is
// -1 when the batch is valid.
type Outcome struct {
	Status Status `json:"status"`
	Index  int    `json:"index"`
	Reason Reason `json:"reason"`
}

var ValidOutcome = Outcome{Status: Valid, Index: -1}

func InvalidOutcome(index int, reason Reason) Outcome {
	return Outcome{
		Status: Invalid,
		Index:  index,
		Reason: reason,
	}
}

func (o Outcome) IsValid() bool {
	return o.Status == Valid
}

func (o Outcome) String() string {
	if o.IsValid() {
		return "valid"
	}
	return fmt.Sprintf("invalid at entry %d: %s", o.Index, o.Reason)
}

// combine merges the chain and signature verdicts. The earliest failing entry
// wins and a hash mismatch wins over a bad signature in the same entry.
func combine(chainIndex, sigIndex int) Outcome {
	switch {
	case chainIndex < 0 && sigIndex < 0:
		return ValidOutcome
	case sigIndex < 0 || (chainIndex >= 0 && chainIndex <= sigIndex):
		return InvalidOutcome(chainIndex, ReasonHashMismatch)
	default:
		return InvalidOutcome(sigIndex, ReasonSignatureInvalid)
	}
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pipeline

// Stage of a single Verify call. A call moves through the stages in
// declaration order and ends in exactly one of Accepted or Rejected.
type Stage uint8

const (
	Created Stage = iota
	ChainSubmitted
	SignaturesRunning
	Joining
	Accepted
	Rejected
)

func (s Stage) String() string {
	switch s {
	case Created:
		return "created"
	case ChainSubmitted:
		return "chain submitted"
	case SignaturesRunning:
		return "signatures running"
	case Joining:
		return "joining"
	case Accepted:
		return "valid"
	case Rejected:
		return "invalid"
	default:
		return "unknown"
	}
}

// Terminal returns true once no further transition is possible.
func (s Stage) Terminal() bool {
	return s == Accepted || s == Rejected
}

// abortedAt returns the stage a failed verification stopped in. Signatures run
// on the calling goroutine, so their failure is seen while they run; anything
// else is only seen once both sides join.
func abortedAt(sigErr error) Stage {
	if sigErr != nil {
		return SignaturesRunning
	}
	return Joining
}

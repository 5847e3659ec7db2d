// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pipeline

import (
	"errors"

	"github.com/luxfi/entry/accel"
	"github.com/luxfi/entry/chain"
	"github.com/luxfi/entry/sigverify"
	"github.com/luxfi/entry/utils/wrappers"
)

var errInvalidPollPolicy = errors.New("poll policy must allow at least one poll with a positive interval")

type Config struct {
	Chain      chain.Config     `json:"chain"`
	Signatures sigverify.Config `json:"signatures"`
	Accel      accel.Config     `json:"accel"`
	Poll       accel.PollPolicy `json:"poll"`

	// OffloadSignatures submits signature checks to the accelerator when
	// one is present instead of running them on the CPU worker pool.
	OffloadSignatures bool `json:"offloadSignatures"`
}

func DefaultConfig() Config {
	return Config{
		Chain:      chain.DefaultConfig(),
		Signatures: sigverify.DefaultConfig(),
		Accel:      accel.DefaultConfig(),
		Poll:       accel.DefaultPollPolicy(),
	}
}

// Verify returns the first problem found with the config.
func (c Config) Verify() error {
	errs := wrappers.Errs{}
	errs.Add(
		c.Chain.Verify(),
		c.Signatures.Verify(),
	)
	if c.Poll.MaxPolls <= 0 || c.Poll.Interval <= 0 || c.Poll.MaxInterval < c.Poll.Interval {
		errs.Add(errInvalidPollPolicy)
	}
	return errs.Err
}

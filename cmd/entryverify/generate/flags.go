// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package generate

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/luxfi/entry/utils"
)

const (
	OutputKey           = "output"
	SeedKey             = "seed"
	NumEntriesKey       = "entries"
	NumHashesKey        = "hashes-per-entry"
	MaxTxsKey           = "max-txs"
	CorruptHashKey      = "corrupt-hash"
	CorruptSignatureKey = "corrupt-signature"
)

var (
	errNoOutput      = errors.New("an output path is required")
	errNoHashes      = errors.New("entries need at least one hash")
	errNegativeCount = errors.New("entry and transaction counts must not be negative")
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(OutputKey, "batch.zst", "File to write the batch to")
	flags.String(SeedKey, "entry", "Seed deriving the starting hash and signing keys")
	flags.Int(NumEntriesKey, 64, "Number of entries to generate")
	flags.Uint64(NumHashesKey, 1024, "Hash iterations recorded by every entry")
	flags.Int(MaxTxsKey, 4, "Entry i carries i mod (max-txs+1) transactions")
	flags.Int(CorruptHashKey, -1, "Index of an entry whose stored hash is damaged")
	flags.Int(CorruptSignatureKey, -1, "Index of an entry whose first signature is damaged and re-committed to")
}

type Config struct {
	Output           string
	Seed             string
	NumEntries       int
	NumHashes        uint64
	MaxTxs           int
	CorruptHash      int
	CorruptSignature int
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	output, err := flags.GetString(OutputKey)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return nil, errNoOutput
	}

	seed, err := flags.GetString(SeedKey)
	if err != nil {
		return nil, err
	}

	numEntries, err := flags.GetInt(NumEntriesKey)
	if err != nil {
		return nil, err
	}

	numHashes, err := flags.GetUint64(NumHashesKey)
	if err != nil {
		return nil, err
	}
	if numHashes == 0 {
		return nil, errNoHashes
	}

	maxTxs, err := flags.GetInt(MaxTxsKey)
	if err != nil {
		return nil, err
	}
	if numEntries < 0 || maxTxs < 0 {
		return nil, errNegativeCount
	}

	corruptHash, err := flags.GetInt(CorruptHashKey)
	if err != nil {
		return nil, err
	}

	corruptSignature, err := flags.GetInt(CorruptSignatureKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		Output:           utils.ExpandHome(output),
		Seed:             seed,
		NumEntries:       numEntries,
		NumHashes:        numHashes,
		MaxTxs:           maxTxs,
		CorruptHash:      corruptHash,
		CorruptSignature: corruptSignature,
	}, nil
}

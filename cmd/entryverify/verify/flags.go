// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package verify

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/luxfi/entry/accel"
	"github.com/luxfi/entry/pipeline"
	"github.com/luxfi/entry/utils"
)

const (
	InputKey             = "input"
	JSONKey              = "json"
	VerboseKey           = "verbose"
	BackendKey           = "backend"
	LibraryPathKey       = "library-path"
	WorkersKey           = "workers"
	OffloadSignaturesKey = "offload-signatures"
	MaxPollsKey          = "max-polls"
	CacheSizeKey         = "signature-cache-size"
	ProfileDirKey        = "profile-dir"
)

var errNoInput = errors.New("an input batch is required")

func AddFlags(flags *pflag.FlagSet) {
	defaults := pipeline.DefaultConfig()
	flags.String(InputKey, "batch.zst", "Batch file to verify")
	flags.Bool(JSONKey, false, "Print the outcome as JSON")
	flags.Bool(VerboseKey, false, "Log pipeline activity")
	flags.String(BackendKey, "", fmt.Sprintf("Accelerator backend to use, overridden by $%s (empty = discover)", accel.BackendEnvVar))
	flags.String(LibraryPathKey, "", "Native library loaded by the plugin backend")
	flags.Int(WorkersKey, 0, "CPU workers for chain and signature checks (0 = one per core)")
	flags.Bool(OffloadSignaturesKey, defaults.OffloadSignatures, "Check signatures on the accelerator when one is present")
	flags.Int(MaxPollsKey, defaults.Poll.MaxPolls, "Polls of an accelerator job before falling back to the CPU")
	flags.Int(CacheSizeKey, defaults.Signatures.CacheSize, "Verified transactions remembered across batches (0 = disabled)")
	flags.String(ProfileDirKey, "", "Directory to write CPU and heap profiles of the verification to (empty = no profiling)")
}

type Config struct {
	Input      string
	JSON       bool
	Verbose    bool
	ProfileDir string
	Pipeline   pipeline.Config
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	input, err := flags.GetString(InputKey)
	if err != nil {
		return nil, err
	}
	input = utils.ExpandHome(input)
	if !utils.FileExists(input) {
		return nil, fmt.Errorf("%w: %q does not exist", errNoInput, input)
	}

	jsonOutput, err := flags.GetBool(JSONKey)
	if err != nil {
		return nil, err
	}

	verbose, err := flags.GetBool(VerboseKey)
	if err != nil {
		return nil, err
	}

	backend, err := flags.GetString(BackendKey)
	if err != nil {
		return nil, err
	}

	libraryPath, err := flags.GetString(LibraryPathKey)
	if err != nil {
		return nil, err
	}

	workers, err := flags.GetInt(WorkersKey)
	if err != nil {
		return nil, err
	}

	offload, err := flags.GetBool(OffloadSignaturesKey)
	if err != nil {
		return nil, err
	}

	maxPolls, err := flags.GetInt(MaxPollsKey)
	if err != nil {
		return nil, err
	}

	cacheSize, err := flags.GetInt(CacheSizeKey)
	if err != nil {
		return nil, err
	}

	profileDir, err := flags.GetString(ProfileDirKey)
	if err != nil {
		return nil, err
	}

	config := pipeline.DefaultConfig()
	config.Accel.Backend = accel.Backend(backend)
	config.Accel.LibraryPath = utils.ExpandHome(libraryPath)
	config.Accel.NumThreads = workers
	config.Chain.NumWorkers = workers
	config.Signatures.NumWorkers = workers
	config.Signatures.CacheSize = cacheSize
	config.OffloadSignatures = offload
	config.Poll.MaxPolls = maxPolls
	if err := config.Verify(); err != nil {
		return nil, err
	}

	return &Config{
		Input:      input,
		JSON:       jsonOutput,
		Verbose:    verbose,
		ProfileDir: utils.ExpandHome(profileDir),
		Pipeline:   config,
	}, nil
}

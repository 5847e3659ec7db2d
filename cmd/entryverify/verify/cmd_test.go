// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package verify

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/entry/batchfile"
	"github.com/luxfi/entry/cmd/entryverify/generate"
)

func writeBatch(t *testing.T, corruptHash, corruptSignature int) string {
	t.Helper()

	b, err := generate.Batch(&generate.Config{
		Seed:             t.Name(),
		NumEntries:       20,
		NumHashes:        8,
		MaxTxs:           3,
		CorruptHash:      corruptHash,
		CorruptSignature: corruptSignature,
	})
	require.NoError(t, err)

	c, err := batchfile.NewCompressor()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "batch.zst")
	require.NoError(t, batchfile.Write(path, b, c))
	return path
}

func run(t *testing.T, args ...string) (*Report, error) {
	t.Helper()

	var out bytes.Buffer
	c := Command()
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(append(args, "--"+JSONKey))
	err := c.Execute()

	var report Report
	require.NoError(t, json.NewDecoder(&out).Decode(&report))
	return &report, err
}

func TestVerifyCommand(t *testing.T) {
	tests := []struct {
		name             string
		corruptHash      int
		corruptSignature int
		expectedErr      error
		expectedStatus   string
		expectedIndex    int
		expectedReason   string
	}{
		{
			name:             "valid",
			corruptHash:      -1,
			corruptSignature: -1,
			expectedStatus:   "valid",
		},
		{
			name:             "hash mismatch",
			corruptHash:      9,
			corruptSignature: -1,
			expectedErr:      ErrInvalidBatch,
			expectedStatus:   "invalid",
			expectedIndex:    9,
			expectedReason:   "hash mismatch",
		},
		{
			name:             "bad signature",
			corruptHash:      -1,
			corruptSignature: 6,
			expectedErr:      ErrInvalidBatch,
			expectedStatus:   "invalid",
			expectedIndex:    6,
			expectedReason:   "signature invalid",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			path := writeBatch(t, test.corruptHash, test.corruptSignature)
			report, err := run(t, "--"+InputKey, path, "--"+WorkersKey, "2")
			require.ErrorIs(err, test.expectedErr)
			require.Equal(test.expectedStatus, report.Status)
			require.Equal(20, report.NumEntries)
			require.Equal(5, report.NumTicks)
			require.Equal(uint64(160), uint64(report.TotalHashes))
			if test.expectedErr == nil {
				require.Nil(report.Index)
				return
			}
			require.NotNil(report.Index)
			require.Equal(test.expectedIndex, *report.Index)
			require.Equal(test.expectedReason, report.Reason)
		})
	}
}

func TestReportText(t *testing.T) {
	require := require.New(t)

	index := 3
	r := &Report{
		NumEntries: 4,
		Status:     "invalid",
		Index:      &index,
		Reason:     "hash mismatch",
	}
	var out bytes.Buffer
	require.NoError(r.writeText(&out))
	require.Contains(out.String(), "invalid at entry 3: hash mismatch")
}

func TestParseFlagsMissingInput(t *testing.T) {
	flags := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	AddFlags(flags)
	_, err := ParseFlags(flags, []string{"--" + InputKey, filepath.Join(t.TempDir(), "missing.zst")})
	require.ErrorIs(t, err, errNoInput)
}

func TestParseFlags(t *testing.T) {
	require := require.New(t)

	path := writeBatch(t, -1, -1)
	flags := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	AddFlags(flags)
	config, err := ParseFlags(flags, []string{
		"--" + InputKey, path,
		"--" + BackendKey, "software",
		"--" + WorkersKey, "3",
		"--" + OffloadSignaturesKey,
	})
	require.NoError(err)
	require.Equal(path, config.Input)
	require.Equal("software", string(config.Pipeline.Accel.Backend))
	require.Equal(3, config.Pipeline.Chain.NumWorkers)
	require.Equal(3, config.Pipeline.Signatures.NumWorkers)
	require.True(config.Pipeline.OffloadSignatures)
	require.False(config.JSON)
}

func TestVerifyCommandProfiles(t *testing.T) {
	require := require.New(t)

	dir := filepath.Join(t.TempDir(), "profiles")
	report, err := run(t, "--"+InputKey, writeBatch(t, -1, -1), "--"+ProfileDirKey, dir)
	require.NoError(err)
	require.Equal("valid", report.Status)
	require.FileExists(filepath.Join(dir, "cpu.profile"))
	require.FileExists(filepath.Join(dir, "mem.profile"))
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/luxfi/entry/cmd/entryverify/backends"
	"github.com/luxfi/entry/cmd/entryverify/generate"
	"github.com/luxfi/entry/cmd/entryverify/verify"
)

func main() {
	cmd := &cobra.Command{
		Use:          "entryverify",
		Short:        "Generates and verifies entry batches",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		generate.Command(),
		verify.Command(),
		backends.Command(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "entryverify failed: %s\n", err)
		os.Exit(1)
	}
}

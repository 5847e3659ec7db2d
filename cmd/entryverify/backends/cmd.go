// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package backends

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxfi/entry/accel"
	"github.com/luxfi/entry/utils"
)

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "Lists the accelerator backends compiled into this binary",
		RunE:  backendsFunc,
	}
}

func backendsFunc(c *cobra.Command, _ []string) error {
	out := c.OutOrStdout()
	for _, name := range accel.GetAvailableBackends() {
		if _, err := fmt.Fprintf(out, "%-10s %s\n", name, accel.BackendInfo(name)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "\ncgo: %t, %s=%q\n", utils.CGOEnabled, accel.BackendEnvVar, os.Getenv(accel.BackendEnvVar))
	return err
}

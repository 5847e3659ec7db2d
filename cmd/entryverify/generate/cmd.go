// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package generate

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/luxfi/entry/batchfile"
	"github.com/luxfi/entry/entry"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "generate",
		Short: "Writes a signed entry batch to a file",
		RunE:  generateFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func generateFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	config, err := ParseFlags(flags, args)
	if err != nil {
		return err
	}

	startTime := time.Now()
	b, err := Batch(config)
	if err != nil {
		return err
	}
	log.Printf("generated %d entries with %d transactions in %s\n",
		len(b.Entries),
		entry.TransactionCount(b.Entries),
		time.Since(startTime),
	)

	compressor, err := batchfile.NewCompressor()
	if err != nil {
		return err
	}
	if err := batchfile.Write(config.Output, b, compressor); err != nil {
		return err
	}
	log.Printf("wrote batch starting at %s to %s\n", b.Prev, config.Output)
	return nil
}

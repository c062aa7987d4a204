// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jcodagnone/juntada/catalog"
	"github.com/spf13/cobra"
)

const seedFile = "cmd/testdata/seed.json"

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seeds the catalog with the places in " + seedFile,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(seedFile)
			if err != nil {
				return fmt.Errorf("failed to open seed.json: %w", err)
			}
			defer f.Close()

			// remove old db if it exists
			_ = os.Remove(dbPath())
			_ = os.Remove(dbPath() + ".wal")

			src, err := openCatalog(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer src.DB().Close()

			n, err := seedCatalog(cmd.Context(), src, f)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Catalog seeded successfully with %d places.\n", n)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newSeedCmd())
}

func seedCatalog(ctx context.Context, src *catalog.DuckDBSource, r io.Reader) (int, error) {
	raws, err := catalog.DecodeDocuments(r)
	if err != nil {
		return 0, fmt.Errorf("failed to unmarshal seed: %w", err)
	}

	n, _, err := src.Import(ctx, raws)
	if err != nil {
		return 0, fmt.Errorf("failed to save places: %w", err)
	}

	return n, nil
}

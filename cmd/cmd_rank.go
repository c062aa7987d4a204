// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jcodagnone/juntada/catalog"
	"github.com/jcodagnone/juntada/meet"
	"github.com/spf13/cobra"
)

type rankOptions struct {
	PlacesFile string
	List       string
}

func newRankCmd() *cobra.Command {
	opts := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank --places <file> <participant>...",
		Short: "Ordena una lista de lugares según la distancia a los participantes",
		Long: `Lee los lugares de un archivo JSON (un arreglo o {"documents": [...]}) y los
ordena por puntaje, por categoría.

$ juntada rank --places lugares.json --list pub 37.50,127.00 37.52,127.02
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.PlacesFile == "" {
				return errors.New("--places is required")
			}

			participants, err := resolveParticipants(cmd.Context(), args, newGeocoder)
			if err != nil {
				return err
			}

			f, err := os.Open(opts.PlacesFile)
			if err != nil {
				return fmt.Errorf("opening places: %w", err)
			}
			defer f.Close()

			raws, err := catalog.DecodeDocuments(f)
			if err != nil {
				return err
			}

			places, skipped, err := catalog.NormalizeAll(raws, true)
			if err != nil {
				return err
			}

			if skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Skipped %d places without valid coordinates\n", skipped)
			}

			scorer := meet.DefaultScorer()
			if scorer.Formatter, err = meet.Formatter(rootOptions.Lang); err != nil {
				return err
			}

			ranking, err := scorer.RankAll(meet.Unique(places), participants)
			if err != nil {
				return err
			}

			ranking = ranking.Limit(rootOptions.Config.Limit)

			if opts.List == "" {
				return writeJSON(cmd.OutOrStdout(), ranking)
			}

			list, ok := ranking.Get(opts.List)
			if !ok {
				return fmt.Errorf("unknown list %q, expected one of %s", opts.List, strings.Join(meet.RankKeys, ", "))
			}

			return writeJSON(cmd.OutOrStdout(), list)
		},
	}

	cmd.Flags().StringVar(&opts.PlacesFile, "places", "", "Archivo JSON con lugares")
	cmd.Flags().StringVar(&opts.List, "list", "", "Imprime solo una lista: "+strings.Join(meet.RankKeys, ", "))

	return cmd
}

func init() {
	rootCmd.AddCommand(newRankCmd())
}

// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/jcodagnone/juntada/geocode"
	"github.com/jcodagnone/juntada/meet"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type planOptions struct {
	PlacesFile string
	NameAreas  bool
}

func newPlanCmd() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan <participant>...",
		Short: "Busca zonas y lugares para reunir a los participantes",
		Long: `Cada participante es un par "lat,lng" o una dirección, que se geocodifica con
Google Maps. Imprime en stdout el plan completo en JSON.

$ juntada plan 37.4979,127.0276 "서울 마포구 양화로 160"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			participants, err := resolveParticipants(ctx, args, newGeocoder)
			if err != nil {
				return err
			}

			source, release, err := openSource(ctx, opts.PlacesFile)
			if err != nil {
				return err
			}
			defer release()

			scorer := meet.DefaultScorer()
			if scorer.Formatter, err = meet.Formatter(rootOptions.Lang); err != nil {
				return err
			}

			planner := meet.NewPlanner(source)
			planner.Scorer = scorer
			planner.Config = rootOptions.Config

			if opts.NameAreas {
				g, err := newGeocoder(ctx)
				if err != nil {
					return err
				}

				planner.Namer = geocode.Namer{Geocoder: g}
			}

			if isatty.IsTerminal(os.Stderr.Fd()) {
				bar := progressbar.NewOptions(len(meet.ScanBearings),
					progressbar.OptionSetDescription("Scanning"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
				defer func() { _ = bar.Finish() }()

				planner.Progress = func(done, total int) {
					bar.ChangeMax(total)
					_ = bar.Set(done)
				}
			}

			plan, err := planner.Plan(ctx, participants)
			if err != nil {
				return fmt.Errorf("planning: %w", err)
			}

			if plan.Fallback {
				log.Printf("⚠️  No places around the midpoint, showing popular areas instead")
			} else {
				log.Printf("✅ %d candidate areas, %d places ranked", len(plan.Candidates), len(plan.Ranking.All))
			}

			return writeJSON(cmd.OutOrStdout(), plan)
		},
	}

	cmd.Flags().StringVar(&opts.PlacesFile, "places", "", "Archivo JSON con lugares (por defecto el catálogo duckdb)")
	cmd.Flags().BoolVar(&opts.NameAreas, "name-areas", false, "Nombra las zonas candidatas con geocodificación inversa")

	return cmd
}

func init() {
	rootCmd.AddCommand(newPlanCmd())
}

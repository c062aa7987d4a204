// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/jcodagnone/juntada/geocode"
	"github.com/jcodagnone/juntada/meet"
	"github.com/jcodagnone/juntada/server"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	Addr       string
	PlacesFile string
	NoGeocode  bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expone plan, rank y midpoint como API JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			source, release, err := openSource(ctx, opts.PlacesFile)
			if err != nil {
				return err
			}
			defer release()

			planner := meet.NewPlanner(source)
			planner.Config = rootOptions.Config

			if err := planner.Config.Validate(); err != nil {
				return err
			}

			var geocoder geocode.Geocoder

			if !opts.NoGeocode {
				g, err := newGeocoder(ctx)
				if err != nil {
					log.Printf("⚠️  Geocoding disabled, participants must be sent as lat/lng: %v", err)
				} else {
					geocoder = g
					planner.Namer = geocode.Namer{Geocoder: g}
				}
			}

			fmt.Println("📍 Meeting point planner starting...")

			return server.NewServer(planner, geocoder).Run(opts.Addr)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "localhost:8080", "Dirección donde escuchar")
	cmd.Flags().StringVar(&opts.PlacesFile, "places", "", "Archivo JSON con lugares (por defecto el catálogo duckdb)")
	cmd.Flags().BoolVar(&opts.NoGeocode, "no-geocode", false, "No usa Google Maps para direcciones ni nombres de zonas")

	return cmd
}

func init() {
	rootCmd.AddCommand(newServeCmd())
}

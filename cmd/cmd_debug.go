// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/jcodagnone/juntada/meet"
	"github.com/jcodagnone/juntada/spatial"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugCategorizeCmd = &cobra.Command{
	Use:   "categorize",
	Short: "Interactuar con la clasificación de categorías",
	Long: `Lee una categoría por línea, e imprime la categoría seguida de la clasificación
inferida y si parece un bar.

$ echo "음식점 > 술집 > 호프,요리주점" | juntada debug categorize
음식점 > 술집 > 호프,요리주점	pub	pub-like
	`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			fmt.Fprintln(os.Stderr, "Ingrese categorías a analizar, una por línea…")
		}

		w := cmd.OutOrStdout()
		scanner := bufio.NewScanner(cmd.InOrStdin())

		for scanner.Scan() {
			raw := scanner.Text()

			pub := ""
			if meet.IsPub(meet.Place{CategoryRaw: raw}) {
				pub = "\tpub-like"
			}

			fmt.Fprintf(w, "%s\t%s%s\n", raw, meet.Categorize(raw), pub)
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		return nil
	},
}

var debugCellsCmd = &cobra.Command{
	Use:   "cells <lat,lng> [radius]",
	Short: "Muestra las celdas h3 que usa el catálogo para un punto",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := parsePoint(args[0])
		if !ok {
			return fmt.Errorf("expected lat,lng, got %q", args[0])
		}

		radius := rootOptions.Config.SearchRadius
		if len(args) == 2 {
			var err error
			if radius, err = strconv.ParseFloat(args[1], 64); err != nil {
				return fmt.Errorf("parsing radius: %w", err)
			}
		}

		w := cmd.OutOrStdout()

		for _, res := range []int{spatial.CoarseResolution, spatial.FineResolution} {
			cell, err := spatial.Cell(p, res)
			if err != nil {
				return err
			}

			disk, err := spatial.Disk(p, radius, res)
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "res %d\tcell %x\t%d cells within %gm\n", res, cell, len(disk), radius)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugCategorizeCmd)
	debugCmd.AddCommand(debugCellsCmd)
	debugCmd.AddCommand(debugDocumentCmd)
}

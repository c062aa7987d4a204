// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jcodagnone/juntada/catalog"
	"github.com/jcodagnone/juntada/meet"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type normalizedDocument struct {
	Place    *meet.Place   `json:"place,omitempty"`
	Category meet.Category `json:"category,omitempty"`
	Error    string        `json:"error,omitempty"`
}

var debugDocumentCmd = &cobra.Command{
	Use:   "document [file]",
	Short: "Lee documentos de lugares y muestra cómo se normalizan.",
	Long: `Lee documentos JSON de lugares desde un archivo o desde la entrada estándar,
y muestra el lugar normalizado de cada uno, o por qué se descarta.

Ejemplos:
  cat ./cmd/testdata/seed.json | juntada debug document
  juntada debug document ./cmd/testdata/seed.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()

		if len(args) > 0 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer f.Close()

			r = f
		} else if isatty.IsTerminal(os.Stdin.Fd()) {
			fmt.Fprintln(os.Stderr, "Reading from stdin. Paste JSON and press Ctrl+D to finish.")
		}

		raws, err := catalog.DecodeDocuments(r)
		if err != nil {
			return err
		}

		out := make([]normalizedDocument, 0, len(raws))

		for _, raw := range raws {
			p, err := catalog.Normalize(raw)
			if err != nil {
				out = append(out, normalizedDocument{Error: err.Error()})

				continue
			}

			out = append(out, normalizedDocument{Place: &p, Category: meet.Categorize(p.CategoryRaw)})
		}

		return writeJSON(cmd.OutOrStdout(), out)
	},
}

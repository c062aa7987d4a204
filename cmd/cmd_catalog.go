// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jcodagnone/juntada/catalog"
	"github.com/jcodagnone/juntada/meet"
	"github.com/jcodagnone/juntada/utils/textutils"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type importOptions struct {
	Encoding string
	Comma    string
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Administra el catálogo local de lugares",
	}

	cmd.AddCommand(newCatalogImportCmd(), newCatalogStatsCmd())

	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Importa lugares desde JSON, CSV o TSV",
		Long: `Importa lugares al catálogo duckdb. El formato se deduce de la extensión:
.json (un arreglo o {"documents": [...]}), .csv y .tsv/.txt. Los archivos de datos
públicos de comercios suelen venir en EUC-KR:

$ juntada catalog import --encoding euc-kr 소상공인시장진흥공단_상가정보_서울.csv
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			src, err := openCatalog(ctx, true)
			if err != nil {
				return err
			}
			defer src.DB().Close()

			var inserted, skipped int

			for _, path := range args {
				raws, err := readPlaces(path, opts)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}

				n, s, err := src.Import(ctx, raws)
				if err != nil {
					return fmt.Errorf("importing %s: %w", path, err)
				}

				log.Printf("📥 %s: %s places imported, %d skipped", path, textutils.FormatInt(int64(n)), s)

				inserted += n
				skipped += s
			}

			total, err := src.Count(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✅ Imported %s places (%s skipped), catalog has %s places\n",
				textutils.FormatInt(int64(inserted)),
				textutils.FormatInt(int64(skipped)),
				textutils.FormatInt(int64(total)))

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Encoding, "encoding", "utf-8", "Codificación de los CSV (utf-8, euc-kr, cp949)")
	cmd.Flags().StringVar(&opts.Comma, "comma", "", "Separador de columnas. Por defecto ',' o tab según la extensión")

	return cmd
}

// readPlaces decodes one export, showing read progress on a terminal.
func readPlaces(path string, opts *importOptions) ([]catalog.RawPlace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f

	if info, err := f.Stat(); err == nil && isatty.IsTerminal(os.Stderr.Fd()) {
		bar := progressbar.NewOptions64(info.Size(),
			progressbar.OptionSetDescription("Reading "+filepath.Base(path)),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		defer func() { _ = bar.Finish() }()

		r = io.TeeReader(f, bar)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return catalog.DecodeDocuments(r)
	}

	csvOpts := catalog.CSVOptions{Encoding: opts.Encoding}

	switch {
	case opts.Comma != "":
		c, size := utf8.DecodeRuneInString(opts.Comma)
		if size != len(opts.Comma) {
			return nil, fmt.Errorf("--comma must be a single character, got %q", opts.Comma)
		}

		csvOpts.Comma = c
	case ext == ".tsv" || ext == ".txt":
		csvOpts.Comma = '\t'
	case ext != ".csv":
		return nil, fmt.Errorf("unknown format %q, expected .json, .csv, .tsv or .txt", ext)
	}

	return catalog.ReadCSV(r, csvOpts)
}

func newCatalogStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Muestra cuántos lugares hay por categoría",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := openCatalog(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer src.DB().Close()

			stats, err := src.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("computing stats: %w", err)
			}

			w := cmd.OutOrStdout()
			a, b := strings.Repeat("─", 10), strings.Repeat("─", 12)

			fmt.Fprintf(w, "╭─%-10s─┬─%12s─╮\n", a, b)
			fmt.Fprintf(w, "│ %-10s │ %12s │\n", "Categoría", "Lugares")
			fmt.Fprintf(w, "├─%-10s─┼─%12s─┤\n", a, b)

			for _, c := range []meet.Category{
				meet.CategoryFood, meet.CategoryPub, meet.CategoryCafe, meet.CategoryPlay, meet.CategoryOther,
			} {
				fmt.Fprintf(w, "│ %-10s │ %12s │\n", c, textutils.FormatInt(int64(stats.ByCategory[c])))
			}

			fmt.Fprintf(w, "├─%-10s─┼─%12s─┤\n", a, b)
			fmt.Fprintf(w, "│ %-10s │ %12s │\n", "Total", textutils.FormatInt(int64(stats.Total)))
			fmt.Fprintf(w, "╰─%-10s─┴─%12s─╯\n", a, b)

			if stats.Total > 0 {
				fmt.Fprintf(w, "Bounding box: %v - %v\n", stats.Min, stats.Max)
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newCatalogCmd())
}

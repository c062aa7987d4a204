// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/jcodagnone/juntada/catalog"
	"github.com/jcodagnone/juntada/geocode"
	"github.com/jcodagnone/juntada/meet"
	"github.com/jcodagnone/juntada/utils/httputils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const dbFile = "juntada.duckdb"

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

// RootOptions holds the flags shared by every command.
type RootOptions struct {
	DbPath     string
	EnvFile    string
	APIKey     string
	GCPProject string
	Lang       string
	TraceHTTP  bool
	Config     meet.Config
}

var rootOptions = &RootOptions{Config: meet.DefaultConfig()}

var rootCmd = &cobra.Command{
	Use:   "juntada",
	Short: "find a fair place to meet",
	Long: `
juntada busca un punto de encuentro justo para un grupo: calcula el punto medio de los
participantes, explora los alrededores en busca de zonas con oferta gastronómica y
ordena los lugares candidatos según cuánto tiene que caminar cada uno.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return loadEnv(rootOptions.EnvFile)
	},
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootOptions.DbPath, "db-path", "db", "Directorio donde se guarda el catálogo de lugares")
	flags.StringVar(&rootOptions.EnvFile, "env-file", ".env", "Archivo con variables de entorno (GOOGLE_MAPS_API_KEY)")
	flags.StringVar(&rootOptions.APIKey, "api-key", "", "Google Maps API key. Por defecto GOOGLE_MAPS_API_KEY o ADC")
	flags.StringVar(&rootOptions.GCPProject, "gcp-project", "", "Proyecto donde buscar la API key usando ADC")
	flags.StringVar(&rootOptions.Lang, "lang", "ko", "Idioma de las justificaciones (ko, en)")
	flags.BoolVar(&rootOptions.TraceHTTP, "trace-http", false, "Display HTTP requests-responses")

	flags.IntVar(&rootOptions.Config.Clusters, "clusters", rootOptions.Config.Clusters, "Cantidad de zonas a agrupar")
	flags.IntVar(&rootOptions.Config.TopAreas, "top-areas", rootOptions.Config.TopAreas, "Cantidad de zonas candidatas a explorar")
	flags.Float64Var(&rootOptions.Config.CandidateRadius, "candidate-radius", rootOptions.Config.CandidateRadius, "Radio en metros para medir la densidad de cada zona")
	flags.Float64Var(&rootOptions.Config.SearchRadius, "search-radius", rootOptions.Config.SearchRadius, "Radio en metros de búsqueda de lugares")
	flags.IntVar(&rootOptions.Config.Concurrency, "concurrency", rootOptions.Config.Concurrency, "Consultas simultáneas al catálogo")
	flags.IntVar(&rootOptions.Config.Limit, "limit", rootOptions.Config.Limit, "Máximo de lugares por lista (0 = todos)")
}

// loadEnv reads path into the environment. A missing file is only an error when
// it is not the default one.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if err == nil {
		log.Printf("🔧 Loaded environment from %s", path)

		return nil
	}

	if errors.Is(err, fs.ErrNotExist) && path == ".env" {
		return nil
	}

	return fmt.Errorf("loading %s: %w", path, err)
}

// apiKey resolves the Google Maps key: flag, environment and finally ADC.
func apiKey(ctx context.Context) (string, error) {
	if rootOptions.APIKey != "" {
		return rootOptions.APIKey, nil
	}

	if key := os.Getenv("GOOGLE_MAPS_API_KEY"); key != "" {
		return key, nil
	}

	log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

	key, err := geocode.APIKeyFromADC(ctx, rootOptions.GCPProject, geocode.DefaultKeyDisplayName)
	if err != nil {
		return "", fmt.Errorf("resolving Google Maps API key: %w", err)
	}

	return key, nil
}

// newGeocoder builds the Google Maps client, tracing to stderr with --trace-http.
func newGeocoder(ctx context.Context) (*geocode.GoogleMapsGeocoder, error) {
	key, err := apiKey(ctx)
	if err != nil {
		return nil, err
	}

	opts := httputils.ClientOptions{
		Timeout: 10 * time.Second,
		Redact:  []string{"key"},
		Headers: map[string]string{
			"User-Agent": fmt.Sprintf("juntada/%s (+https://github.com/jcodagnone/juntada)", Version),
		},
	}
	if rootOptions.TraceHTTP {
		opts.Trace = os.Stderr
	}

	lang := rootOptions.Lang
	if lang == "" {
		lang = "ko"
	}

	return geocode.NewGoogleMapsGeocoder(key,
		geocode.WithHTTPClient(httputils.NewClient(opts)),
		geocode.WithRegion("kr", lang),
	), nil
}

func dbPath() string {
	return filepath.Join(rootOptions.DbPath, dbFile)
}

// openCatalog opens the duckdb catalog, creating it when create is set.
func openCatalog(ctx context.Context, create bool) (*catalog.DuckDBSource, error) {
	path := dbPath()

	if create {
		if err := os.MkdirAll(rootOptions.DbPath, 0o750); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	} else if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("catalog not found at %s - run 'juntada catalog import' first", path)
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	src := catalog.NewDuckDBSource(db)
	if err := src.CreateSchema(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return src, nil
}

// openSource returns the places to plan with: the JSON file when given, otherwise
// the duckdb catalog. The returned func releases it.
func openSource(ctx context.Context, placesFile string) (meet.PlaceSource, func(), error) {
	if placesFile == "" {
		src, err := openCatalog(ctx, false)
		if err != nil {
			return nil, nil, err
		}

		return src, func() { _ = src.DB().Close() }, nil
	}

	f, err := os.Open(placesFile)
	if err != nil {
		return nil, nil, fmt.Errorf("opening places: %w", err)
	}
	defer f.Close()

	src := catalog.NewMemorySource()

	skipped, err := src.LoadJSON(f)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", placesFile, err)
	}

	log.Printf("📦 Loaded %d places from %s (%d skipped)", src.Len(), placesFile, skipped)

	return src, func() {}, nil
}

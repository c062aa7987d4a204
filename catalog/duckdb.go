// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/jcodagnone/juntada/meet"
	"github.com/jcodagnone/juntada/spatial"
)

// fineRadiusLimit is the largest radius, in meters, answered with FineResolution cells.
const fineRadiusLimit = 2000.0

// DuckDBSource is a meet.PlaceSource backed by the places table of a DuckDB
// database. Every row carries its H3 cells so Nearby only scans the rows of the
// cells around the center.
type DuckDBSource struct {
	db *sql.DB
}

// NewDuckDBSource wraps an open database. Call CreateSchema before the first use.
func NewDuckDBSource(db *sql.DB) *DuckDBSource {
	return &DuckDBSource{db: db}
}

// DB returns the underlying database connection.
func (s *DuckDBSource) DB() *sql.DB {
	return s.db
}

// CreateSchema creates the places table.
func (s *DuckDBSource) CreateSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS places (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			lat DOUBLE NOT NULL,
			lng DOUBLE NOT NULL,
			category_raw VARCHAR NOT NULL,
			category_detail VARCHAR NOT NULL DEFAULT '',
			address VARCHAR NOT NULL,
			h3_res6 BIGINT NOT NULL,
			h3_res9 BIGINT NOT NULL,
			imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)

	return err
}

// BulkInsert upserts places by ID in a single transaction. Within the batch the first
// place with a given key wins.
func (s *DuckDBSource) BulkInsert(ctx context.Context, places []meet.Place) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = fmt.Errorf("%w (rollback: %v)", err, rErr)
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO places(id, name, lat, lng, category_raw, category_detail, address, h3_res6, h3_res9)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range meet.Unique(places) {
		coarse, err := spatial.Cell(p.Location, spatial.CoarseResolution)
		if err != nil {
			return fmt.Errorf("place %q: %w", p.Key(), err)
		}

		fine, err := spatial.Cell(p.Location, spatial.FineResolution)
		if err != nil {
			return fmt.Errorf("place %q: %w", p.Key(), err)
		}

		if _, err := stmt.ExecContext(ctx,
			p.Key(),
			p.Name,
			p.Location.Lat,
			p.Location.Lng,
			p.CategoryRaw,
			p.CategoryDetail,
			p.Address,
			coarse,
			fine,
		); err != nil {
			return fmt.Errorf("inserting place %q: %w", p.Key(), err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored places.
func (s *DuckDBSource) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM places").Scan(&count)

	return count, err
}

// Nearby returns the places within radius meters of center, closest first.
func (s *DuckDBSource) Nearby(ctx context.Context, center spatial.Point, radius float64) ([]meet.Place, error) {
	if radius <= 0 {
		return nil, spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "radius must be positive, got %v", radius)
	}

	res, column := spatial.FineResolution, "h3_res9"
	if radius > fineRadiusLimit {
		res, column = spatial.CoarseResolution, "h3_res6"
	}

	cells, err := spatial.Disk(center, radius, res)
	if err != nil {
		return nil, err
	}

	args := make([]any, 0, len(cells))
	for _, c := range cells {
		args = append(args, c)
	}

	query := fmt.Sprintf(`
		SELECT id, name, lat, lng, category_raw, category_detail, address
		FROM places
		WHERE %s IN (%s)
	`, column, strings.TrimSuffix(strings.Repeat("?, ", len(cells)), ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying places: %w", err)
	}
	defer rows.Close()

	type hit struct {
		place meet.Place
		dist  float64
	}

	var hits []hit

	for rows.Next() {
		var p meet.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Location.Lat, &p.Location.Lng, &p.CategoryRaw, &p.CategoryDetail, &p.Address); err != nil {
			return nil, err
		}

		d := spatial.Distance(center, p.Location)
		if d > radius {
			continue
		}

		hits = append(hits, hit{p, d})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}

		return hits[i].place.ID < hits[j].place.ID
	})

	out := make([]meet.Place, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.place)
	}

	return out, nil
}

// Stats summarizes the stored places.
type Stats struct {
	Total      int                   `json:"total"`
	ByCategory map[meet.Category]int `json:"by_category"`
	Min        spatial.Point         `json:"min"`
	Max        spatial.Point         `json:"max"`
}

// Stats counts places per category and computes the bounding box of the catalog.
func (s *DuckDBSource) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByCategory: make(map[meet.Category]int)}

	var minLat, minLng, maxLat, maxLng sql.NullFloat64

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), MIN(lat), MIN(lng), MAX(lat), MAX(lng) FROM places
	`).Scan(&stats.Total, &minLat, &minLng, &maxLat, &maxLng)
	if err != nil {
		return nil, err
	}

	stats.Min = spatial.Point{Lat: minLat.Float64, Lng: minLng.Float64}
	stats.Max = spatial.Point{Lat: maxLat.Float64, Lng: maxLng.Float64}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category_raw, COUNT(*) FROM places GROUP BY category_raw
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			raw   string
			count int
		)

		if err := rows.Scan(&raw, &count); err != nil {
			return nil, err
		}

		stats.ByCategory[meet.Categorize(raw)] += count
	}

	return stats, rows.Err()
}

// Import normalizes documents and upserts them. Documents with bad coordinates are
// skipped and counted.
func (s *DuckDBSource) Import(ctx context.Context, raws []RawPlace) (inserted, skipped int, err error) {
	places, skipped, err := NormalizeAll(raws, true)
	if err != nil {
		return 0, skipped, err
	}

	places = meet.Unique(places)
	if err := s.BulkInsert(ctx, places); err != nil {
		return 0, skipped, err
	}

	return len(places), skipped, nil
}

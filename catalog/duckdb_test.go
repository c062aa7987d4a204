// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/jcodagnone/juntada/meet"
	"github.com/jcodagnone/juntada/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DuckDBSource {
	t.Helper()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	src := NewDuckDBSource(db)
	if err := src.CreateSchema(context.Background()); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return src
}

func TestDuckDBCreateSchema(t *testing.T) {
	src := setupTestDB(t)

	var tableName string

	err := src.DB().QueryRow("SELECT table_name FROM information_schema.tables WHERE table_name = 'places'").Scan(&tableName)
	require.NoError(t, err)
	assert.Equal(t, "places", tableName)

	// idempotent
	require.NoError(t, src.CreateSchema(context.Background()))
}

func TestDuckDBNearby(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)

	require.NoError(t, src.BulkInsert(ctx, ring(900, 100, 1600, 500, 4500)))

	count, err := src.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	tests := []struct {
		name   string
		radius float64
		want   []string
	}{
		{"Fine cells", 1000, []string{"b", "d", "a"}},
		{"Coarse cells", 5000, []string{"b", "d", "a", "c", "e"}},
		{"Nothing close", 50, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.Nearby(ctx, gangnam, tt.radius)
			require.NoError(t, err)
			assert.Equal(t, tt.want, placeIDs(got))
		})
	}
}

func TestDuckDBNearbyMatchesMemory(t *testing.T) {
	ctx := context.Background()

	var places []meet.Place
	for i := range 40 {
		places = append(places, meet.Place{
			ID:       string(rune('A' + i)),
			Location: spatial.Project(gangnam, float64(i*53%360), float64(i)*97),
		})
	}

	db := setupTestDB(t)
	require.NoError(t, db.BulkInsert(ctx, places))

	mem := NewMemorySource()
	require.NoError(t, mem.Add(places...))

	for _, radius := range []float64{300, 1200, 2500} {
		fromDB, err := db.Nearby(ctx, gangnam, radius)
		require.NoError(t, err)

		fromMem, err := mem.Nearby(ctx, gangnam, radius)
		require.NoError(t, err)

		assert.Equal(t, placeIDs(fromMem), placeIDs(fromDB), "radius %v", radius)
	}
}

func TestDuckDBUpsert(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)

	first := ring(100)
	require.NoError(t, src.BulkInsert(ctx, first))

	moved := first[0]
	moved.Name = "moved"
	moved.Location = spatial.Project(gangnam, 180, 300)
	require.NoError(t, src.BulkInsert(ctx, []meet.Place{moved}))

	count, err := src.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := src.Nearby(ctx, gangnam, 1000)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "moved", got[0].Name)
	assert.InDelta(t, moved.Location.Lat, got[0].Location.Lat, 1e-12)
}

func TestDuckDBBulkInsertRollsBack(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)

	places := ring(100, 200)
	places[1].Location.Lat = 123

	err := src.BulkInsert(ctx, places)
	assert.True(t, spatial.IsInvalidInput(err))

	count, err := src.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDuckDBKeepsCategoryDetail(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)

	bar := ring(100)[0]
	bar.CategoryDetail = "음식점 > 술집 > 와인바"
	require.NoError(t, src.BulkInsert(ctx, []meet.Place{bar}))

	got, err := src.Nearby(ctx, gangnam, 500)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "음식점", got[0].CategoryRaw)
	assert.Equal(t, "음식점 > 술집 > 와인바", got[0].CategoryDetail)
	assert.True(t, meet.IsPub(got[0]))
}

func TestDuckDBNearbyErrors(t *testing.T) {
	src := setupTestDB(t)

	_, err := src.Nearby(context.Background(), gangnam, 0)
	assert.True(t, spatial.IsInvalidInput(err))

	_, err = src.Nearby(context.Background(), spatial.Point{Lat: 37, Lng: 200}, 100)
	assert.True(t, spatial.IsInvalidInput(err))
}

func TestDuckDBImportAndStats(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)

	stats, err := src.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Empty(t, stats.ByCategory)

	raws := []RawPlace{
		{ID: "1", PlaceName: "국밥", X: "127.0276", Y: "37.4979", CategoryGroupName: "음식점"},
		{ID: "2", PlaceName: "커피", X: "127.0300", Y: "37.5000", CategoryGroupName: "카페"},
		{ID: "3", PlaceName: "호프", X: "127.0200", Y: "37.4900", CategoryGroupName: "음식점 > 술집"},
		{ID: "4", PlaceName: "좌표없음", X: "", Y: "37.4900"},
		{ID: "1", PlaceName: "국밥 again", X: "127.0276", Y: "37.4979", CategoryGroupName: "음식점"},
	}

	inserted, skipped, err := src.Import(ctx, raws)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)
	assert.Equal(t, 1, skipped)

	stats, err = src.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[meet.Category]int{
		meet.CategoryFood: 1,
		meet.CategoryCafe: 1,
		meet.CategoryPub:  1,
	}, stats.ByCategory)
	assert.InDelta(t, 37.49, stats.Min.Lat, 1e-9)
	assert.InDelta(t, 127.03, stats.Max.Lng, 1e-9)
}

// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/jcodagnone/juntada/meet"
	"github.com/jcodagnone/juntada/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gangnam = spatial.Point{Lat: 37.4979, Lng: 127.0276}

// ring returns places at the given distances north of gangnam.
func ring(distances ...float64) []meet.Place {
	out := make([]meet.Place, 0, len(distances))
	for i, d := range distances {
		out = append(out, meet.Place{
			ID:          string(rune('a' + i)),
			Name:        "place",
			Location:    spatial.Project(gangnam, 0, d),
			CategoryRaw: "음식점",
		})
	}

	return out
}

func placeIDs(places []meet.Place) []string {
	out := make([]string, 0, len(places))
	for _, p := range places {
		out = append(out, p.ID)
	}

	return out
}

func TestMemorySourceNearby(t *testing.T) {
	src := NewMemorySource()
	require.NoError(t, src.Add(ring(900, 100, 1600, 500)...))
	assert.Equal(t, 4, src.Len())

	got, err := src.Nearby(context.Background(), gangnam, 1000)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "a"}, placeIDs(got))

	got, err = src.Nearby(context.Background(), gangnam, 50)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemorySourceFiltersBoxCorners(t *testing.T) {
	src := NewMemorySource()

	// inside the bounding box of a 1km search, outside the circle
	corner := spatial.Project(gangnam, 45, 1300)
	require.NoError(t, src.Add(meet.Place{ID: "corner", Location: corner}))

	got, err := src.Nearby(context.Background(), gangnam, 1000)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemorySourceErrors(t *testing.T) {
	src := NewMemorySource()

	err := src.Add(meet.Place{ID: "x", Location: spatial.Point{Lat: math.NaN()}})
	assert.True(t, spatial.IsInvalidInput(err))
	assert.Zero(t, src.Len())

	_, err = src.Nearby(context.Background(), gangnam, 0)
	assert.True(t, spatial.IsInvalidInput(err))

	_, err = src.Nearby(context.Background(), spatial.Point{Lat: 91}, 100)
	assert.True(t, spatial.IsInvalidInput(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = src.Nearby(ctx, gangnam, 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemorySourceLoadJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantIDs     []string
		wantSkipped int
	}{
		{
			name: "Search response",
			input: `{"meta": {"total_count": 3}, "documents": [
				{"id": "1", "place_name": "하나", "x": "127.0276", "y": "37.4979", "category_group_name": "음식점"},
				{"id": "2", "place_name": "둘", "x": "127.0280", "y": "37.4985", "category_group_name": "카페"},
				{"id": "3", "place_name": "셋", "x": "", "y": "37.4985"}
			]}`,
			wantIDs:     []string{"1", "2"},
			wantSkipped: 1,
		},
		{
			name: "Plain array with duplicates",
			input: `[
				{"id": "1", "place_name": "하나", "x": 127.0276, "y": 37.4979},
				{"id": "1", "place_name": "하나 again", "x": 127.0276, "y": 37.4979}
			]`,
			wantIDs: []string{"1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewMemorySource()

			skipped, err := src.LoadJSON(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSkipped, skipped)

			got, err := src.Nearby(context.Background(), gangnam, 500)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, placeIDs(got))
		})
	}
}

func TestMemorySourceLoadJSONMalformed(t *testing.T) {
	_, err := NewMemorySource().LoadJSON(strings.NewReader(`{"documents": [`))
	assert.Error(t, err)
}

func TestMemorySourceAsPlaceSource(t *testing.T) {
	var _ meet.PlaceSource = NewMemorySource()
	var _ meet.PlaceSource = NewDuckDBSource(nil)
}

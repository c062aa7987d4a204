// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package meet

import (
	"encoding/json"
	"testing"

	"github.com/jcodagnone/juntada/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"Cafe", CategoryCafe},
		{"카페", CategoryCafe},
		{"CAFÉ & Bar", CategoryCafe}, // cafe wins over bar
		{"Wine Bar", CategoryPub},
		{"음식점 > 술집", CategoryPub}, // pub wins over food
		{"주점", CategoryPub},
		{"Restaurant", CategoryFood},
		{"음식점", CategoryFood},
		{"한식 식당", CategoryFood},
		{"노래방", CategoryPlay},
		{"전시관", CategoryPlay},
		{"PC방 게임", CategoryPlay},
		{"테마파크", CategoryPlay},
		{"병원", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.raw))
		})
	}
}

func TestIsPub(t *testing.T) {
	assert.True(t, IsPub(Place{Name: "을지로 호프", CategoryRaw: "음식점"}))
	assert.True(t, IsPub(Place{Name: "Izakaya Moon", CategoryRaw: "음식점 > 일식"}))
	assert.True(t, IsPub(Place{Name: "Moon", CategoryRaw: "음식점 > 술집 > 와인바"}))
	assert.False(t, IsPub(Place{Name: "김밥천국", CategoryRaw: "음식점 > 분식"}))
	assert.True(t, IsPub(Place{Name: "노가리", CategoryRaw: "음식점", CategoryDetail: "음식점 > 술집 > 호프,요리주점"}))
	assert.False(t, IsPub(Place{Name: "국수", CategoryRaw: "음식점", CategoryDetail: "음식점 > 한식 > 국수"}))
}

func TestRankAllPubsInFoodGroup(t *testing.T) {
	places := []Place{
		{ID: "noodles", Name: "국수", Location: spatial.Point{Lat: 37.511, Lng: 127.009}, CategoryRaw: "음식점"},
		{ID: "hof", Name: "을지로 호프", Location: spatial.Point{Lat: 37.513, Lng: 127.007}, CategoryRaw: "음식점"},
		{ID: "wine", Name: "Moon", Location: spatial.Point{Lat: 37.53, Lng: 127.00}, CategoryRaw: "음식점", CategoryDetail: "음식점 > 술집 > 와인바"},
		{ID: "bar", Name: "Sun", Location: spatial.Point{Lat: 37.54, Lng: 127.03}, CategoryRaw: "술집"},
	}

	ranking, err := RankAll(places, pair)
	require.NoError(t, err)

	assert.Equal(t, []string{"noodles", "hof", "wine", "bar"}, scoredIDs(ranking.All))
	assert.Equal(t, []string{"noodles", "hof", "wine"}, scoredIDs(ranking.Food))
	assert.Equal(t, []string{"hof", "wine", "bar"}, scoredIDs(ranking.Pub))
	assert.Equal(t, CategoryFood, ranking.Pub[0].Category)
}

func scenarioPlaces() []Place {
	return []Place{
		{ID: "far", Name: "Far Cafe", Location: spatial.Point{Lat: 37.56, Lng: 127.06}, CategoryRaw: "카페"},
		{ID: "near", Name: "Near Restaurant", Location: spatial.Point{Lat: 37.511, Lng: 127.009}, CategoryRaw: "음식점 > 한식"},
		{ID: "mid", Name: "Mid Pub", Location: spatial.Point{Lat: 37.53, Lng: 127.00}, CategoryRaw: "음식점 > 술집"},
	}
}

func TestRankAllEndToEnd(t *testing.T) {
	center, err := spatial.Midpoint(pair)
	require.NoError(t, err)
	assert.InDelta(t, 37.51, center.Lat, 1e-9)
	assert.InDelta(t, 127.01, center.Lng, 1e-9)

	ranking, err := RankAll(scenarioPlaces(), pair)
	require.NoError(t, err)

	require.Len(t, ranking.All, 3)
	assert.Equal(t, []string{"near", "mid", "far"}, scoredIDs(ranking.All))

	best := ranking.All[0]
	assert.Equal(t, CategoryFood, best.Category)
	require.Len(t, best.Reasons, 2)
	assert.Contains(t, best.Reasons[0], "평균")
	assert.Contains(t, best.Reasons[1], "최장")

	assert.Equal(t, []string{"near"}, scoredIDs(ranking.Food))
	assert.Equal(t, []string{"mid"}, scoredIDs(ranking.Pub))
	assert.Equal(t, []string{"far"}, scoredIDs(ranking.Cafe))
	assert.Empty(t, ranking.Play)
}

func TestRankAllCompleteness(t *testing.T) {
	places := append(scenarioPlaces(),
		Place{ID: "karaoke", Location: spatial.Point{Lat: 37.505, Lng: 127.005}, CategoryRaw: "노래방"},
		Place{ID: "clinic", Location: spatial.Point{Lat: 37.515, Lng: 127.015}, CategoryRaw: "병원"},
		Place{ID: "cafe2", Location: spatial.Point{Lat: 37.512, Lng: 127.012}, CategoryRaw: "Cafe"},
		Place{ID: "hof", Name: "호프", Location: spatial.Point{Lat: 37.508, Lng: 127.013}, CategoryRaw: "음식점"},
	)

	ranking, err := RankAll(places, pair)
	require.NoError(t, err)
	assert.Len(t, ranking.All, len(places))

	for i := 1; i < len(ranking.All); i++ {
		assert.GreaterOrEqual(t, ranking.All[i-1].Score, ranking.All[i].Score)
	}

	for _, key := range RankKeys[1:] {
		sub, ok := ranking.Get(key)
		require.True(t, ok, key)
		assertSubsequence(t, scoredIDs(ranking.All), scoredIDs(sub))

		for _, p := range sub {
			if key == string(CategoryPub) && p.Category == CategoryFood {
				assert.True(t, IsPub(p.Place), p.ID)

				continue
			}

			assert.Equal(t, Category(key), p.Category)
		}
	}

	assert.Contains(t, scoredIDs(ranking.Food), "hof")
	assert.Contains(t, scoredIDs(ranking.Pub), "hof")

	data, err := json.Marshal(ranking)
	require.NoError(t, err)

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))

	for _, key := range RankKeys {
		assert.Contains(t, keys, key)
	}
}

func TestRankAllEmpty(t *testing.T) {
	ranking, err := RankAll(nil, pair)
	require.NoError(t, err)

	data, err := json.Marshal(ranking)
	require.NoError(t, err)
	assert.JSONEq(t, `{"all":[],"food":[],"pub":[],"cafe":[],"play":[]}`, string(data))

	_, ok := ranking.Get("nope")
	assert.False(t, ok)
}

func TestRankAllNoParticipants(t *testing.T) {
	_, err := RankAll(scenarioPlaces(), nil)
	assert.True(t, spatial.IsInvalidInput(err))
}

func TestRankAllStableTies(t *testing.T) {
	// same coordinates, same score
	places := []Place{
		{ID: "b", Location: spatial.Point{Lat: 37.51, Lng: 127.01}},
		{ID: "a", Location: spatial.Point{Lat: 37.51, Lng: 127.01}},
		{ID: "c", Location: spatial.Point{Lat: 37.51, Lng: 127.01}},
	}

	ranking, err := RankAll(places, pair)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, scoredIDs(ranking.All))
}

func TestRankingLimit(t *testing.T) {
	ranking, err := RankAll(scenarioPlaces(), pair)
	require.NoError(t, err)

	limited := ranking.Limit(1)
	assert.Equal(t, []string{"near"}, scoredIDs(limited.All))
	assert.Len(t, limited.Food, 1)
	assert.Equal(t, ranking, ranking.Limit(0))
}

func TestUnique(t *testing.T) {
	places := []Place{
		{ID: "a", Name: "first"},
		{ID: "b"},
		{ID: "a", Name: "second"},
		{Location: spatial.Point{Lat: 1, Lng: 2}, Name: "no id"},
		{Location: spatial.Point{Lat: 1, Lng: 2}, Name: "no id again"},
	}

	got := Unique(places)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "no id", got[2].Name)
	assert.Equal(t, "2,1", got[2].Key())
}

func scoredIDs(places []ScoredPlace) []string {
	out := make([]string, 0, len(places))
	for _, p := range places {
		out = append(out, p.ID)
	}

	return out
}

func assertSubsequence(t *testing.T, seq, sub []string) {
	t.Helper()

	i := 0

	for _, s := range seq {
		if i < len(sub) && sub[i] == s {
			i++
		}
	}

	assert.Equal(t, len(sub), i, "%v is not a subsequence of %v", sub, seq)
}

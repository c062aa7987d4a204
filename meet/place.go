// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

// Package meet ranks places where a group of participants could meet: it clusters
// candidate places into areas, scores each place by how far everybody has to travel
// and builds per-category rankings.
//
// Everything except the Planner is pure computation over values and is safe for
// concurrent use.
package meet

import (
	"fmt"

	"github.com/jcodagnone/juntada/spatial"
)

// Category is the coarse kind of a place.
type Category string

const (
	CategoryFood  Category = "food"
	CategoryPub   Category = "pub"
	CategoryCafe  Category = "cafe"
	CategoryPlay  Category = "play"
	CategoryOther Category = "other"
)

// Place is a candidate point of interest as handed over by a place source.
type Place struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Location    spatial.Point `json:"location"`
	CategoryRaw string        `json:"category_raw"`
	// CategoryDetail is the full category path when the source also sent a coarse
	// group in CategoryRaw, e.g. "음식점 > 술집 > 호프,요리주점" for group "음식점".
	CategoryDetail string `json:"category_detail,omitempty"`
	Address        string `json:"address,omitempty"` // empty when unknown
}

// Key identifies the place for deduplication.
func (p Place) Key() string {
	if p.ID != "" {
		return p.ID
	}

	return fmt.Sprintf("%v,%v", p.Location.Lng, p.Location.Lat)
}

// ScoredPlace is a Place decorated with its category and score.
type ScoredPlace struct {
	Place
	Category Category `json:"category"`
	Score    float64  `json:"score"`
	Reasons  []string `json:"reasons"`
}

// RankKeys are the keys of a Ranking, in display order.
var RankKeys = []string{"all", "food", "pub", "cafe", "play"}

// Ranking holds places sorted by descending score, overall and per category. Every
// list is non-nil so the JSON form always carries the five keys.
type Ranking struct {
	All  []ScoredPlace `json:"all"`
	Food []ScoredPlace `json:"food"`
	Pub  []ScoredPlace `json:"pub"`
	Cafe []ScoredPlace `json:"cafe"`
	Play []ScoredPlace `json:"play"`
}

// Get returns the list stored under one of RankKeys.
func (r Ranking) Get(key string) ([]ScoredPlace, bool) {
	switch key {
	case "all":
		return r.All, true
	case string(CategoryFood):
		return r.Food, true
	case string(CategoryPub):
		return r.Pub, true
	case string(CategoryCafe):
		return r.Cafe, true
	case string(CategoryPlay):
		return r.Play, true
	}

	return nil, false
}

// Limit returns a copy of r where every list keeps at most n places. n <= 0 keeps all.
func (r Ranking) Limit(n int) Ranking {
	if n <= 0 {
		return r
	}

	head := func(l []ScoredPlace) []ScoredPlace {
		if len(l) > n {
			return l[:n:n]
		}

		return l
	}

	return Ranking{
		All:  head(r.All),
		Food: head(r.Food),
		Pub:  head(r.Pub),
		Cafe: head(r.Cafe),
		Play: head(r.Play),
	}
}

// Unique keeps the first occurrence of every place Key, preserving order.
func Unique(places []Place) []Place {
	seen := make(map[string]bool, len(places))
	out := make([]Place, 0, len(places))

	for _, p := range places {
		k := p.Key()
		if seen[k] {
			continue
		}

		seen[k] = true

		out = append(out, p)
	}

	return out
}

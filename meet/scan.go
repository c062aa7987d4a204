// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package meet

import (
	"math"
	"sort"

	"github.com/jcodagnone/juntada/spatial"
)

// Radial scan parameters, in meters.
const (
	minScanStep     = 1200.0
	maxScanStep     = 6000.0
	defaultScanStep = 3000.0
	scanStepFactor  = 0.6

	// a candidate area loses one density point every densityDistance meters away
	// from the midpoint.
	densityDistance = 2000.0
)

// UnnamedArea is the label of a scanned candidate whose name could not be resolved.
const UnnamedArea = "추천지점"

// ScanBearings are the 12 directions scanned around the midpoint.
var ScanBearings = []float64{0, 30, 60, 90, 120, 150, 180, 210, 240, 270, 300, 330}

// CandidateArea is a spot around the midpoint where the group could go.
type CandidateArea struct {
	Name     string        `json:"name"`
	Location spatial.Point `json:"location"`
	Bearing  float64       `json:"bearing"`
	Distance float64       `json:"distance"` // meters from the midpoint
	// Density counts the places within Config.CandidateRadius whose CategoryRaw
	// Categorize maps to CategoryFood. Sources whose labels carry no food tokens
	// (e.g. bare CSV exports) undercount.
	Density int     `json:"density"`
	Score   float64 `json:"score"`
}

// NamedArea is a well-known meeting spot.
type NamedArea struct {
	Name     string        `json:"name"`
	Location spatial.Point `json:"location"`
}

// PopularAreas are Seoul's usual meeting spots, used when a scan finds nothing.
var PopularAreas = []NamedArea{
	{"강남", spatial.Point{Lat: 37.4979, Lng: 127.0276}},
	{"홍대", spatial.Point{Lat: 37.5563, Lng: 126.9236}},
	{"잠실", spatial.Point{Lat: 37.5133, Lng: 127.1028}},
	{"명동", spatial.Point{Lat: 37.5630, Lng: 126.9825}},
	{"신촌", spatial.Point{Lat: 37.5551, Lng: 126.9370}},
	{"건대", spatial.Point{Lat: 37.5406, Lng: 127.0692}},
	{"이태원", spatial.Point{Lat: 37.5345, Lng: 126.9947}},
	{"압구정", spatial.Point{Lat: 37.5264, Lng: 127.0275}},
	{"삼성역", spatial.Point{Lat: 37.5088, Lng: 127.0631}},
	{"잠실새내", spatial.Point{Lat: 37.5139, Lng: 127.0979}},
	{"사당", spatial.Point{Lat: 37.4764, Lng: 126.9813}},
	{"교대", spatial.Point{Lat: 37.4929, Lng: 127.0145}},
}

// ScanStep is how far from the midpoint candidates are scanned: 60% of the mean
// participant distance to the center, clamped to [1200, 6000] meters.
func ScanStep(center spatial.Point, participants []spatial.Point) float64 {
	if len(participants) == 0 {
		return defaultScanStep
	}

	var sum float64
	for _, p := range participants {
		sum += spatial.Distance(center, p)
	}

	avg := sum / float64(len(participants))

	return math.Max(minScanStep, math.Min(maxScanStep, avg*scanStepFactor))
}

// RadialCandidates places one unnamed candidate per ScanBearings entry at step
// meters from center.
func RadialCandidates(center spatial.Point, step float64) []CandidateArea {
	out := make([]CandidateArea, 0, len(ScanBearings))

	for _, brg := range ScanBearings {
		pos := spatial.Project(center, brg, step)
		out = append(out, CandidateArea{
			Name:     UnnamedArea,
			Location: pos,
			Bearing:  brg,
			Distance: spatial.Distance(center, pos),
		})
	}

	return out
}

// RankCandidateAreas scores candidates with density - distance/2000, sorts them by
// descending score (stable) and keeps the first limit. limit <= 0 keeps all.
func RankCandidateAreas(cands []CandidateArea, limit int) []CandidateArea {
	out := make([]CandidateArea, len(cands))
	copy(out, cands)

	for i := range out {
		out[i].Score = float64(out[i].Density) - out[i].Distance/densityDistance
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

// NearestAreas returns the limit areas closest to center as candidates. limit <= 0
// keeps all.
func NearestAreas(center spatial.Point, areas []NamedArea, limit int) []CandidateArea {
	out := make([]CandidateArea, 0, len(areas))

	for _, a := range areas {
		out = append(out, CandidateArea{
			Name:     a.Name,
			Location: a.Location,
			Distance: spatial.Distance(center, a.Location),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

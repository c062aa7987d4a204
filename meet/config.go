// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package meet

import (
	"github.com/jcodagnone/juntada/spatial"
)

// Config tunes the Planner.
type Config struct {
	// Clusters is the k of the k-means over the gathered places.
	Clusters int `json:"clusters"`
	// TopAreas is how many scanned candidates are kept.
	TopAreas int `json:"top_areas"`
	// CandidateRadius is the radius, in meters, used to measure a candidate's density:
	// the number of places around it that Categorize maps to CategoryFood.
	CandidateRadius float64 `json:"candidate_radius"`
	// SearchRadius is the radius, in meters, of the place search around each kept area.
	SearchRadius float64 `json:"search_radius"`
	// Concurrency bounds the simultaneous source queries.
	Concurrency int `json:"concurrency"`
	// Limit caps every ranking list; 0 keeps everything.
	Limit int `json:"limit"`
}

// DefaultConfig mirrors the behaviour of the web client.
func DefaultConfig() Config {
	return Config{
		Clusters:        3,
		TopAreas:        3,
		CandidateRadius: 1200,
		SearchRadius:    1500,
		Concurrency:     4,
		Limit:           0,
	}
}

// Validate rejects settings the Planner cannot work with.
func (c Config) Validate() error {
	switch {
	case c.Clusters < 1:
		return spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "config: clusters must be at least 1, got %d", c.Clusters)
	case c.TopAreas < 1:
		return spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "config: top areas must be at least 1, got %d", c.TopAreas)
	case c.CandidateRadius <= 0:
		return spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "config: candidate radius must be positive, got %v", c.CandidateRadius)
	case c.SearchRadius <= 0:
		return spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "config: search radius must be positive, got %v", c.SearchRadius)
	case c.Concurrency < 1:
		return spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "config: concurrency must be at least 1, got %d", c.Concurrency)
	case c.Limit < 0:
		return spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "config: limit must not be negative, got %d", c.Limit)
	}

	return nil
}

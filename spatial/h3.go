// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"
	"math"

	"github.com/uber/h3-go/v4"
)

const (
	// CoarseResolution is used to pre-filter candidates by neighbourhood.
	CoarseResolution = 6
	// FineResolution is roughly a city block.
	FineResolution = 9
)

// average hexagon edge length in meters per resolution.
var edgeLengths = map[int]float64{
	CoarseResolution: 3724.532667,
	FineResolution:   200.786148,
}

// Cell returns the H3 cell containing p at resolution res.
func Cell(p Point, res int) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
	}

	return int64(cell), nil
}

// Disk returns the cells at resolution res that cover a circle of radius meters
// around center. The cover is conservative: it may include cells slightly outside
// the circle, never miss one inside it.
func Disk(center Point, radius float64, res int) ([]int64, error) {
	edge, ok := edgeLengths[res]
	if !ok {
		return nil, NewInputError(ErrorTypeInvalidArgument, "spatial: unsupported h3 resolution %d", res)
	}

	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, NewInputError(ErrorTypeInvalidArgument, "spatial: invalid radius %v", radius)
	}

	if err := center.Validate(); err != nil {
		return nil, err
	}

	origin, err := h3.LatLngToCell(h3.NewLatLng(center.Lat, center.Lng), res)
	if err != nil {
		return nil, fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
	}

	// ring k sits at least 1.5·k·edge away from the origin; two extra rings absorb
	// the offset of center and target inside their own cells.
	k := int(math.Ceil(radius/(1.5*edge))) + 2

	cells, err := h3.GridDisk(origin, k)
	if err != nil {
		return nil, fmt.Errorf("h3 grid disk k=%d: %w", k, err)
	}

	out := make([]int64, 0, len(cells))
	for _, c := range cells {
		out = append(out, int64(c))
	}

	return out, nil
}

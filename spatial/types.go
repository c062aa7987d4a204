// Copyright 2025 The Juntada Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package spatial holds the geographic primitives: points, great-circle distance,
// projection along a bearing, the participants' midpoint and H3 cell helpers.
package spatial

import (
	"fmt"
	"math"
)

const earthRadius = 6371e3 // meters

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// Validate rejects non-finite coordinates and values outside WGS84 bounds.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return NewInputError(ErrorTypeNonFinite, "spatial: non-finite coordinate (%v, %v)", p.Lat, p.Lng)
	}

	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return NewInputError(ErrorTypeOutOfRange, "spatial: coordinate out of range (%v, %v)", p.Lat, p.Lng)
	}

	return nil
}

// HaversineDistance calculates the distance between two points on Earth in meters.
func (p *Point) HaversineDistance(other *Point) float64 {
	return Distance(*p, *other)
}

// Distance is the great-circle distance in meters between a and b.
func Distance(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	// rounding can push h a hair above 1 for antipodal points
	h = math.Min(1, h)

	return 2 * earthRadius * math.Asin(math.Sqrt(h))
}

// Project returns the point reached by travelling distance meters from origin along
// the great circle with the given initial bearing (0 = north, clockwise).
func Project(origin Point, bearing, distance float64) Point {
	brg := toRadians(math.Mod(math.Mod(bearing, 360)+360, 360))
	lat1 := toRadians(origin.Lat)
	lng1 := toRadians(origin.Lng)
	delta := distance / earthRadius

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(brg))
	lng2 := lng1 + math.Atan2(
		math.Sin(brg)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Point{
		Lat: toDegrees(lat2),
		Lng: normalizeLng(toDegrees(lng2)),
	}
}

// Midpoint is the arithmetic mean of latitudes and of longitudes. It is not a
// geodesic centroid: results degrade near the poles and across the antimeridian.
func Midpoint(points []Point) (Point, error) {
	if len(points) == 0 {
		return Point{}, NewInputError(ErrorTypeEmpty, "spatial: midpoint of zero points")
	}

	var lat, lng float64

	for i, p := range points {
		if err := p.Validate(); err != nil {
			return Point{}, fmt.Errorf("point %d: %w", i, err)
		}

		lat += p.Lat
		lng += p.Lng
	}

	n := float64(len(points))

	return Point{Lat: lat / n, Lng: lng / n}, nil
}

// ValidateAll checks every point, reporting the first offending index.
func ValidateAll(points []Point) error {
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
	}

	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func normalizeLng(lng float64) float64 {
	lng = math.Mod(lng+540, 360) - 180
	if lng == -180 {
		return 180
	}

	return lng
}

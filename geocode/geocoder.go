// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode resolves participant addresses to coordinates and names scanned
// candidate areas.
package geocode

import (
	"context"
	"strings"

	"github.com/jcodagnone/juntada/spatial"
)

// Result is a geocoding answer from any provider.
type Result struct {
	Point       spatial.Point
	Confidence  string // high, medium, low
	Provider    string
	DisplayName string
	// Components maps address component types (e.g. "sublocality_level_1") to names.
	Components map[string]string
}

// Geocoder resolves a free-form address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*Result, error)
}

// ReverseGeocoder describes a coordinate.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, p spatial.Point) (*Result, error)
}

// componentPriority lists, from most to least specific, the components used to name
// an area: the neighborhood and the district in Korean addresses.
var componentPriority = [][]string{
	{"sublocality_level_1", "sublocality_level_2"},
	{"sublocality_level_2"},
	{"sublocality_level_1"},
	{"locality"},
}

// AreaName is a short name for the result, e.g. "강남구 역삼동".
func (r *Result) AreaName() string {
	for _, keys := range componentPriority {
		var parts []string

		for _, k := range keys {
			if v := r.Components[k]; v != "" {
				parts = append(parts, v)
			}
		}

		if len(parts) == len(keys) {
			return strings.Join(parts, " ")
		}
	}

	return r.DisplayName
}

// Namer adapts a ReverseGeocoder to meet.AreaNamer.
type Namer struct {
	Geocoder ReverseGeocoder
}

// NameArea implements meet.AreaNamer.
func (n Namer) NameArea(ctx context.Context, p spatial.Point) (string, error) {
	res, err := n.Geocoder.Reverse(ctx, p)
	if err != nil {
		return "", err
	}

	return res.AreaName(), nil
}

// ResolveAll geocodes every address in order.
func ResolveAll(ctx context.Context, g Geocoder, addresses []string) ([]spatial.Point, error) {
	points := make([]spatial.Point, 0, len(addresses))

	for _, a := range addresses {
		res, err := g.Geocode(ctx, a)
		if err != nil {
			return nil, &GeocodingError{Type: typeOf(err), Message: "resolving " + a, Err: err}
		}

		points = append(points, res.Point)
	}

	return points, nil
}

func typeOf(err error) ErrorType {
	t, _ := errorType(err)

	return t
}

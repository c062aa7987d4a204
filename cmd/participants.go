// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jcodagnone/juntada/geocode"
	"github.com/jcodagnone/juntada/spatial"
)

// parsePoint reads "lat,lng". ok is false when s is not a coordinate pair.
func parsePoint(s string) (p spatial.Point, ok bool) {
	lat, lng, found := strings.Cut(s, ",")
	if !found {
		return p, false
	}

	var err error
	if p.Lat, err = strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return p, false
	}

	if p.Lng, err = strconv.ParseFloat(strings.TrimSpace(lng), 64); err != nil {
		return p, false
	}

	return p, true
}

// resolveParticipants turns arguments into points. Arguments that are not "lat,lng"
// pairs are geocoded; the geocoder is only built when one is needed.
func resolveParticipants(
	ctx context.Context,
	args []string,
	newGeocoder func(context.Context) (*geocode.GoogleMapsGeocoder, error),
) ([]spatial.Point, error) {
	points := make([]spatial.Point, len(args))

	var (
		addresses []string
		indexes   []int
	)

	for i, arg := range args {
		if p, ok := parsePoint(arg); ok {
			points[i] = p

			continue
		}

		addresses = append(addresses, arg)
		indexes = append(indexes, i)
	}

	if len(addresses) == 0 {
		return points, spatial.ValidateAll(points)
	}

	g, err := newGeocoder(ctx)
	if err != nil {
		return nil, err
	}

	resolved, err := geocode.ResolveAll(ctx, g, addresses)
	if err != nil {
		return nil, err
	}

	for j, p := range resolved {
		points[indexes[j]] = p
	}

	return points, spatial.ValidateAll(points)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

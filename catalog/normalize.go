// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog turns place-search documents into meet.Place values and serves
// them back through meet.PlaceSource implementations: an in-memory quadtree and a
// DuckDB table.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jcodagnone/juntada/meet"
	"github.com/jcodagnone/juntada/spatial"
)

// placeNamespace scopes the IDs derived for places that come without one.
var placeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://juntada.dev/place"))

// Coord is a coordinate that place-search APIs send either as a JSON number or as a
// string ("127.0276").
type Coord string

// UnmarshalJSON accepts numbers, strings and null.
func (c *Coord) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*c = Coord(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("coordinate %s: %w", data, err)
		}

		*c = Coord(n.String())
	}

	return nil
}

// Float parses the coordinate.
func (c Coord) Float() (float64, error) {
	if c == "" {
		return 0, spatial.NewInputError(spatial.ErrorTypeEmpty, "missing coordinate")
	}

	v, err := strconv.ParseFloat(string(c), 64)
	if err != nil {
		return 0, &spatial.InputError{
			Type:    spatial.ErrorTypeInvalidArgument,
			Message: fmt.Sprintf("coordinate %q", string(c)),
			Err:     err,
		}
	}

	return v, nil
}

// RawPlace is a place-search document. X is the longitude and Y the latitude.
type RawPlace struct {
	ID                string `json:"id"`
	PlaceName         string `json:"place_name"`
	Name              string `json:"name"`
	X                 Coord  `json:"x"`
	Y                 Coord  `json:"y"`
	CategoryGroupName string `json:"category_group_name"`
	CategoryName      string `json:"category_name"`
	RoadAddressName   string `json:"road_address_name"`
	AddressName       string `json:"address_name"`
}

// Normalize converts a document into a Place. Coordinates must parse and be valid;
// a missing ID is derived from the name and the raw coordinates so the same document
// always gets the same ID.
func Normalize(raw RawPlace) (meet.Place, error) {
	lng, err := raw.X.Float()
	if err != nil {
		return meet.Place{}, fmt.Errorf("place %q: x: %w", raw.displayName(), err)
	}

	lat, err := raw.Y.Float()
	if err != nil {
		return meet.Place{}, fmt.Errorf("place %q: y: %w", raw.displayName(), err)
	}

	loc := spatial.Point{Lat: lat, Lng: lng}
	if err := loc.Validate(); err != nil {
		return meet.Place{}, fmt.Errorf("place %q: %w", raw.displayName(), err)
	}

	name := raw.displayName()

	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = uuid.NewSHA1(placeNamespace, []byte(name+"|"+string(raw.X)+"|"+string(raw.Y))).String()
	}

	category, detail := strings.TrimSpace(raw.CategoryGroupName), strings.TrimSpace(raw.CategoryName)
	if category == "" {
		category = detail
	}

	if detail == category {
		detail = ""
	}

	address := strings.TrimSpace(raw.RoadAddressName)
	if address == "" {
		address = strings.TrimSpace(raw.AddressName)
	}

	return meet.Place{
		ID:             id,
		Name:           name,
		Location:       loc,
		CategoryRaw:    category,
		CategoryDetail: detail,
		Address:        address,
	}, nil
}

// NormalizeAll normalizes every document. With skipInvalid, documents with bad
// coordinates are dropped and counted instead of failing the whole batch.
func NormalizeAll(raws []RawPlace, skipInvalid bool) ([]meet.Place, int, error) {
	places := make([]meet.Place, 0, len(raws))
	skipped := 0

	for i, raw := range raws {
		p, err := Normalize(raw)
		if err != nil {
			if skipInvalid && spatial.IsInvalidInput(err) {
				skipped++

				continue
			}

			return nil, skipped, fmt.Errorf("document %d: %w", i, err)
		}

		places = append(places, p)
	}

	return places, skipped, nil
}

func (r RawPlace) displayName() string {
	if n := strings.TrimSpace(r.PlaceName); n != "" {
		return n
	}

	return strings.TrimSpace(r.Name)
}

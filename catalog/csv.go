// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// CSVOptions describes a place export.
type CSVOptions struct {
	// Encoding is a charset label such as "utf-8", "euc-kr" or "cp949". Empty means utf-8.
	Encoding string
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// headerAliases maps the column names seen in exports to RawPlace fields. Korean
// names are those of the public commercial-district datasets.
var headerAliases = map[string]string{
	"id":                  "id",
	"상가업소번호":              "id",
	"place_name":          "place_name",
	"name":                "place_name",
	"상호명":                 "place_name",
	"x":                   "x",
	"lng":                 "x",
	"lon":                 "x",
	"longitude":           "x",
	"경도":                  "x",
	"y":                   "y",
	"lat":                 "y",
	"latitude":            "y",
	"위도":                  "y",
	"category_group_name": "category_group_name",
	"상권업종대분류명":            "category_group_name",
	"category_name":       "category_name",
	"상권업종중분류명":            "category_name",
	"road_address_name":   "road_address_name",
	"도로명주소":               "road_address_name",
	"address_name":        "address_name",
	"지번주소":                "address_name",
}

// ReadCSV decodes a place export with a header row. Unknown columns are ignored;
// the coordinate columns are required.
func ReadCSV(r io.Reader, opts CSVOptions) ([]RawPlace, error) {
	label := opts.Encoding
	if label == "" {
		label = "utf-8"
	}

	decoded, err := charset.NewReaderLabel(label, r)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", label, err)
	}

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty export: no header row")
		}

		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int)

	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if field, ok := headerAliases[strings.ToLower(h)]; ok {
			if _, seen := columns[field]; !seen {
				columns[field] = i
			}
		}
	}

	for _, required := range []string{"x", "y"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing %s column in header %v", required, header)
		}
	}

	var raws []RawPlace

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}

		get := func(field string) string {
			i, ok := columns[field]
			if !ok || i >= len(record) {
				return ""
			}

			return strings.TrimSpace(record[i])
		}

		raws = append(raws, RawPlace{
			ID:                get("id"),
			PlaceName:         get("place_name"),
			X:                 Coord(get("x")),
			Y:                 Coord(get("y")),
			CategoryGroupName: get("category_group_name"),
			CategoryName:      get("category_name"),
			RoadAddressName:   get("road_address_name"),
			AddressName:       get("address_name"),
		})
	}

	return raws, nil
}

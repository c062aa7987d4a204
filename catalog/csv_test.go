// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
)

const storesCSV = `상가업소번호,상호명,상권업종대분류명,상권업종중분류명,지번주소,도로명주소,경도,위도
MA0101,강남국밥,음식,한식,서울특별시 강남구 역삼동 825,서울특별시 강남구 강남대로 396,127.0276,37.4979
MA0102,"카페, 온화",카페,커피전문점,서울특별시 강남구 역삼동 826,,127.0280,37.4985
`

func TestReadCSVEUCKR(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().String(storesCSV)
	require.NoError(t, err)

	raws, err := ReadCSV(strings.NewReader(encoded), CSVOptions{Encoding: "euc-kr"})
	require.NoError(t, err)

	want := []RawPlace{
		{
			ID:                "MA0101",
			PlaceName:         "강남국밥",
			X:                 "127.0276",
			Y:                 "37.4979",
			CategoryGroupName: "음식",
			CategoryName:      "한식",
			RoadAddressName:   "서울특별시 강남구 강남대로 396",
			AddressName:       "서울특별시 강남구 역삼동 825",
		},
		{
			ID:                "MA0102",
			PlaceName:         "카페, 온화",
			X:                 "127.0280",
			Y:                 "37.4985",
			CategoryGroupName: "카페",
			CategoryName:      "커피전문점",
			AddressName:       "서울특별시 강남구 역삼동 826",
		},
	}

	if diff := cmp.Diff(want, raws); diff != "" {
		t.Errorf("ReadCSV() mismatch (-want +got):\n%s", diff)
	}

	places, skipped, err := NormalizeAll(raws, true)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, "서울특별시 강남구 강남대로 396", places[0].Address)
	assert.Equal(t, "서울특별시 강남구 역삼동 826", places[1].Address)
}

func TestReadCSVTabsAndBOM(t *testing.T) {
	input := "\ufeffname\tlat\tlng\tcategory_group_name\tunused\n" +
		"Moon Bar\t37.5\t127.0\tBar\tx\n" +
		"Short row\t37.6\n"

	raws, err := ReadCSV(strings.NewReader(input), CSVOptions{Comma: '\t'})
	require.NoError(t, err)
	require.Len(t, raws, 2)

	assert.Equal(t, RawPlace{PlaceName: "Moon Bar", X: "127.0", Y: "37.5", CategoryGroupName: "Bar"}, raws[0])
	assert.Equal(t, Coord(""), raws[1].X)
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  CSVOptions
		want  string
	}{
		{"Empty", "", CSVOptions{}, "no header"},
		{"Missing coordinates", "name,lat\nx,1\n", CSVOptions{}, "missing x column"},
		{"Unknown charset", "name,x,y\n", CSVOptions{Encoding: "klingon"}, "charset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), tt.opts)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

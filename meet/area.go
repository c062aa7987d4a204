// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package meet

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jcodagnone/juntada/spatial"
)

// DefaultAreaName is used when nothing better is known about an area.
const DefaultAreaName = "지역"

// AreaLabeler derives the display name of the area a place belongs to.
type AreaLabeler interface {
	Label(p Place) string
}

// LabelerFunc adapts a function to AreaLabeler.
type LabelerFunc func(p Place) string

// Label implements AreaLabeler.
func (f LabelerFunc) Label(p Place) string {
	return f(p)
}

// AddressLabeler reads Korean style addresses ("시/도 구 동 ..."): the 2nd and 3rd
// tokens when there are at least three, the first two when there are two, the lone
// token otherwise. Places without an address fall back to their name, then to Fallback.
type AddressLabeler struct {
	Fallback string
}

// Label implements AreaLabeler.
func (l AddressLabeler) Label(p Place) string {
	fallback := strings.TrimSpace(p.Name)
	if fallback == "" {
		fallback = l.Fallback
	}

	if fallback == "" {
		fallback = DefaultAreaName
	}

	toks := strings.Fields(p.Address)

	switch {
	case len(toks) >= 3:
		return toks[1] + " " + toks[2]
	case len(toks) == 2:
		return toks[0] + " " + toks[1]
	case len(toks) == 1:
		return toks[0]
	default:
		return fallback
	}
}

// AreaRank is a named cluster with its own rankings. AreaScore is the best score of
// Ranks.All, or -Inf when the area has no places.
type AreaRank struct {
	Name      string        `json:"name"`
	Center    spatial.Point `json:"center"`
	Items     []Place       `json:"items"`
	Ranks     Ranking       `json:"ranks"`
	AreaScore float64       `json:"area_score"`
}

// MarshalJSON encodes an infinite AreaScore as null.
func (a AreaRank) MarshalJSON() ([]byte, error) {
	type plain AreaRank

	var score *float64
	if !math.IsInf(a.AreaScore, 0) && !math.IsNaN(a.AreaScore) {
		score = &a.AreaScore
	}

	return json.Marshal(struct {
		plain
		AreaScore *float64 `json:"area_score"`
	}{plain(a), score})
}

// UnmarshalJSON reverses MarshalJSON.
func (a *AreaRank) UnmarshalJSON(data []byte) error {
	type plain AreaRank

	var aux struct {
		plain
		AreaScore *float64 `json:"area_score"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*a = AreaRank(aux.plain)

	a.AreaScore = math.Inf(-1)
	if aux.AreaScore != nil {
		a.AreaScore = *aux.AreaScore
	}

	return nil
}

// BuildAreaRanks ranks clusters with the DefaultScorer and an AddressLabeler.
func BuildAreaRanks(clusters []Cluster, participants []spatial.Point) ([]AreaRank, error) {
	return DefaultScorer().BuildAreaRanks(clusters, participants, AddressLabeler{})
}

// BuildAreaRanks names every cluster after its most frequent label (ties go to the
// label seen first), ranks its places and sorts the areas by descending AreaScore.
// The sort is stable, so ties keep the cluster order.
func (s Scorer) BuildAreaRanks(clusters []Cluster, participants []spatial.Point, labeler AreaLabeler) ([]AreaRank, error) {
	if labeler == nil {
		labeler = AddressLabeler{}
	}

	areas := make([]AreaRank, 0, len(clusters))

	for idx, cl := range clusters {
		ranks, err := s.RankAll(cl.Items, participants)
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", idx+1, err)
		}

		name := majorityLabel(cl.Items, labeler)
		if name == "" {
			name = fmt.Sprintf("%s %d", DefaultAreaName, idx+1)
		}

		score := math.Inf(-1)
		if len(ranks.All) > 0 {
			score = ranks.All[0].Score
		}

		areas = append(areas, AreaRank{
			Name:      name,
			Center:    cl.Center,
			Items:     cl.Items,
			Ranks:     ranks,
			AreaScore: score,
		})
	}

	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].AreaScore > areas[j].AreaScore
	})

	return areas, nil
}

func majorityLabel(places []Place, labeler AreaLabeler) string {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, p := range places {
		label := labeler.Label(p)
		if _, ok := counts[label]; !ok {
			order = append(order, label)
		}

		counts[label]++
	}

	name, best := "", 0

	for _, label := range order {
		if counts[label] > best {
			name, best = label, counts[label]
		}
	}

	return name
}

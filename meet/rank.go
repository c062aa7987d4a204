// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package meet

import (
	"sort"

	"github.com/jcodagnone/juntada/spatial"
)

// RankAll ranks places with the DefaultScorer.
func RankAll(places []Place, participants []spatial.Point) (Ranking, error) {
	return DefaultScorer().RankAll(places, participants)
}

// RankAll categorizes and scores every place, then sorts them by descending score.
// The sort is stable: equal scores keep their input order. Category lists are
// filtered from All and keep its order. Food places that look like pubs (see IsPub)
// are listed under both Food and Pub.
func (s Scorer) RankAll(places []Place, participants []spatial.Point) (Ranking, error) {
	scored := make([]ScoredPlace, 0, len(places))

	for _, p := range places {
		sc, err := s.Score(p, participants)
		if err != nil {
			return Ranking{}, err
		}

		scored = append(scored, ScoredPlace{
			Place:    p,
			Category: Categorize(p.CategoryRaw),
			Score:    sc.Total,
			Reasons:  sc.Reasons,
		})
	}

	return rankScored(scored), nil
}

func rankScored(scored []ScoredPlace) Ranking {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	filter := func(keep func(ScoredPlace) bool) []ScoredPlace {
		out := make([]ScoredPlace, 0)

		for _, p := range scored {
			if keep(p) {
				out = append(out, p)
			}
		}

		return out
	}

	by := func(c Category) []ScoredPlace {
		return filter(func(p ScoredPlace) bool { return p.Category == c })
	}

	pubs := filter(func(p ScoredPlace) bool {
		return p.Category == CategoryPub || (p.Category == CategoryFood && IsPub(p.Place))
	})

	return Ranking{
		All:  scored,
		Food: by(CategoryFood),
		Pub:  pubs,
		Cafe: by(CategoryCafe),
		Play: by(CategoryPlay),
	}
}

// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package meet

import (
	"fmt"

	"github.com/jcodagnone/juntada/spatial"
)

// kMeansIterations is fixed; there is no convergence check.
const kMeansIterations = 8

// Cluster is a group of places around a centroid. Items is never empty.
type Cluster struct {
	Center spatial.Point `json:"center"`
	Items  []Place       `json:"items"`
}

// KMeans groups places into at most k clusters with Lloyd's algorithm on the
// (lng, lat) plane.
//
// Seeds are the first min(k, len(places)) places in input order and the loop runs
// exactly kMeansIterations times, so the output is fully determined by the input
// order. A center that loses all its points keeps its previous position and
// clusters left empty at the end are dropped. Places keep their input order inside
// each cluster.
func KMeans(places []Place, k int) ([]Cluster, error) {
	if k < 1 {
		return nil, spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "kmeans: k must be at least 1, got %d", k)
	}

	for i, p := range places {
		if err := p.Location.Validate(); err != nil {
			return nil, fmt.Errorf("place %d (%q): %w", i, p.Name, err)
		}
	}

	n := len(places)
	if n == 0 {
		return []Cluster{}, nil
	}

	kk := min(k, n)

	// x = lng, y = lat
	centers := make([][2]float64, kk)
	for c := range centers {
		centers[c] = [2]float64{places[c].Location.Lng, places[c].Location.Lat}
	}

	assign := make([]int, n)

	for range kMeansIterations {
		for i, p := range places {
			best, bestDist := 0, -1.0

			for c, center := range centers {
				dx := p.Location.Lng - center[0]
				dy := p.Location.Lat - center[1]

				if d := dx*dx + dy*dy; bestDist < 0 || d < bestDist {
					best, bestDist = c, d
				}
			}

			assign[i] = best
		}

		sums := make([][3]float64, kk) // x sum, y sum, count
		for i, p := range places {
			s := &sums[assign[i]]
			s[0] += p.Location.Lng
			s[1] += p.Location.Lat
			s[2]++
		}

		for c, s := range sums {
			if s[2] > 0 {
				centers[c] = [2]float64{s[0] / s[2], s[1] / s[2]}
			}
		}
	}

	clusters := make([]Cluster, kk)
	for i, p := range places {
		clusters[assign[i]].Items = append(clusters[assign[i]].Items, p)
	}

	out := make([]Cluster, 0, kk)

	for c, cl := range clusters {
		if len(cl.Items) == 0 {
			continue
		}

		cl.Center = spatial.Point{Lat: centers[c][1], Lng: centers[c][0]}
		out = append(out, cl)
	}

	return out, nil
}

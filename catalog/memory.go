// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/asim/quadtree"
	"github.com/jcodagnone/juntada/meet"
	"github.com/jcodagnone/juntada/spatial"
)

// MemorySource is a meet.PlaceSource over a quadtree. It is safe for concurrent use.
type MemorySource struct {
	mu    sync.RWMutex
	tree  *quadtree.QuadTree
	count int
}

// NewMemorySource returns an empty source covering the whole globe.
func NewMemorySource() *MemorySource {
	// x is the latitude, y the longitude
	center := quadtree.NewPoint(0, 0, nil)
	half := quadtree.NewPoint(90, 180, nil)

	return &MemorySource{tree: quadtree.New(quadtree.NewAABB(center, half), 0, nil)}
}

// Add indexes places. Invalid locations are rejected before anything is inserted.
func (m *MemorySource) Add(places ...meet.Place) error {
	for i := range places {
		if err := places[i].Location.Validate(); err != nil {
			return fmt.Errorf("place %q: %w", places[i].Key(), err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range places {
		if m.tree.Insert(quadtree.NewPoint(p.Location.Lat, p.Location.Lng, p)) {
			m.count++
		}
	}

	return nil
}

// Len is the number of indexed places.
func (m *MemorySource) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.count
}

// Nearby returns the places within radius meters of center, closest first.
func (m *MemorySource) Nearby(ctx context.Context, center spatial.Point, radius float64) ([]meet.Place, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}

	if radius <= 0 {
		return nil, spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "radius must be positive, got %v", radius)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := quadtree.NewPoint(center.Lat, center.Lng, nil)
	boundary := quadtree.NewAABB(c, c.HalfPoint(radius))

	m.mu.RLock()
	points := m.tree.Search(boundary)
	m.mu.RUnlock()

	type hit struct {
		place meet.Place
		dist  float64
	}

	hits := make([]hit, 0, len(points))

	for _, pt := range points {
		p, ok := pt.Data().(meet.Place)
		if !ok {
			continue
		}

		// the bounding box is approximate
		d := spatial.Distance(center, p.Location)
		if d > radius {
			continue
		}

		hits = append(hits, hit{p, d})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}

		return hits[i].place.Key() < hits[j].place.Key()
	})

	out := make([]meet.Place, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.place)
	}

	return out, nil
}

// searchResponse is the envelope of a place-search API answer.
type searchResponse struct {
	Documents []RawPlace `json:"documents"`
}

// DecodeDocuments reads either a JSON array of documents or a search response with
// a "documents" field.
func DecodeDocuments(r io.Reader) ([]RawPlace, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var raws []RawPlace
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("decoding documents: %w", err)
		}

		return raws, nil
	}

	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	return resp.Documents, nil
}

// LoadJSON decodes documents from r, normalizes them and indexes them. It returns
// how many documents were skipped for bad coordinates.
func (m *MemorySource) LoadJSON(r io.Reader) (int, error) {
	raws, err := DecodeDocuments(r)
	if err != nil {
		return 0, err
	}

	places, skipped, err := NormalizeAll(raws, true)
	if err != nil {
		return skipped, err
	}

	return skipped, m.Add(meet.Unique(places)...)
}

// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package meet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jcodagnone/juntada/spatial"
	"golang.org/x/sync/errgroup"
)

// PlaceSource supplies candidate places. Implementations may perform I/O.
type PlaceSource interface {
	Nearby(ctx context.Context, center spatial.Point, radius float64) ([]Place, error)
}

// AreaNamer resolves a human name for a scanned candidate, e.g. by reverse geocoding.
type AreaNamer interface {
	NameArea(ctx context.Context, p spatial.Point) (string, error)
}

// ProgressFunc is called once per finished source query.
type ProgressFunc func(done, total int)

// Participant is a participant location with its distance to the midpoint.
type Participant struct {
	Location spatial.Point `json:"location"`
	Distance float64       `json:"distance"`
}

// Plan is the full answer for a group.
type Plan struct {
	Midpoint     spatial.Point   `json:"midpoint"`
	Participants []Participant   `json:"participants"`
	Step         float64         `json:"step"`
	Fallback     bool            `json:"fallback"` // candidates come from PopularAreas
	Candidates   []CandidateArea `json:"candidates"`
	Areas        []AreaRank      `json:"areas"`
	Ranking      Ranking         `json:"ranking"`
}

// Planner runs the whole flow: midpoint, radial scan, place gathering, clustering
// and ranking.
type Planner struct {
	Source   PlaceSource
	Scorer   Scorer
	Labeler  AreaLabeler
	Namer    AreaNamer // optional
	Config   Config
	Progress ProgressFunc // optional
}

// NewPlanner returns a Planner with the default scorer, labeler and config.
func NewPlanner(source PlaceSource) *Planner {
	return &Planner{
		Source:  source,
		Scorer:  DefaultScorer(),
		Labeler: AddressLabeler{},
		Config:  DefaultConfig(),
	}
}

// Plan computes a Plan for participants. A failed density query only zeroes that
// candidate, so a scan where every query fails or finds nothing yields a plan with
// PopularAreas candidates. Failures while gathering places abort the plan.
func (pl *Planner) Plan(ctx context.Context, participants []spatial.Point) (*Plan, error) {
	if pl.Source == nil {
		return nil, errors.New("planner: no place source")
	}

	if err := pl.Config.Validate(); err != nil {
		return nil, err
	}

	center, err := spatial.Midpoint(participants)
	if err != nil {
		return nil, fmt.Errorf("midpoint: %w", err)
	}

	plan := &Plan{
		Midpoint:     center,
		Participants: make([]Participant, 0, len(participants)),
		Step:         ScanStep(center, participants),
	}

	for _, p := range participants {
		plan.Participants = append(plan.Participants, Participant{Location: p, Distance: spatial.Distance(p, center)})
	}

	cands := RadialCandidates(center, plan.Step)
	tracker := &progress{fn: pl.Progress, total: len(cands) + min(pl.Config.TopAreas, len(cands))}

	if err := pl.measureDensity(ctx, cands, tracker); err != nil {
		return nil, err
	}

	top := RankCandidateAreas(cands, pl.Config.TopAreas)
	if !anyDensity(top) {
		log.Printf("⚠️  No places found around %v, falling back to popular areas", center)

		plan.Fallback = true
		top = NearestAreas(center, PopularAreas, pl.Config.TopAreas)
	} else {
		pl.nameAreas(ctx, top)
	}

	plan.Candidates = top
	tracker.setTotal(len(cands) + len(top))

	places, err := pl.gather(ctx, top, tracker)
	if err != nil {
		return nil, err
	}

	clusters, err := KMeans(places, pl.Config.Clusters)
	if err != nil {
		return nil, fmt.Errorf("clustering: %w", err)
	}

	areas, err := pl.Scorer.BuildAreaRanks(clusters, participants, pl.Labeler)
	if err != nil {
		return nil, fmt.Errorf("area ranks: %w", err)
	}

	ranking, err := pl.Scorer.RankAll(places, participants)
	if err != nil {
		return nil, fmt.Errorf("ranking: %w", err)
	}

	for i := range areas {
		areas[i].Ranks = areas[i].Ranks.Limit(pl.Config.Limit)
	}

	plan.Areas = areas
	plan.Ranking = ranking.Limit(pl.Config.Limit)

	return plan, nil
}

// measureDensity counts food places around every candidate, in parallel. A failed
// query leaves that candidate at zero density; only cancellation of ctx is an error.
func (pl *Planner) measureDensity(ctx context.Context, cands []CandidateArea, tracker *progress) error {
	var g errgroup.Group
	g.SetLimit(pl.Config.Concurrency)

	for i := range cands {
		g.Go(func() error {
			defer tracker.done()

			places, err := pl.Source.Nearby(ctx, cands[i].Location, pl.Config.CandidateRadius)
			if err != nil {
				log.Printf("⚠️  Density scan at bearing %v failed: %v", cands[i].Bearing, err)

				return nil
			}

			for _, p := range places {
				if Categorize(p.CategoryRaw) == CategoryFood {
					cands[i].Density++
				}
			}

			return nil
		})
	}

	_ = g.Wait()

	return ctx.Err()
}

// gather collects the places around every kept area, deduplicated in area order.
func (pl *Planner) gather(ctx context.Context, areas []CandidateArea, tracker *progress) ([]Place, error) {
	results := make([][]Place, len(areas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pl.Config.Concurrency)

	for i := range areas {
		g.Go(func() error {
			places, err := pl.Source.Nearby(gctx, areas[i].Location, pl.Config.SearchRadius)
			if err != nil {
				return fmt.Errorf("searching around %s: %w", areas[i].Name, err)
			}

			results[i] = places

			tracker.done()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Place
	for _, r := range results {
		all = append(all, r...)
	}

	return Unique(all), nil
}

func (pl *Planner) nameAreas(ctx context.Context, areas []CandidateArea) {
	if pl.Namer == nil {
		return
	}

	for i := range areas {
		name, err := pl.Namer.NameArea(ctx, areas[i].Location)
		if err != nil {
			log.Printf("Failed to name area at %v: %v", areas[i].Location, err)

			continue
		}

		if name != "" {
			areas[i].Name = name
		}
	}
}

func anyDensity(cands []CandidateArea) bool {
	for _, c := range cands {
		if c.Density > 0 {
			return true
		}
	}

	return false
}

type progress struct {
	mu    sync.Mutex
	fn    ProgressFunc
	count int
	total int
}

func (p *progress) done() {
	if p.fn == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.count++
	p.fn(p.count, p.total)
}

func (p *progress) setTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
}

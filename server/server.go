// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the planner and the ranking functions as a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jcodagnone/juntada/catalog"
	"github.com/jcodagnone/juntada/geocode"
	"github.com/jcodagnone/juntada/meet"
	"github.com/jcodagnone/juntada/spatial"
)

// RequestIDHeader carries the ID of every request and response.
const RequestIDHeader = "X-Request-ID"

// Server answers plan and ranking requests.
type Server struct {
	planner  *meet.Planner
	geocoder geocode.Geocoder // optional, resolves participant addresses
}

// NewServer returns a server planning with planner. geocoder may be nil, in which
// case participants must be given as coordinates.
func NewServer(planner *meet.Planner, geocoder geocode.Geocoder) *Server {
	return &Server{planner: planner, geocoder: geocoder}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.Use(requestID())

	r.GET("/api/health", s.health)
	r.GET("/api/areas/popular", s.popularAreas)
	r.POST("/api/midpoint", s.midpoint)
	r.POST("/api/rank", s.rank)
	r.POST("/api/plan", s.plan)

	return r
}

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("🚀 Listening on http://%s", addr)

	return s.Router().Run(addr)
}

func requestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		ctx.Set("request_id", id)
		ctx.Header(RequestIDHeader, id)
		ctx.Next()
	}
}

// ParticipantInput is a participant given either by coordinates or by address.
type ParticipantInput struct {
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Address string   `json:"address,omitempty"`
}

type participantsRequest struct {
	Participants []ParticipantInput `json:"participants"`
}

type rankRequest struct {
	participantsRequest
	Places    []meet.Place       `json:"places"`
	Documents []catalog.RawPlace `json:"documents"`
	Limit     int                `json:"limit"`
}

type planRequest struct {
	participantsRequest
	Clusters     *int     `json:"clusters,omitempty"`
	TopAreas     *int     `json:"top_areas,omitempty"`
	SearchRadius *float64 `json:"search_radius,omitempty"`
	Limit        *int     `json:"limit,omitempty"`
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) popularAreas(ctx *gin.Context) {
	if ctx.Query("lat") == "" && ctx.Query("lng") == "" {
		ctx.JSON(http.StatusOK, meet.PopularAreas)

		return
	}

	var center spatial.Point
	if _, err := fmt.Sscanf(ctx.Query("lat")+" "+ctx.Query("lng"), "%g %g", &center.Lat, &center.Lng); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng must be numbers"})

		return
	}

	if err := center.Validate(); err != nil {
		s.fail(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, meet.NearestAreas(center, meet.PopularAreas, s.planner.Config.TopAreas))
}

func (s *Server) midpoint(ctx *gin.Context) {
	var req participantsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	participants, err := s.resolve(ctx.Request.Context(), req.Participants)
	if err != nil {
		s.fail(ctx, err)

		return
	}

	center, err := spatial.Midpoint(participants)
	if err != nil {
		s.fail(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"midpoint":     center,
		"participants": participants,
		"step":         meet.ScanStep(center, participants),
	})
}

func (s *Server) rank(ctx *gin.Context) {
	var req rankRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	scorer, err := s.scorer(ctx.Query("lang"))
	if err != nil {
		s.fail(ctx, err)

		return
	}

	participants, err := s.resolve(ctx.Request.Context(), req.Participants)
	if err != nil {
		s.fail(ctx, err)

		return
	}

	places := req.Places

	if len(req.Documents) > 0 {
		normalized, skipped, err := catalog.NormalizeAll(req.Documents, true)
		if err != nil {
			s.fail(ctx, err)

			return
		}

		if skipped > 0 {
			log.Printf("Request %s: skipped %d documents without valid coordinates", ctx.GetString("request_id"), skipped)
		}

		places = append(places, normalized...)
	}

	ranking, err := scorer.RankAll(meet.Unique(places), participants)
	if err != nil {
		s.fail(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, ranking.Limit(req.Limit))
}

func (s *Server) plan(ctx *gin.Context) {
	var req planRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	scorer, err := s.scorer(ctx.Query("lang"))
	if err != nil {
		s.fail(ctx, err)

		return
	}

	participants, err := s.resolve(ctx.Request.Context(), req.Participants)
	if err != nil {
		s.fail(ctx, err)

		return
	}

	pl := *s.planner
	pl.Scorer = scorer

	if req.Clusters != nil {
		pl.Config.Clusters = *req.Clusters
	}

	if req.TopAreas != nil {
		pl.Config.TopAreas = *req.TopAreas
	}

	if req.SearchRadius != nil {
		pl.Config.SearchRadius = *req.SearchRadius
	}

	if req.Limit != nil {
		pl.Config.Limit = *req.Limit
	}

	plan, err := pl.Plan(ctx.Request.Context(), participants)
	if err != nil {
		s.fail(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, plan)
}

func (s *Server) scorer(lang string) (meet.Scorer, error) {
	scorer := s.planner.Scorer
	if lang == "" {
		return scorer, nil
	}

	f, err := meet.Formatter(lang)
	if err != nil {
		return scorer, err
	}

	scorer.Formatter = f

	return scorer, nil
}

// resolve turns the inputs into points, geocoding addresses when a geocoder is set.
func (s *Server) resolve(ctx context.Context, inputs []ParticipantInput) ([]spatial.Point, error) {
	points := make([]spatial.Point, 0, len(inputs))

	for i, in := range inputs {
		switch {
		case in.Lat != nil && in.Lng != nil:
			points = append(points, spatial.Point{Lat: *in.Lat, Lng: *in.Lng})
		case in.Address != "" && s.geocoder != nil:
			res, err := s.geocoder.Geocode(ctx, in.Address)
			if err != nil {
				return nil, fmt.Errorf("participant %d (%s): %w", i, in.Address, err)
			}

			points = append(points, res.Point)
		case in.Address != "":
			return nil, spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "participant %d: addresses need a geocoder, send lat and lng", i)
		default:
			return nil, spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "participant %d: lat and lng are required", i)
		}
	}

	return points, nil
}

// fail writes err with the status its kind deserves.
func (s *Server) fail(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case spatial.IsInvalidInput(err):
		status = http.StatusBadRequest
	case geocode.IsNotFoundError(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		log.Printf("Request %s failed: %v", ctx.GetString("request_id"), err)
	}

	ctx.JSON(status, gin.H{"error": err.Error(), "request_id": ctx.GetString("request_id")})
}

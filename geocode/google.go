// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jcodagnone/juntada/spatial"
)

// DefaultBaseURL is the Google Maps Geocoding API endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// GoogleMapsGeocoder uses the Google Maps Geocoding API.
type GoogleMapsGeocoder struct {
	apiKey     string
	baseURL    string
	region     string
	language   string
	httpClient *http.Client
}

// Option customizes a GoogleMapsGeocoder.
type Option func(*GoogleMapsGeocoder)

// WithBaseURL points the geocoder to another endpoint.
func WithBaseURL(u string) Option {
	return func(g *GoogleMapsGeocoder) { g.baseURL = u }
}

// WithHTTPClient replaces the default client, e.g. to trace requests.
func WithHTTPClient(c *http.Client) Option {
	return func(g *GoogleMapsGeocoder) { g.httpClient = c }
}

// WithRegion sets the region bias (ccTLD) and the answer language.
func WithRegion(region, language string) Option {
	return func(g *GoogleMapsGeocoder) {
		g.region = region
		g.language = language
	}
}

// NewGoogleMapsGeocoder creates a geocoder biased to Korea.
func NewGoogleMapsGeocoder(apiKey string, opts ...Option) *GoogleMapsGeocoder {
	g := &GoogleMapsGeocoder{
		apiKey:   apiKey,
		baseURL:  DefaultBaseURL,
		region:   "kr",
		language: "ko",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

type googleMapsResponse struct {
	Results []struct {
		AddressComponents []struct {
			LongName string   `json:"long_name"`
			Types    []string `json:"types"`
		} `json:"address_components"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
			LocationType string `json:"location_type"` // ROOFTOP, RANGE_INTERPOLATED, GEOMETRIC_CENTER, APPROXIMATE
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status       string `json:"status"` // OK, ZERO_RESULTS, etc.
	ErrorMessage string `json:"error_message"`
}

// Geocode implements Geocoder.
func (g *GoogleMapsGeocoder) Geocode(ctx context.Context, address string) (*Result, error) {
	params := url.Values{}
	params.Set("address", address)

	return g.query(ctx, params)
}

// Reverse implements ReverseGeocoder.
func (g *GoogleMapsGeocoder) Reverse(ctx context.Context, p spatial.Point) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("latlng", strconv.FormatFloat(p.Lat, 'f', -1, 64)+","+strconv.FormatFloat(p.Lng, 'f', -1, 64))
	params.Set("result_type", "sublocality|political")

	return g.query(ctx, params)
}

func (g *GoogleMapsGeocoder) query(ctx context.Context, params url.Values) (*Result, error) {
	if g.apiKey == "" {
		return nil, &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "no google maps api key"}
	}

	params.Set("key", g.apiKey)

	if g.region != "" {
		params.Set("region", g.region)
	}

	if g.language != "" {
		params.Set("language", g.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building geocoding request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &GeocodingError{Type: ErrorTypeNetworkError, Message: "geocoding request failed", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode)
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if gmResp.Status != "OK" {
		return nil, ClassifyStatus(gmResp.Status, gmResp.ErrorMessage)
	}

	if len(gmResp.Results) == 0 {
		return nil, &GeocodingError{Type: ErrorTypeNotFound, Message: "no results"}
	}

	result := gmResp.Results[0]

	confidence := "low"

	switch result.Geometry.LocationType {
	case "ROOFTOP", "RANGE_INTERPOLATED":
		confidence = "high"
	case "GEOMETRIC_CENTER":
		confidence = "medium"
	}

	components := make(map[string]string)

	for _, c := range result.AddressComponents {
		for _, t := range c.Types {
			if _, ok := components[t]; !ok {
				components[t] = c.LongName
			}
		}
	}

	return &Result{
		Point:       spatial.Point{Lat: result.Geometry.Location.Lat, Lng: result.Geometry.Location.Lng},
		Confidence:  confidence,
		Provider:    "google_maps",
		DisplayName: result.FormattedAddress,
		Components:  components,
	}, nil
}

// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package meet

import (
	"fmt"
	"math"

	"github.com/jcodagnone/juntada/spatial"
)

// Weights of the travel burden. Alpha multiplies the sum of every participant's
// distance, Beta the distance of the worst-off participant.
type Weights struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// DefaultWeights are tunable, not physical, constants.
var DefaultWeights = Weights{Alpha: 1.0, Beta: 0.35}

// DefaultMetersPerMinute turns straight-line meters into "minutes". It is a rough
// walking-ish pace, not a travel-time model.
const DefaultMetersPerMinute = 60.0

// ReasonFormatter renders the human-readable justification of a score.
type ReasonFormatter interface {
	Reasons(avgMinutes, maxMinutes int) []string
}

// MinutesFormatter renders "<Average> <n><Unit>" and "<Longest> <n><Unit>".
type MinutesFormatter struct {
	Average string
	Longest string
	Unit    string
}

var (
	// KoreanMinutes renders "평균 12분", "최장 20분".
	KoreanMinutes = MinutesFormatter{Average: "평균", Longest: "최장", Unit: "분"}
	// EnglishMinutes renders "avg 12 min", "max 20 min".
	EnglishMinutes = MinutesFormatter{Average: "avg", Longest: "max", Unit: " min"}
)

// Reasons implements ReasonFormatter.
func (f MinutesFormatter) Reasons(avgMinutes, maxMinutes int) []string {
	return []string{
		fmt.Sprintf("%s %d%s", f.Average, avgMinutes, f.Unit),
		fmt.Sprintf("%s %d%s", f.Longest, maxMinutes, f.Unit),
	}
}

// Formatter returns the ReasonFormatter registered under lang ("ko" or "en").
func Formatter(lang string) (ReasonFormatter, error) {
	switch lang {
	case "", "ko":
		return KoreanMinutes, nil
	case "en":
		return EnglishMinutes, nil
	}

	return nil, spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "unknown reasons language %q", lang)
}

// Scorer rates places against a group of participants. The zero value is not usable;
// start from DefaultScorer.
type Scorer struct {
	Weights         Weights
	MetersPerMinute float64
	Formatter       ReasonFormatter
}

// DefaultScorer uses DefaultWeights, DefaultMetersPerMinute and Korean reasons.
func DefaultScorer() Scorer {
	return Scorer{
		Weights:         DefaultWeights,
		MetersPerMinute: DefaultMetersPerMinute,
		Formatter:       KoreanMinutes,
	}
}

// Score is the outcome of scoring one place. Higher Total is better; it is never
// positive.
type Score struct {
	Total      float64
	Reasons    []string
	AvgMinutes int
	MaxMinutes int
}

// Score computes -(α·Σd + β·max d) where d are the great-circle distances from each
// participant to the place.
func (s Scorer) Score(place Place, participants []spatial.Point) (Score, error) {
	if len(participants) == 0 {
		return Score{}, spatial.NewInputError(spatial.ErrorTypeEmpty, "score %q: no participants", place.Name)
	}

	if s.MetersPerMinute <= 0 || math.IsNaN(s.MetersPerMinute) || math.IsInf(s.MetersPerMinute, 0) {
		return Score{}, spatial.NewInputError(spatial.ErrorTypeInvalidArgument, "score: invalid meters per minute %v", s.MetersPerMinute)
	}

	if err := place.Location.Validate(); err != nil {
		return Score{}, fmt.Errorf("place %q: %w", place.Name, err)
	}

	if err := spatial.ValidateAll(participants); err != nil {
		return Score{}, fmt.Errorf("participants: %w", err)
	}

	var sum, longest float64

	for _, u := range participants {
		d := spatial.Distance(u, place.Location)
		sum += d
		longest = math.Max(longest, d)
	}

	formatter := s.Formatter
	if formatter == nil {
		formatter = KoreanMinutes
	}

	avgMinutes := int(math.Round(sum / float64(len(participants)) / s.MetersPerMinute))
	maxMinutes := int(math.Round(longest / s.MetersPerMinute))

	return Score{
		Total:      -(s.Weights.Alpha*sum + s.Weights.Beta*longest),
		Reasons:    formatter.Reasons(avgMinutes, maxMinutes),
		AvgMinutes: avgMinutes,
		MaxMinutes: maxMinutes,
	}, nil
}

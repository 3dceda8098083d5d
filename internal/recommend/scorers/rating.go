// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package scorers

import (
	"math"

	"github.com/tomtom215/meeplerank/internal/models"
)

// RatingScorer normalizes the Bayesian community rating against the range
// observed across the club's own rated games.
type RatingScorer struct {
	min, max float64
	neutral  float64
}

// NewRatingScorer computes the rating range over owned games. neutral is
// returned for every rated game when the range is degenerate.
func NewRatingScorer(games []*models.Game, neutral float64) *RatingScorer {
	s := &RatingScorer{
		min:     math.Inf(1),
		max:     math.Inf(-1),
		neutral: neutral,
	}
	for _, g := range games {
		r, ok := rating(g)
		if !ok || !g.OwnedByClub {
			continue
		}
		s.min = math.Min(s.min, r)
		s.max = math.Max(s.max, r)
	}
	return s
}

// Range returns the observed min and max. ok is false when fewer than two
// distinct ratings were seen.
func (s *RatingScorer) Range() (lo, hi float64, ok bool) {
	return s.min, s.max, s.max > s.min
}

// Score returns a value in [0, 1] for each rated game. Unrated games are omitted.
func (s *RatingScorer) Score(games []*models.Game) Signal {
	out := newSignal(len(games))
	_, _, spread := s.Range()
	for _, g := range games {
		r, ok := rating(g)
		if !ok {
			continue
		}
		if !spread {
			out.Scores[g.ID] = s.neutral
			continue
		}
		out.Scores[g.ID] = clamp01((r - s.min) / (s.max - s.min))
	}
	return out
}

// rating treats a zero rating as "not rated", the way the community
// database reports games without enough votes.
func rating(g *models.Game) (float64, bool) {
	if g.BayesAverageRating == nil || *g.BayesAverageRating <= 0 {
		return 0, false
	}
	return *g.BayesAverageRating, true
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

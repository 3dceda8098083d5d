// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package scorers

import (
	"time"

	"github.com/tomtom215/meeplerank/internal/models"
)

const daysPerMonth = 30

// RecencyOptions configures the recency boost.
type RecencyOptions struct {
	Now time.Time

	// RecentWindowDays is how long a newly acquired game stays boosted.
	RecentWindowDays int

	NewGameScore             float64
	PlayedLastMonthScore     float64
	PlayedLastSixMonthsScore float64
}

// RecencyScorer boosts games that were recently acquired or played.
type RecencyScorer struct {
	opts RecencyOptions
}

// NewRecencyScorer returns a scorer evaluated against opts.Now.
func NewRecencyScorer(opts RecencyOptions) *RecencyScorer {
	return &RecencyScorer{opts: opts}
}

// daysSince returns the elapsed days between d (midnight, in the clock's
// location) and now. ok is false for absent or malformed days.
func (s *RecencyScorer) daysSince(d models.Day) (float64, bool) {
	t, ok := d.Time(s.opts.Now.Location())
	if !ok {
		return 0, false
	}
	return s.opts.Now.Sub(t).Hours() / 24, true
}

// Score applies, in order: acquired within the recent window, played within
// one month, played within six months. Other games are omitted.
func (s *RecencyScorer) Score(games []*models.Game) Signal {
	out := newSignal(len(games))
	for _, g := range games {
		if days, ok := s.daysSince(g.OwnedSince); ok && days <= float64(s.opts.RecentWindowDays) {
			out.Scores[g.ID] = s.opts.NewGameScore
			out.Relevant[g.ID] = true
			continue
		}

		days, ok := s.daysSince(g.LastPlayed)
		if !ok {
			continue
		}
		months := days / daysPerMonth
		switch {
		case months <= 1:
			out.Scores[g.ID] = s.opts.PlayedLastMonthScore
			out.Relevant[g.ID] = true
		case months <= 6:
			out.Scores[g.ID] = s.opts.PlayedLastSixMonthsScore
		}
	}
	return out
}

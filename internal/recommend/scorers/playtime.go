// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package scorers

import "github.com/tomtom215/meeplerank/internal/models"

// PlayTimeWindow is the requested play duration range in minutes, inclusive.
type PlayTimeWindow struct {
	Low  int `json:"low" validate:"min=0"`
	High int `json:"high" validate:"min=0,gtefield=Low"`
}

// Contains reports whether minutes lies inside the window.
func (w PlayTimeWindow) Contains(minutes float64) bool {
	return float64(w.Low) <= minutes && minutes <= float64(w.High)
}

// PlayTimeScorer estimates whether a game fits the requested duration.
//
// The model assumes the minimum play time holds at the minimum player count
// and the maximum play time at the maximum player count, with a straight line
// in between. A 2-6 player game listed at 30-60 minutes is estimated at 45
// minutes for 4 players.
type PlayTimeScorer struct {
	unknown float64
}

// NewPlayTimeScorer returns a scorer that assigns unknown to games lacking
// player or duration data.
func NewPlayTimeScorer(unknown float64) *PlayTimeScorer {
	return &PlayTimeScorer{unknown: unknown}
}

// EstimateMinutes returns the interpolated play time for players. ok is false
// when the game has no play time model or players is outside its range.
func EstimateMinutes(g *models.Game, players int) (minutes float64, ok bool) {
	if !g.HasPlayTimeModel() {
		return 0, false
	}
	minP, maxP := *g.MinPlayers, *g.MaxPlayers
	if players < minP || players > maxP {
		return 0, false
	}
	minT, maxT := float64(*g.MinPlayTimeMinutes), float64(*g.MaxPlayTimeMinutes)
	if maxP == minP {
		return minT, true
	}
	ratio := float64(players-minP) / float64(maxP-minP)
	return minT + (maxT-minT)*ratio, true
}

// Score returns the share of in-range requested player counts whose estimate
// falls in the window. A nil window yields an empty signal.
func (s *PlayTimeScorer) Score(games []*models.Game, playerCounts []int, window *PlayTimeWindow) Signal {
	out := newSignal(len(games))
	if window == nil {
		return out
	}

	for _, g := range games {
		if !g.HasPlayTimeModel() {
			out.Scores[g.ID] = s.unknown
			continue
		}

		hits, checks := 0, 0
		for _, n := range playerCounts {
			est, ok := EstimateMinutes(g, n)
			if !ok {
				continue
			}
			checks++
			if window.Contains(est) {
				hits++
			}
		}

		if checks == 0 {
			out.Scores[g.ID] = s.unknown
			continue
		}
		out.Scores[g.ID] = float64(hits) / float64(checks)
		if hits > 0 {
			out.Relevant[g.ID] = true
		}
	}
	return out
}

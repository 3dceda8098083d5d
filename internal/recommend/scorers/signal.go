// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package scorers

// Signal is the output of one scorer over a set of candidate games.
type Signal struct {
	// Scores maps game id to the signal value. Absent ids contribute 0.
	Scores map[string]float64

	// Relevant holds ids the scorer flagged on its own, independently of
	// the percentile threshold applied by the ranking engine.
	Relevant map[string]bool
}

func newSignal(capacity int) Signal {
	return Signal{
		Scores:   make(map[string]float64, capacity),
		Relevant: make(map[string]bool),
	}
}

// Get returns the score for id, or 0 when the scorer produced none.
func (s Signal) Get(id string) float64 {
	return s.Scores[id]
}

// IsRelevant reports whether the scorer flagged id.
func (s Signal) IsRelevant(id string) bool {
	return s.Relevant[id]
}

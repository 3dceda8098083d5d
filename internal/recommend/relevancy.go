// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package recommend

import (
	"math"
	"sort"
)

// RelevancyThreshold returns the value a signal must strictly exceed to be
// flagged relevant: the ascending-sorted value at index
// floor((n-1) * (1 - percentile/100)). values is not modified.
func RelevancyThreshold(values []float64, percentile float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	idx := int(math.Floor(float64(len(sorted)-1) * (1 - percentile/100)))
	idx = max(0, min(idx, len(sorted)-1))
	return sorted[idx]
}

// markRelevant fills RelevantSignals from the percentile thresholds and the
// scorers' own relevance flags.
func markRelevant(results []ScoredGame, sig signals, percentile float64) {
	if len(results) == 0 {
		return
	}

	thresholds := make(map[Signal]float64, len(AllSignals))
	values := make([]float64, len(results))
	for _, s := range AllSignals {
		for i := range results {
			values[i] = results[i].SignalScore(s)
		}
		thresholds[s] = RelevancyThreshold(values, percentile)
	}

	for i := range results {
		g := &results[i]
		g.RelevantSignals = make([]Signal, 0, len(AllSignals))
		for _, s := range AllSignals {
			if g.SignalScore(s) > thresholds[s] || sig[s].IsRelevant(g.Game.ID) {
				g.RelevantSignals = append(g.RelevantSignals, s)
			}
		}
	}
}

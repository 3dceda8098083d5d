// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package recommend

import (
	"fmt"
	"math"
)

// Config holds every tunable of the ranking engine. A snapshot copies the
// config it was built with, so changing a Config after BuildSnapshot has no
// effect on that snapshot.
type Config struct {
	// Weights scale each signal in the aggregate score. They are not
	// normalized: the aggregate is the plain weighted sum.
	Weights Weights `json:"weights"`

	// Points are the fixed values emitted by the categorical scorers.
	Points Points `json:"points"`

	// RelevancyPercentile is the top share (in percent) of a signal's values
	// that flag the signal as relevant for a game.
	// Default: 20.
	RelevancyPercentile float64 `json:"relevancy_percentile"`

	// MinimumPollVotes discards player-count poll questions with fewer answers.
	// Default: 10.
	MinimumPollVotes int `json:"minimum_poll_votes"`

	// MaxPlayersCutoff bounds open-ended "N or more" poll answers and the
	// bucket that collapses larger player counts.
	// Default: 10.
	MaxPlayersCutoff int `json:"max_players_cutoff"`

	// RecentWindowDays is how long a newly acquired game keeps the new-game boost.
	// Default: 30.
	RecentWindowDays int `json:"recent_window_days"`

	// RandomSelectProbability is the share (in percent) of owned games
	// promoted each day.
	// Default: 10.
	RandomSelectProbability int `json:"random_select_probability"`
}

// Weights defines the contribution of each signal to the aggregate score.
type Weights struct {
	Rating        float64 `json:"rating"`
	FavoriteMatch float64 `json:"favorite_match"`
	PlayTime      float64 `json:"play_time"`
	Players       float64 `json:"players"`
	RandomDaily   float64 `json:"random_daily"`
	Recency       float64 `json:"recency"`
}

// For returns the weight of a signal.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) For(s Signal) float64 {
	switch s {
	case SignalRating:
		return w.Rating
	case SignalFavoriteMatch:
		return w.FavoriteMatch
	case SignalPlayTime:
		return w.PlayTime
	case SignalPlayers:
		return w.Players
	case SignalRandomDaily:
		return w.RandomDaily
	case SignalRecency:
		return w.Recency
	default:
		return 0
	}
}

// Points are the values emitted by the categorical scorers.
type Points struct {
	// Player-count poll verdicts.
	Best           float64 `json:"best"`
	Recommended    float64 `json:"recommended"`
	NotRecommended float64 `json:"not_recommended"`

	// Recency tiers.
	NewGame             float64 `json:"new_game"`
	PlayedLastMonth     float64 `json:"played_last_month"`
	PlayedLastSixMonths float64 `json:"played_last_six_months"`

	// UnknownPlayTime is used when a game lacks play time data or no
	// requested player count falls in its range.
	UnknownPlayTime float64 `json:"unknown_play_time"`

	// NeutralRating is used when the owned catalog has a single distinct rating.
	NeutralRating float64 `json:"neutral_rating"`
}

// DefaultConfig returns the production tuning.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Rating:        0.2,
			FavoriteMatch: 1.0,
			PlayTime:      0.5,
			Players:       0.5,
			RandomDaily:   0.25,
			Recency:       0.75,
		},
		Points: Points{
			Best:                1,
			Recommended:         0.5,
			NotRecommended:      -0.5,
			NewGame:             1,
			PlayedLastMonth:     0.9,
			PlayedLastSixMonths: 0.5,
			UnknownPlayTime:     0.5,
			NeutralRating:       0.5,
		},
		RelevancyPercentile:     20,
		MinimumPollVotes:        10,
		MaxPlayersCutoff:        10,
		RecentWindowDays:        30,
		RandomSelectProbability: 10,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	for _, s := range AllSignals {
		w := c.Weights.For(s)
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("weights.%s must be a non-negative number, got %f", s, w)
		}
	}

	if c.RelevancyPercentile < 0 || c.RelevancyPercentile > 100 {
		return fmt.Errorf("relevancy_percentile must be in [0, 100], got %f", c.RelevancyPercentile)
	}
	if c.MinimumPollVotes < 0 {
		return fmt.Errorf("minimum_poll_votes must be non-negative, got %d", c.MinimumPollVotes)
	}
	if c.MaxPlayersCutoff < 1 {
		return fmt.Errorf("max_players_cutoff must be positive, got %d", c.MaxPlayersCutoff)
	}
	if c.RecentWindowDays < 0 {
		return fmt.Errorf("recent_window_days must be non-negative, got %d", c.RecentWindowDays)
	}
	if c.RandomSelectProbability < 0 || c.RandomSelectProbability > 100 {
		return fmt.Errorf("random_select_probability must be in [0, 100], got %d", c.RandomSelectProbability)
	}

	p := c.Points
	for name, v := range map[string]float64{
		"best":                   p.Best,
		"recommended":            p.Recommended,
		"not_recommended":        p.NotRecommended,
		"new_game":               p.NewGame,
		"played_last_month":      p.PlayedLastMonth,
		"played_last_six_months": p.PlayedLastSixMonths,
		"unknown_play_time":      p.UnknownPlayTime,
		"neutral_rating":         p.NeutralRating,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("points.%s must be finite", name)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All fields are values.
	clone := *c
	return &clone
}

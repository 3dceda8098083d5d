// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package recommend

import (
	"time"

	"github.com/tomtom215/meeplerank/internal/models"
	"github.com/tomtom215/meeplerank/internal/recommend/scorers"
)

// Signal names one component of the aggregate score.
type Signal string

const (
	SignalRating        Signal = "rating"
	SignalFavoriteMatch Signal = "favoriteMatch"
	SignalPlayTime      Signal = "playTime"
	SignalPlayers       Signal = "players"
	SignalRandomDaily   Signal = "randomDaily"
	SignalRecency       Signal = "recency"
)

// AllSignals lists the signals in the order they are reported.
var AllSignals = []Signal{
	SignalRating,
	SignalFavoriteMatch,
	SignalPlayTime,
	SignalPlayers,
	SignalRandomDaily,
	SignalRecency,
}

// PlayTimeWindow is the requested play duration range in minutes.
type PlayTimeWindow = scorers.PlayTimeWindow

// Request is a ranking request resolved against a snapshot.
type Request struct {
	// Games are the candidates. Nil ranks the whole catalog.
	Games []*models.Game

	// Favorites are the requester's favorite games. They need not be
	// candidates themselves.
	Favorites []*models.Game

	// PlayerCounts must be non-empty. Duplicates are ignored.
	PlayerCounts []int

	// PlayTime is optional. Nil disables the play time signal.
	PlayTime *PlayTimeWindow
}

// Validate checks the request for conditions that make ranking impossible.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (r Request) Validate() error {
	if len(r.PlayerCounts) == 0 {
		return ErrNoPlayerCounts
	}
	if r.PlayTime != nil && r.PlayTime.Low > r.PlayTime.High {
		return ErrInvalidPlayTimeWindow
	}
	return nil
}

// ScoredGame is a ranked game with the breakdown of its score.
type ScoredGame struct {
	Game *models.Game `json:"game"`

	RatingScore        float64 `json:"rating_score"`
	FavoriteMatchScore float64 `json:"favorite_match_score"`
	PlayTimeScore      float64 `json:"play_time_score"`
	PlayersScore       float64 `json:"players_score"`
	RandomDailyScore   float64 `json:"random_daily_score"`
	RecencyScore       float64 `json:"recency_score"`

	// Score is the weighted sum of the signal scores.
	Score float64 `json:"score"`

	// RelevantSignals lists the signals that stand out for this game, in
	// AllSignals order.
	RelevantSignals []Signal `json:"relevant_signals"`
}

// SignalScore returns the unweighted score of a signal.
func (g *ScoredGame) SignalScore(s Signal) float64 {
	switch s {
	case SignalRating:
		return g.RatingScore
	case SignalFavoriteMatch:
		return g.FavoriteMatchScore
	case SignalPlayTime:
		return g.PlayTimeScore
	case SignalPlayers:
		return g.PlayersScore
	case SignalRandomDaily:
		return g.RandomDailyScore
	case SignalRecency:
		return g.RecencyScore
	default:
		return 0
	}
}

// IsRelevant reports whether s is among the game's relevant signals.
func (g *ScoredGame) IsRelevant(s Signal) bool {
	for _, r := range g.RelevantSignals {
		if r == s {
			return true
		}
	}
	return false
}

// RankRequest is a ranking request expressed with game ids, as received
// from API callers.
type RankRequest struct {
	FavoriteIDs []string

	// CandidateIDs restricts ranking to these games. Empty ranks the catalog.
	CandidateIDs []string

	PlayerCounts []int
	PlayTime     *PlayTimeWindow

	// Limit truncates the result after ranking. Zero means no limit.
	Limit int
}

// RankResult is the engine's answer to a RankRequest.
type RankResult struct {
	Games []ScoredGame `json:"games"`

	// Total is the number of games ranked before Limit was applied.
	Total int `json:"total"`

	SnapshotVersion uint64    `json:"snapshot_version"`
	SnapshotBuiltAt time.Time `json:"snapshot_built_at"`

	// UnknownCandidates lists candidate ids that are not in the snapshot.
	UnknownCandidates []string `json:"unknown_candidates,omitempty"`
}

// Status describes the engine's current snapshot.
type Status struct {
	Ready           bool      `json:"ready"`
	CatalogVersion  uint64    `json:"catalog_version"`
	BuiltAt         time.Time `json:"built_at,omitempty"`
	PromotionDay    string    `json:"promotion_day,omitempty"`
	CatalogSize     int       `json:"catalog_size"`
	OwnedGames      int       `json:"owned_games"`
	Builds          int64     `json:"builds"`
	FailedBuilds    int64     `json:"failed_builds"`
	LastBuildError  string    `json:"last_build_error,omitempty"`
	LastBuildTimeMS int64     `json:"last_build_time_ms"`
}

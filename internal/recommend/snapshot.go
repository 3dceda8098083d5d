// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package recommend

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/meeplerank/internal/models"
	"github.com/tomtom215/meeplerank/internal/recommend/scorers"
)

// Snapshot is the precomputed scoring state for one catalog version.
//
// A Snapshot is immutable once built and safe for concurrent Rank calls.
// Catalog changes are handled by building a new snapshot, never by
// updating an existing one.
type Snapshot struct {
	config  *Config
	clock   Clock
	logger  zerolog.Logger
	builtAt time.Time

	games []*models.Game
	index map[string]int
	owned int

	rating   *scorers.RatingScorer
	favorite *scorers.FavoriteMatchScorer
	playTime *scorers.PlayTimeScorer
	players  *scorers.PlayersScorer
	random   *scorers.RandomDailyScorer
}

// BuildSnapshot precomputes every catalog-dependent structure.
//
// The catalog is deep-copied. Catalog order is preserved and is the tie
// breaker for equal scores. When an id appears twice the first entry wins.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func BuildSnapshot(catalog []*models.Game, cfg *Config, clock Clock, logger zerolog.Logger) (*Snapshot, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if clock == nil {
		clock = SystemClock
	}

	s := &Snapshot{
		config:  cfg.Clone(),
		clock:   clock,
		logger:  logger,
		builtAt: clock.Now(),
		games:   make([]*models.Game, 0, len(catalog)),
		index:   make(map[string]int, len(catalog)),
	}

	for _, g := range catalog {
		if g == nil {
			continue
		}
		if _, dup := s.index[g.ID]; dup {
			logger.Warn().Str("game_id", g.ID).Msg("duplicate game id in catalog, keeping first")
			continue
		}
		s.index[g.ID] = len(s.games)
		s.games = append(s.games, g.Clone())
		if g.OwnedByClub {
			s.owned++
		}
	}

	pts := s.config.Points
	s.rating = scorers.NewRatingScorer(s.games, pts.NeutralRating)
	s.favorite = scorers.NewFavoriteMatchScorer(s.games, logger)
	s.playTime = scorers.NewPlayTimeScorer(pts.UnknownPlayTime)
	s.players = scorers.NewPlayersScorer(s.games, scorers.PlayersOptions{
		MinimumVotes:        s.config.MinimumPollVotes,
		Cutoff:              s.config.MaxPlayersCutoff,
		BestScore:           pts.Best,
		RecommendedScore:    pts.Recommended,
		NotRecommendedScore: pts.NotRecommended,
	})
	s.random = scorers.NewRandomDailyScorer(s.games, s.builtAt, s.config.RandomSelectProbability)

	return s, nil
}

// BuiltAt returns the clock reading taken when the snapshot was built.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// PromotionDay returns the day the daily promotion was drawn for.
func (s *Snapshot) PromotionDay() models.Day { return s.random.Day() }

// Len returns the number of games in the snapshot.
func (s *Snapshot) Len() int { return len(s.games) }

// OwnedCount returns the number of club-owned games.
func (s *Snapshot) OwnedCount() int { return s.owned }

// Config returns a copy of the configuration the snapshot was built with.
func (s *Snapshot) Config() *Config { return s.config.Clone() }

// Game looks up a game by id. The returned game must not be modified.
func (s *Snapshot) Game(id string) (*models.Game, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.games[i], true
}

// Games returns the catalog in catalog order. The slice is a copy but the
// games are shared and must not be modified.
func (s *Snapshot) Games() []*models.Game {
	out := make([]*models.Game, len(s.games))
	copy(out, s.games)
	return out
}

// signals holds one scorer output per signal.
type signals map[Signal]scorers.Signal

// Rank scores, filters and orders the request's candidates.
//
// When favorites are given, candidates with no favorite overlap are
// dropped. The result is sorted by descending score, ties keeping catalog
// order, and each game lists the signals that stand out.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (s *Snapshot) Rank(req Request) ([]ScoredGame, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	candidates := req.Games
	if candidates == nil {
		candidates = s.games
	}
	if len(candidates) == 0 {
		return []ScoredGame{}, nil
	}
	counts := uniqueCounts(req.PlayerCounts)

	recency := scorers.NewRecencyScorer(scorers.RecencyOptions{
		Now:                      s.clock.Now(),
		RecentWindowDays:         s.config.RecentWindowDays,
		NewGameScore:             s.config.Points.NewGame,
		PlayedLastMonthScore:     s.config.Points.PlayedLastMonth,
		PlayedLastSixMonthsScore: s.config.Points.PlayedLastSixMonths,
	})

	sig := signals{
		SignalRating:        s.rating.Score(candidates),
		SignalFavoriteMatch: s.favorite.Score(candidates, req.Favorites),
		SignalPlayTime:      s.playTime.Score(candidates, counts, req.PlayTime),
		SignalPlayers:       s.players.Score(candidates, counts),
		SignalRandomDaily:   s.random.Score(candidates),
		SignalRecency:       recency.Score(candidates),
	}

	w := s.config.Weights
	filterByFavorites := len(req.Favorites) > 0
	results := make([]ScoredGame, 0, len(candidates))
	for _, g := range candidates {
		sg := ScoredGame{
			Game:               g,
			RatingScore:        sig[SignalRating].Get(g.ID),
			FavoriteMatchScore: sig[SignalFavoriteMatch].Get(g.ID),
			PlayTimeScore:      sig[SignalPlayTime].Get(g.ID),
			PlayersScore:       sig[SignalPlayers].Get(g.ID),
			RandomDailyScore:   sig[SignalRandomDaily].Get(g.ID),
			RecencyScore:       sig[SignalRecency].Get(g.ID),
		}
		if filterByFavorites && sg.FavoriteMatchScore == 0 {
			continue
		}
		sg.Score = sg.RatingScore*w.Rating +
			sg.FavoriteMatchScore*w.FavoriteMatch +
			sg.PlayTimeScore*w.PlayTime +
			sg.PlayersScore*w.Players +
			sg.RandomDailyScore*w.RandomDaily +
			sg.RecencyScore*w.Recency
		results = append(results, sg)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	markRelevant(results, sig, s.config.RelevancyPercentile)
	return results, nil
}

// uniqueCounts drops duplicate player counts, keeping first occurrences.
func uniqueCounts(counts []int) []int {
	seen := make(map[int]struct{}, len(counts))
	out := make([]int, 0, len(counts))
	for _, n := range counts {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

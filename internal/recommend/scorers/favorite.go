// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package scorers

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/tomtom215/meeplerank/internal/models"
)

// Term prefixes. A term is "<prefix>:<value>", e.g. "mechanic:Deck Building".
const (
	termCategory = "category:"
	termMechanic = "mechanic:"
	termDesigner = "designer:"
	termArtist   = "artist:"
)

// FavoriteMatchScorer measures how much a candidate shares descriptive tags
// with the requester's favorite games.
//
// Tags are weighted by inverse document frequency over the owned catalog:
//
//	weight(t) = 1 - ln(df(t)) / ln(totalOwned)
//
// so a tag carried by every owned game weighs 0 and a tag carried by a single
// owned game weighs 1. Only owned games have a precomputed term set.
type FavoriteMatchScorer struct {
	termsByGame map[string]map[string]struct{}
	weights     map[string]float64
	logger      zerolog.Logger
}

// NewFavoriteMatchScorer builds term sets and IDF weights from the owned games.
//
//nolint:gocritic // hugeParam: zerolog.Logger is passed by value by convention
func NewFavoriteMatchScorer(games []*models.Game, logger zerolog.Logger) *FavoriteMatchScorer {
	s := &FavoriteMatchScorer{
		termsByGame: make(map[string]map[string]struct{}),
		weights:     make(map[string]float64),
		logger:      logger,
	}

	docCount := make(map[string]int)
	for _, g := range games {
		if !g.OwnedByClub {
			continue
		}
		terms := Terms(g)
		s.termsByGame[g.ID] = terms
		for t := range terms {
			docCount[t]++
		}
	}

	total := len(s.termsByGame)
	for t, df := range docCount {
		if total <= 1 {
			s.weights[t] = 0
			continue
		}
		s.weights[t] = 1 - math.Log(float64(df))/math.Log(float64(total))
	}
	return s
}

// Weight returns the IDF weight of term, or 0 for unknown terms.
func (s *FavoriteMatchScorer) Weight(term string) float64 {
	return s.weights[term]
}

// Score returns a value in [0, 1] per candidate, normalized by the best raw
// score among the candidates. Candidates without a precomputed term set are
// skipped and reported in one warning per call.
func (s *FavoriteMatchScorer) Score(candidates, favorites []*models.Game) Signal {
	out := newSignal(len(candidates))

	favoriteWeights := make(map[string]float64)
	for _, fav := range favorites {
		for t := range Terms(fav) {
			favoriteWeights[t] += s.weights[t]
		}
	}

	maxRaw, skipped := 0.0, 0
	for _, g := range candidates {
		terms, ok := s.termsByGame[g.ID]
		if !ok {
			skipped++
			continue
		}
		raw := 0.0
		for t := range terms {
			raw += favoriteWeights[t]
		}
		out.Scores[g.ID] = raw
		maxRaw = math.Max(maxRaw, raw)
	}

	if skipped > 0 {
		s.logger.Warn().
			Int("skipped", skipped).
			Int("candidates", len(candidates)).
			Msg("candidates without precomputed terms skipped in favorite match")
	}

	divisor := maxRaw
	if divisor == 0 {
		divisor = 1
	}
	for id, raw := range out.Scores {
		out.Scores[id] = raw / divisor
	}
	return out
}

// Terms returns the set of descriptive terms of a game.
func Terms(g *models.Game) map[string]struct{} {
	terms := make(map[string]struct{}, len(g.Categories)+len(g.Mechanics)+len(g.Designers)+len(g.Artists))
	add := func(prefix string, values []string) {
		for _, v := range values {
			terms[prefix+v] = struct{}{}
		}
	}
	add(termCategory, g.Categories)
	add(termMechanic, g.Mechanics)
	add(termDesigner, g.Designers)
	add(termArtist, g.Artists)
	return terms
}

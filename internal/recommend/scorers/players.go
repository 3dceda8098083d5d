// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package scorers

import (
	"math"
	"slices"

	"github.com/tomtom215/meeplerank/internal/models"
)

// PlayersOptions configures the poll summary.
type PlayersOptions struct {
	// MinimumVotes discards poll questions with fewer answers.
	MinimumVotes int

	// Cutoff is the player count at which open-ended answers stop being
	// spread and above which answers are averaged into a single bucket.
	Cutoff int

	BestScore           float64
	RecommendedScore    float64
	NotRecommendedScore float64
}

// PlayersScorer scores games by the community verdict on the requested
// player counts.
type PlayersScorer struct {
	opts   PlayersOptions
	byGame map[string]map[int]float64
}

// NewPlayersScorer summarizes the player-count polls of every game.
func NewPlayersScorer(games []*models.Game, opts PlayersOptions) *PlayersScorer {
	s := &PlayersScorer{
		opts:   opts,
		byGame: make(map[string]map[int]float64, len(games)),
	}
	for _, g := range games {
		s.byGame[g.ID] = s.summarize(g.PlayersPolls)
	}
	return s
}

// verdict picks the plurality answer. Ties resolve best, then recommended.
func (s *PlayersScorer) verdict(p models.PlayerCountPoll) float64 {
	b, r, n := p.BestVotes, p.RecommendedVotes, p.NotRecommendedVotes
	switch {
	case b >= r && b >= n:
		return s.opts.BestScore
	case r >= b && r >= n:
		return s.opts.RecommendedScore
	case n >= b && n >= r:
		return s.opts.NotRecommendedScore
	default:
		return 0
	}
}

func (s *PlayersScorer) summarize(polls []models.PlayerCountPoll) map[int]float64 {
	cutoff := s.opts.Cutoff
	byPlayers := make(map[int]float64)

	for _, p := range polls {
		if p.TotalVotes() < s.opts.MinimumVotes {
			continue
		}
		v := s.verdict(p)

		if !p.IsMoreThan {
			byPlayers[p.Players] = v
			continue
		}

		// "N or more" covers N+1 up to the cutoff.
		if p.Players == math.MaxInt {
			byPlayers[p.Players] = v
			continue
		}
		byPlayers[p.Players+1] = v
		if p.Players < cutoff {
			for i := p.Players + 2; i <= cutoff; i++ {
				byPlayers[i] = v
			}
		}
	}

	above := make([]int, 0, len(byPlayers))
	for k := range byPlayers {
		if k >= cutoff {
			above = append(above, k)
		}
	}
	if len(above) == 0 {
		return byPlayers
	}

	// Summed in key order.
	slices.Sort(above)
	sum := 0.0
	for _, k := range above {
		sum += byPlayers[k]
		delete(byPlayers, k)
	}
	byPlayers[cutoff] = sum / float64(len(above))
	return byPlayers
}

// Summary returns the per-player-count values computed for a game.
func (s *PlayersScorer) Summary(gameID string) (map[int]float64, bool) {
	m, ok := s.byGame[gameID]
	if !ok {
		return nil, false
	}
	out := make(map[int]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, true
}

// Score averages the per-count values over playerCounts. Counts above the
// cutoff read the collapsed bucket. A game is relevant when any requested
// count is rated best.
func (s *PlayersScorer) Score(games []*models.Game, playerCounts []int) Signal {
	out := newSignal(len(games))
	if len(playerCounts) == 0 {
		return out
	}

	for _, g := range games {
		byPlayers, ok := s.byGame[g.ID]
		if !ok {
			continue
		}
		total := 0.0
		for _, n := range playerCounts {
			v := byPlayers[min(n, s.opts.Cutoff)]
			if v == s.opts.BestScore {
				out.Relevant[g.ID] = true
			}
			total += v
		}
		out.Scores[g.ID] = total / float64(len(playerCounts))
	}
	return out
}

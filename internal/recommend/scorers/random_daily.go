// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package scorers

import (
	"time"

	"github.com/tomtom215/meeplerank/internal/models"
)

// RandomDailyScorer promotes a stable pseudo-random subset of owned games,
// changing once per UTC calendar day.
type RandomDailyScorer struct {
	day      models.Day
	selected map[string]bool
}

// NewRandomDailyScorer selects owned games whose daily hash modulo 100 is
// below probability (a percentage). The hash is keyed on the UTC date of now
// whatever its location, so every deployment draws the same games.
func NewRandomDailyScorer(games []*models.Game, now time.Time, probability int) *RandomDailyScorer {
	s := &RandomDailyScorer{
		day:      models.DayOf(now.UTC()),
		selected: make(map[string]bool),
	}
	for _, g := range games {
		if !g.OwnedByClub {
			continue
		}
		if DailyHash(s.day.String(), g.ID)%100 < uint32(max(probability, 0)) {
			s.selected[g.ID] = true
		}
	}
	return s
}

// Day returns the calendar day the selection was made for.
func (s *RandomDailyScorer) Day() models.Day {
	return s.day
}

// Selected reports whether the game is promoted today.
func (s *RandomDailyScorer) Selected(id string) bool {
	return s.selected[id]
}

// Score gives 1 to promoted games and flags them relevant. Others are omitted.
func (s *RandomDailyScorer) Score(games []*models.Game) Signal {
	out := newSignal(len(s.selected))
	for _, g := range games {
		if s.selected[g.ID] {
			out.Scores[g.ID] = 1
			out.Relevant[g.ID] = true
		}
	}
	return out
}

// DailyHash is the djb2 hash of date followed by id, truncated to 32 bits.
func DailyHash(date, id string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(date); i++ {
		h = h*33 + uint32(date[i])
	}
	for i := 0; i < len(id); i++ {
		h = h*33 + uint32(id[i])
	}
	return h
}

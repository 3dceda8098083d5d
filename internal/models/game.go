// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package models

// Game is one entry of the club catalog, augmented with community metadata.
//
// Optional numeric fields are pointers so that "absent" is distinguishable
// from zero. Optional dates are Day values where the empty Day means absent.
type Game struct {
	// ID is the stable game identifier (the community database id).
	ID string `json:"id" validate:"required,numeric,max=20"`

	// Name is the display name.
	Name string `json:"name" validate:"required,max=300"`

	Categories []string `json:"categories,omitempty"`
	Mechanics  []string `json:"mechanics,omitempty"`
	Designers  []string `json:"designers,omitempty"`
	Artists    []string `json:"artists,omitempty"`

	MinPlayers         *int `json:"min_players,omitempty" validate:"omitempty,min=1"`
	MaxPlayers         *int `json:"max_players,omitempty" validate:"omitempty,min=1"`
	MinPlayTimeMinutes *int `json:"min_play_time_minutes,omitempty" validate:"omitempty,min=0"`
	MaxPlayTimeMinutes *int `json:"max_play_time_minutes,omitempty" validate:"omitempty,min=0"`

	// BayesAverageRating is the Bayesian-smoothed community rating.
	BayesAverageRating *float64 `json:"bayes_average_rating,omitempty" validate:"omitempty,gte=0,lte=10"`

	// PlayersPolls holds the raw player-count poll answers in source order.
	PlayersPolls []PlayerCountPoll `json:"players_polls,omitempty" validate:"dive"`

	OwnedByClub bool `json:"owned_by_club"`

	// OwnedSince is the day the game entered the club catalog.
	OwnedSince Day `json:"owned_since,omitempty" validate:"omitempty,day"`

	// LastPlayed is the most recent day a play was recorded.
	LastPlayed Day `json:"last_played,omitempty" validate:"omitempty,day"`

	// TotalPlays counts recorded play activities. Informational only.
	TotalPlays int `json:"total_plays" validate:"min=0"`
}

// PlayerCountPoll is one community poll question ("is N players a good fit?").
type PlayerCountPoll struct {
	Players int `json:"players" validate:"min=0"`

	// IsMoreThan marks the open-ended "N or more players" question.
	IsMoreThan bool `json:"is_more_than"`

	BestVotes           int `json:"best_votes" validate:"min=0"`
	RecommendedVotes    int `json:"recommended_votes" validate:"min=0"`
	NotRecommendedVotes int `json:"not_recommended_votes" validate:"min=0"`
}

// TotalVotes returns the number of answers to the poll question.
func (p PlayerCountPoll) TotalVotes() int {
	return p.BestVotes + p.RecommendedVotes + p.NotRecommendedVotes
}

// HasPlayTimeModel reports whether every field needed to estimate play time is present.
func (g *Game) HasPlayTimeModel() bool {
	return g.MinPlayers != nil && g.MaxPlayers != nil &&
		g.MinPlayTimeMinutes != nil && g.MaxPlayTimeMinutes != nil
}

// Clone returns a deep copy so that callers can mutate it freely.
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := *g
	c.Categories = cloneStrings(g.Categories)
	c.Mechanics = cloneStrings(g.Mechanics)
	c.Designers = cloneStrings(g.Designers)
	c.Artists = cloneStrings(g.Artists)
	c.MinPlayers = cloneInt(g.MinPlayers)
	c.MaxPlayers = cloneInt(g.MaxPlayers)
	c.MinPlayTimeMinutes = cloneInt(g.MinPlayTimeMinutes)
	c.MaxPlayTimeMinutes = cloneInt(g.MaxPlayTimeMinutes)
	if g.BayesAverageRating != nil {
		r := *g.BayesAverageRating
		c.BayesAverageRating = &r
	}
	if g.PlayersPolls != nil {
		c.PlayersPolls = make([]PlayerCountPoll, len(g.PlayersPolls))
		copy(c.PlayersPolls, g.PlayersPolls)
	}
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntPtr returns a pointer to v. Handy for optional fields in fixtures.
func IntPtr(v int) *int {
	return &v
}

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 {
	return &v
}

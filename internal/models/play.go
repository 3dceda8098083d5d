// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package models

import "time"

// PlayLocation is where a play took place.
type PlayLocation string

const (
	LocationClub     PlayLocation = "club"
	LocationHome     PlayLocation = "home"
	LocationFestival PlayLocation = "festival"
	LocationOther    PlayLocation = "other"
)

// PlayLocations lists every accepted location.
var PlayLocations = []PlayLocation{LocationClub, LocationHome, LocationFestival, LocationOther}

// Valid reports whether l is one of the known locations.
func (l PlayLocation) Valid() bool {
	for _, known := range PlayLocations {
		if l == known {
			return true
		}
	}
	return false
}

// PlayActivity records that someone from the club played a game on a day.
type PlayActivity struct {
	ID         string       `json:"id"`
	GameID     string       `json:"game_id"`
	Day        Day          `json:"day"`
	Location   PlayLocation `json:"location"`
	RecordedAt time.Time    `json:"recorded_at"`
}

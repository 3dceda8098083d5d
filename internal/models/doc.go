// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

/*
Package models defines the data structures shared by the catalog store, the
scoring engine and the HTTP API.

Key Components:

  - Game: one catalog entry with community metadata and club ownership
  - PlayerCountPoll: one "is N players a good fit?" poll question
  - PlayActivity: one recorded play of a game at a location
  - Day: a calendar day in YYYY-MM-DD form
  - APIResponse: standardized API response wrapper

Optional Values:

Optional numeric fields on Game are pointers, so an absent rating or player
range is distinct from zero. Optional dates are Day values where the empty
Day means absent. IntPtr and FloatPtr build the pointers in literals:

	game := &models.Game{
	    ID:                 "224517",
	    Name:               "Brass: Birmingham",
	    OwnedByClub:        true,
	    MinPlayers:         models.IntPtr(2),
	    MaxPlayers:         models.IntPtr(4),
	    BayesAverageRating: models.FloatPtr(8.4),
	}

Usage Example - API Response:

	response := models.APIResponse{
	    Status: "success",
	    Data:   result,
	    Metadata: models.Metadata{
	        Timestamp:       time.Now(),
	        QueryTimeMS:     3,
	        SnapshotVersion: 12,
	    },
	}

	// Error response
	errorResponse := models.APIResponse{
	    Status: "error",
	    Error: &models.APIError{
	        Code:    models.ErrCodeValidation,
	        Message: "player_counts is required",
	    },
	}

Thread Safety:

Models carry no locks. The scoring engine treats games in a snapshot as
immutable; the store hands out clones (Game.Clone) so callers may mutate
what they receive.

Validation:

Struct tags drive go-playground/validator (see internal/validation). The
custom "day" tag checks Day fields and "playlocation" checks PlayLocation.
*/
package models

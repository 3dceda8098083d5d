// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package catalog

import "errors"

var (
	// ErrGameNotFound is returned when no game exists with the requested id.
	ErrGameNotFound = errors.New("game not found")

	// ErrInvalidGameID is returned for ids that are empty or not all digits.
	ErrInvalidGameID = errors.New("invalid game id")

	// ErrInvalidDay is returned for play days that are not real YYYY-MM-DD dates.
	ErrInvalidDay = errors.New("invalid day")

	// ErrInvalidLocation is returned for unknown play locations.
	ErrInvalidLocation = errors.New("invalid play location")

	// ErrNilGame is returned when a nil game is written.
	ErrNilGame = errors.New("nil game")
)

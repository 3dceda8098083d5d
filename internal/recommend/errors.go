// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package recommend

import "errors"

var (
	// ErrNoPlayerCounts is returned when a ranking request names no player count.
	ErrNoPlayerCounts = errors.New("at least one player count is required")

	// ErrInvalidPlayTimeWindow is returned when the window's low bound exceeds its high bound.
	ErrInvalidPlayTimeWindow = errors.New("play time window low bound exceeds high bound")

	// ErrUnknownFavorite is returned when a favorite id is not in the snapshot.
	ErrUnknownFavorite = errors.New("favorite game not in catalog")

	// ErrSnapshotNotReady is returned by the engine before the first successful build.
	ErrSnapshotNotReady = errors.New("recommendation snapshot not built yet")
)

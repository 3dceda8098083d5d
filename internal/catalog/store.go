// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

// Package catalog persists the club's game catalog and play history.
//
// The catalog order is the order in which games were first added. Every
// write bumps a monotonic version counter, which the recommendation engine
// uses to decide whether its snapshot is stale. Writers publish a
// ChangeEvent so that the snapshot service can rebuild without waiting for
// its next tick. CachedStore puts a read cache in front of single-game
// lookups.
package catalog

import (
	"context"
	"fmt"

	"github.com/tomtom215/meeplerank/internal/models"
)

// Store is the catalog persistence contract.
type Store interface {
	// Get returns the game with the given id or ErrGameNotFound.
	Get(ctx context.Context, id string) (*models.Game, error)

	// List returns every game in catalog order.
	List(ctx context.Context) ([]*models.Game, error)

	// Put inserts or replaces a game. created reports whether it was new.
	Put(ctx context.Context, game *models.Game) (created bool, err error)

	// PutBatch upserts several games in one transaction.
	PutBatch(ctx context.Context, games []*models.Game) (BatchResult, error)

	// Delete removes a game and its play history.
	Delete(ctx context.Context, id string) error

	// RecordPlay appends a play activity and returns the updated game.
	RecordPlay(ctx context.Context, play models.PlayActivity) (*models.Game, error)

	// PlayActivities returns the plays of a game, oldest first.
	PlayActivities(ctx context.Context, id string) ([]models.PlayActivity, error)

	// Version returns the catalog version counter.
	Version(ctx context.Context) (uint64, error)
}

// BatchResult counts the outcome of PutBatch.
type BatchResult struct {
	Added   int    `json:"added"`
	Updated int    `json:"updated"`
	Version uint64 `json:"version"`
}

// ValidateGameID checks that id is a non-empty string of ASCII digits.
func ValidateGameID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidGameID)
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidGameID, id)
		}
	}
	return nil
}

// ValidatePlay checks the fields of a play activity that callers supply.
func ValidatePlay(play models.PlayActivity) error {
	if err := ValidateGameID(play.GameID); err != nil {
		return err
	}
	if !play.Day.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDay, play.Day)
	}
	if !play.Location.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLocation, play.Location)
	}
	return nil
}

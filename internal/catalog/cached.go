// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package catalog

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/tomtom215/meeplerank/internal/cache"
	"github.com/tomtom215/meeplerank/internal/metrics"
	"github.com/tomtom215/meeplerank/internal/models"
)

// CachedStore answers Get from a read cache in front of another Store.
//
// Cache keys carry a write generation. Every write made through the
// CachedStore advances the generation once it returns, so entries cached
// before the write are never read again and simply age out. Writes made
// to the wrapped store directly are not seen until the TTL expires.
type CachedStore struct {
	Store
	games *cache.Cache[*models.Game]
	gen   atomic.Uint64
}

// NewCachedStore wraps store with the games cache.
func NewCachedStore(store Store, games *cache.Cache[*models.Game]) *CachedStore {
	return &CachedStore{Store: store, games: games}
}

func (s *CachedStore) key(gen uint64, id string) string {
	return strconv.FormatUint(gen, 10) + ":" + id
}

// Get returns a copy of the cached game or loads it from the wrapped store.
// Errors are not cached.
func (s *CachedStore) Get(ctx context.Context, id string) (*models.Game, error) {
	key := s.key(s.gen.Load(), id)
	if game, ok := s.games.Get(key); ok {
		metrics.RecordCatalogCache(true)
		return game.Clone(), nil
	}
	metrics.RecordCatalogCache(false)

	game, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.games.Set(key, game.Clone())
	return game, nil
}

// Put implements Store.
func (s *CachedStore) Put(ctx context.Context, game *models.Game) (bool, error) {
	defer s.gen.Add(1)
	return s.Store.Put(ctx, game)
}

// PutBatch implements Store.
func (s *CachedStore) PutBatch(ctx context.Context, games []*models.Game) (BatchResult, error) {
	defer s.gen.Add(1)
	return s.Store.PutBatch(ctx, games)
}

// Delete implements Store.
func (s *CachedStore) Delete(ctx context.Context, id string) error {
	defer s.gen.Add(1)
	return s.Store.Delete(ctx, id)
}

// RecordPlay implements Store.
func (s *CachedStore) RecordPlay(ctx context.Context, play models.PlayActivity) (*models.Game, error) {
	defer s.gen.Add(1)
	return s.Store.RecordPlay(ctx, play)
}

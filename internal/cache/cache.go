// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package cache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Config bounds the cache.
type Config struct {
	// MaxEntries is the number of values held before eviction.
	// Default: 5000
	MaxEntries int64

	// TTL is how long a value stays readable.
	// Default: 10m
	TTL time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		MaxEntries: 5000,
		TTL:        10 * time.Minute,
	}
}

// Cache is a string-keyed cache of V values. It is safe for concurrent use.
type Cache[V any] struct {
	store *ristretto.Cache[string, V]
	ttl   time.Duration
}

// New creates a cache. Zero fields in cfg take their defaults.
func New[V any](cfg Config) (*Cache[V], error) {
	def := DefaultConfig()
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = def.MaxEntries
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}

	store, err := ristretto.NewCache(&ristretto.Config[string, V]{
		// ristretto recommends ten counters per expected entry.
		NumCounters:        cfg.MaxEntries * 10,
		MaxCost:            cfg.MaxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	return &Cache[V]{store: store, ttl: cfg.TTL}, nil
}

// Get returns the value for key if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.store.Get(key)
}

// Set stores value under key with the configured TTL. It reports false
// when ristretto's admission policy dropped the write.
func (c *Cache[V]) Set(key string, value V) bool {
	return c.store.SetWithTTL(key, value, 1, c.ttl)
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.store.Del(key)
}

// Wait blocks until buffered writes are applied.
func (c *Cache[V]) Wait() {
	c.store.Wait()
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.store.Clear()
}

// Close stops ristretto's background goroutines. The cache must not be
// used afterwards.
func (c *Cache[V]) Close() {
	c.store.Close()
}

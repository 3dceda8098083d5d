// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

/*
Package cache provides a bounded, expiring in-memory cache.

The cache is a thin typed wrapper over ristretto (dgraph-io/ristretto/v2),
the admission-controlled cache that also backs BadgerDB's block cache.
Every entry costs one unit, so MaxEntries bounds the number of values
held. Entries expire after TTL.

# Consistency

ristretto buffers writes, so a Set is visible to Get only after the
buffer drains. Callers that need read-your-write (tests, mostly) call
Wait. A dropped Set is not an error: the next read reloads.

# Usage Example

	c, err := cache.New[*models.Game](cache.Config{
	    MaxEntries: 5000,
	    TTL:        10 * time.Minute,
	})
	if err != nil {
	    return err
	}
	defer c.Close()

	if game, ok := c.Get(key); ok {
	    return game.Clone()
	}
	game := load()
	c.Set(key, game.Clone())

Keys must capture everything the value depends on. catalog.CachedStore
prefixes game ids with a write generation, so a write makes every older
entry unreachable.
*/
package cache

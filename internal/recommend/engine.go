// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/meeplerank/internal/metrics"
	"github.com/tomtom215/meeplerank/internal/models"
)

// CatalogSource supplies the catalog a snapshot is built from. It is
// typically implemented by the catalog store.
type CatalogSource interface {
	// List returns every game in catalog order.
	List(ctx context.Context) ([]*models.Game, error)

	// Version returns a counter that changes whenever the catalog changes.
	Version(ctx context.Context) (uint64, error)
}

// engineState pairs a snapshot with the catalog version it was built from.
type engineState struct {
	snapshot *Snapshot
	version  uint64
}

// Engine owns the current snapshot and swaps it atomically on rebuild.
// It is safe for concurrent use: ranking never blocks on a rebuild.
type Engine struct {
	config *Config
	clock  Clock
	logger zerolog.Logger
	source CatalogSource

	current atomic.Pointer[engineState]

	// buildMu serializes rebuilds.
	buildMu sync.Mutex

	builds       atomic.Int64
	failedBuilds atomic.Int64

	statusMu      sync.RWMutex
	lastBuildErr  string
	lastBuildTime time.Duration
}

// NewEngine creates an engine with no snapshot. Call Rebuild before Rank.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source CatalogSource, clock Clock, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("catalog source is required")
	}
	if clock == nil {
		clock = SystemClock
	}

	return &Engine{
		config: cfg.Clone(),
		clock:  clock,
		logger: logger.With().Str("component", "recommend").Logger(),
		source: source,
	}, nil
}

// Rebuild loads the catalog and replaces the current snapshot.
// On failure the previous snapshot stays in place.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	return e.rebuildLocked(ctx)
}

// RebuildIfStale rebuilds only when the catalog version moved or the
// calendar day changed since the current snapshot was built.
func (e *Engine) RebuildIfStale(ctx context.Context) (bool, error) {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	if st := e.current.Load(); st != nil {
		version, err := e.source.Version(ctx)
		if err != nil {
			e.recordFailure(err, 0)
			return false, fmt.Errorf("read catalog version: %w", err)
		}
		if version == st.version && !dayChanged(st.snapshot.BuiltAt(), e.clock.Now()) {
			return false, nil
		}
	}

	if err := e.rebuildLocked(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// dayChanged reports whether now falls on a different day than built, either
// in the clock's location (recency) or in UTC (daily promotion).
func dayChanged(built, now time.Time) bool {
	return models.DayOf(built) != models.DayOf(now) ||
		models.DayOf(built.UTC()) != models.DayOf(now.UTC())
}

func (e *Engine) rebuildLocked(ctx context.Context) error {
	start := time.Now()

	version, err := e.source.Version(ctx)
	if err != nil {
		e.recordFailure(err, time.Since(start))
		return fmt.Errorf("read catalog version: %w", err)
	}

	games, err := e.source.List(ctx)
	if err != nil {
		e.recordFailure(err, time.Since(start))
		return fmt.Errorf("load catalog: %w", err)
	}

	snap, err := BuildSnapshot(games, e.config, e.clock, e.logger)
	if err != nil {
		e.recordFailure(err, time.Since(start))
		return fmt.Errorf("build snapshot: %w", err)
	}

	e.current.Store(&engineState{snapshot: snap, version: version})
	elapsed := time.Since(start)
	e.builds.Add(1)

	e.statusMu.Lock()
	e.lastBuildErr = ""
	e.lastBuildTime = elapsed
	e.statusMu.Unlock()

	metrics.RecordSnapshotBuild(elapsed, snap.Len(), snap.OwnedCount(), version, nil)
	e.logger.Info().
		Uint64("catalog_version", version).
		Int("games", snap.Len()).
		Int("owned", snap.OwnedCount()).
		Str("promotion_day", snap.PromotionDay().String()).
		Dur("duration", elapsed).
		Msg("snapshot rebuilt")

	return nil
}

func (e *Engine) recordFailure(err error, elapsed time.Duration) {
	e.failedBuilds.Add(1)
	e.statusMu.Lock()
	e.lastBuildErr = err.Error()
	e.statusMu.Unlock()
	metrics.RecordSnapshotBuild(elapsed, 0, 0, 0, err)
	e.logger.Error().Err(err).Msg("snapshot rebuild failed")
}

// Snapshot returns the current snapshot and its catalog version.
func (e *Engine) Snapshot() (*Snapshot, uint64, bool) {
	st := e.current.Load()
	if st == nil {
		return nil, 0, false
	}
	return st.snapshot, st.version, true
}

// Ready reports whether a snapshot has been built.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Rank resolves the request's ids against the current snapshot and ranks
// the candidates. Unknown favorites are an error; unknown candidates are
// logged, reported in the result and skipped.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Rank(ctx context.Context, req RankRequest) (result *RankResult, err error) {
	start := time.Now()
	defer func() {
		size := 0
		if result != nil {
			size = len(result.Games)
		}
		metrics.RecordRank(time.Since(start), size, err)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st := e.current.Load()
	if st == nil {
		return nil, ErrSnapshotNotReady
	}
	snap := st.snapshot

	favorites := make([]*models.Game, 0, len(req.FavoriteIDs))
	for _, id := range req.FavoriteIDs {
		g, ok := snap.Game(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFavorite, id)
		}
		favorites = append(favorites, g)
	}

	var (
		candidates []*models.Game
		unknown    []string
	)
	if len(req.CandidateIDs) > 0 {
		candidates = make([]*models.Game, 0, len(req.CandidateIDs))
		seen := make(map[string]struct{}, len(req.CandidateIDs))
		for _, id := range req.CandidateIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			g, ok := snap.Game(id)
			if !ok {
				e.logger.Warn().Str("game_id", id).Msg("candidate not in snapshot, skipping")
				unknown = append(unknown, id)
				continue
			}
			candidates = append(candidates, g)
		}
	}

	ranked, err := snap.Rank(Request{
		Games:        candidates,
		Favorites:    favorites,
		PlayerCounts: req.PlayerCounts,
		PlayTime:     req.PlayTime,
	})
	if err != nil {
		return nil, err
	}

	total := len(ranked)
	if req.Limit > 0 && len(ranked) > req.Limit {
		ranked = ranked[:req.Limit]
	}

	e.logger.Debug().
		Int("favorites", len(favorites)).
		Int("ranked", total).
		Int("returned", len(ranked)).
		Uint64("catalog_version", st.version).
		Msg("ranking complete")

	return &RankResult{
		Games:             ranked,
		Total:             total,
		SnapshotVersion:   st.version,
		SnapshotBuiltAt:   snap.BuiltAt(),
		UnknownCandidates: unknown,
	}, nil
}

// Status reports the state of the current snapshot and rebuild history.
func (e *Engine) Status() Status {
	e.statusMu.RLock()
	s := Status{
		Builds:          e.builds.Load(),
		FailedBuilds:    e.failedBuilds.Load(),
		LastBuildError:  e.lastBuildErr,
		LastBuildTimeMS: e.lastBuildTime.Milliseconds(),
	}
	e.statusMu.RUnlock()

	if st := e.current.Load(); st != nil {
		s.Ready = true
		s.CatalogVersion = st.version
		s.BuiltAt = st.snapshot.BuiltAt()
		s.PromotionDay = st.snapshot.PromotionDay().String()
		s.CatalogSize = st.snapshot.Len()
		s.OwnedGames = st.snapshot.OwnedCount()
	}
	return s
}

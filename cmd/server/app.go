// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/meeplerank/internal/api"
	"github.com/tomtom215/meeplerank/internal/cache"
	"github.com/tomtom215/meeplerank/internal/catalog"
	"github.com/tomtom215/meeplerank/internal/config"
	"github.com/tomtom215/meeplerank/internal/logging"
	"github.com/tomtom215/meeplerank/internal/models"
	"github.com/tomtom215/meeplerank/internal/recommend"
	"github.com/tomtom215/meeplerank/internal/supervisor"
	"github.com/tomtom215/meeplerank/internal/supervisor/services"
)

// app holds every long-lived component of the server.
type app struct {
	db     *badger.DB
	events *catalog.Events
	store  *catalog.BadgerStore
	engine *recommend.Engine
	games  *cache.Cache[*models.Game]
	server *http.Server
	tree   *supervisor.SupervisorTree
}

// newApp wires storage, the ranking engine, the HTTP API and the
// supervisor tree. Nothing runs until the tree is served.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	db, err := catalog.OpenDB(cfg.Catalog.StoreOptions(), logger.With().Str("component", "badger").Logger())
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	events := catalog.NewEvents(
		catalog.EventsConfig{OutputBuffer: cfg.Catalog.EventBuffer},
		logging.NewWatermillLogger(logger.With().Str("component", "events").Logger()),
	)
	store := catalog.NewBadgerStore(db, events)

	loc := cfg.Snapshot.Location()
	clock := recommend.ClockFunc(func() time.Time { return time.Now().In(loc) })

	engine, err := recommend.NewEngine(cfg.Scoring.EngineConfig(), store, clock, logger)
	if err != nil {
		_ = events.Close()
		_ = db.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}

	// The API reads single games through the cache; the engine loads the
	// whole catalog from badger.
	var (
		apiStore catalog.Store = store
		games    *cache.Cache[*models.Game]
	)
	if cfg.Catalog.CacheSize > 0 {
		games, err = cache.New[*models.Game](cache.Config{
			MaxEntries: cfg.Catalog.CacheSize,
			TTL:        cfg.Catalog.CacheTTL,
		})
		if err != nil {
			_ = events.Close()
			_ = db.Close()
			return nil, fmt.Errorf("create game cache: %w", err)
		}
		apiStore = catalog.NewCachedStore(store, games)
	}

	handler := api.NewHandler(apiStore, engine, api.HandlerConfig{
		Location:    loc,
		RankTimeout: cfg.Server.Timeout,
		Clock:       clock,
	})
	mw := api.NewChiMiddlewareFromSettings(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, mw)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	server := services.NewHTTPServer(addr, router.SetupChi(), cfg.Server.Timeout)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureDecay:     cfg.Supervisor.FailureDecay,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})
	if err != nil {
		if games != nil {
			games.Close()
		}
		_ = events.Close()
		_ = db.Close()
		return nil, fmt.Errorf("create supervisor tree: %w", err)
	}

	if !cfg.Catalog.InMemory && cfg.Catalog.GCInterval > 0 {
		tree.AddCatalogService(services.NewCatalogGCService(store, services.CatalogGCConfig{
			Interval: cfg.Catalog.GCInterval,
			Ratio:    catalog.DefaultGCRatio,
		}, logger))
	}

	tree.AddEngineService(services.NewSnapshotService(engine, events, services.SnapshotServiceConfig{
		RefreshInterval:    cfg.Snapshot.RefreshInterval,
		MinRebuildInterval: cfg.Snapshot.MinRebuildInterval,
		RebuildBurst:       cfg.Snapshot.RebuildBurst,
		BuildTimeout:       cfg.Snapshot.BuildTimeout,
		BreakerMaxFailures: cfg.Snapshot.BreakerMaxFailures,
		BreakerTimeout:     cfg.Snapshot.BreakerTimeout,
	}, logger))

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout).WithLogger(logger))

	return &app{
		db:     db,
		events: events,
		store:  store,
		engine: engine,
		games:  games,
		server: server,
		tree:   tree,
	}, nil
}

// close releases the game cache, the event bus and the database. Call
// after the tree stops.
func (a *app) close() error {
	if a.games != nil {
		a.games.Close()
	}
	return errors.Join(a.events.Close(), a.db.Close())
}

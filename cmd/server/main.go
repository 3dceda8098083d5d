// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

// Package main is the entry point for the MeepleRank server.
//
// MeepleRank ranks a board game club's catalog for a play session from the
// players' favorite games, the player counts at the table and the time
// available. The catalog lives in BadgerDB; rankings are served from an
// in-memory snapshot that a supervised service keeps current.
//
// # Startup
//
//  1. Configuration: koanf v2 (defaults, config.yaml, environment)
//  2. Logging: zerolog
//  3. Catalog: BadgerDB store and the watermill change event bus
//  4. Engine: snapshot holder and ranking
//  5. Supervisor tree: catalog GC, snapshot service, HTTP server
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains for
// HTTP_SHUTDOWN_TIMEOUT, then the event bus and database are closed.
//
// # Example
//
//	export CATALOG_PATH=/var/lib/meeplerank
//	export SNAPSHOT_TIMEZONE=Europe/Berlin
//	export CORS_ORIGINS=https://club.example
//	./meeplerank
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tomtom215/meeplerank/internal/config"
	"github.com/tomtom215/meeplerank/internal/logging"
	"github.com/tomtom215/meeplerank/internal/metrics"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging.LoggerConfig())
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("catalog_path", cfg.Catalog.Path).
		Bool("catalog_in_memory", cfg.Catalog.InMemory).
		Str("timezone", cfg.Snapshot.Location().String()).
		Msg("Starting MeepleRank")

	a, err := newApp(cfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer func() {
		if err := a.close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", a.server.Addr).Msg("Starting supervisor tree")
	errCh := a.tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := a.tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

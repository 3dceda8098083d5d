// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GCRunner runs store garbage collection. Satisfied by *catalog.BadgerStore.
type GCRunner interface {
	RunGC(ratio float64) error
}

// CatalogGCConfig controls value log garbage collection.
type CatalogGCConfig struct {
	// Interval between GC runs.
	// Default: 10m
	Interval time.Duration

	// Ratio is the discard ratio passed to badger.
	// Default: 0.5
	Ratio float64
}

// CatalogGCService periodically reclaims badger value log space.
type CatalogGCService struct {
	store  GCRunner
	config CatalogGCConfig
	logger zerolog.Logger
	name   string
}

// NewCatalogGCService creates the GC service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogGCService(store GCRunner, cfg CatalogGCConfig, logger zerolog.Logger) *CatalogGCService {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.Ratio <= 0 || cfg.Ratio >= 1 {
		cfg.Ratio = 0.5
	}
	return &CatalogGCService{
		store:  store,
		config: cfg,
		logger: logger.With().Str("service", "catalog-gc").Logger(),
		name:   "catalog-gc",
	}
}

// Serve implements suture.Service. GC errors are logged and retried on the
// next tick.
func (s *CatalogGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.store.RunGC(s.config.Ratio); err != nil {
				s.logger.Warn().Err(err).Msg("catalog value log GC failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("catalog value log GC complete")
		}
	}
}

// String implements fmt.Stringer for suture logs.
func (s *CatalogGCService) String() string {
	return s.name
}

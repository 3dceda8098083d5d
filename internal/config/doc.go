// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

/*
Package config provides centralized configuration management for MeepleRank.

Configuration is layered with koanf, lowest priority first:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/meeplerank/config.yaml)
 3. Environment variables

# Configuration Structure

  - ServerConfig: HTTP listener, timeouts and environment
  - SecurityConfig: CORS origins and per-IP rate limiting
  - LoggingConfig: zerolog level, format and caller info
  - CatalogConfig: BadgerDB location, change event buffering, value log GC
    and the game read cache
  - SnapshotConfig: snapshot refresh cadence, rebuild spacing and circuit breaker
  - ScoringConfig: signal weights, scorer points and thresholds
  - SupervisorConfig: suture failure handling and shutdown timeout

# Environment Variables

Only mapped variables are read; see envTransformFunc for the full list.
A few common ones:

  - HTTP_PORT: listen port (default: 3857)
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - CATALOG_PATH: BadgerDB data directory (default: /data/catalog)
  - CATALOG_IN_MEMORY: keep the catalog in memory only (default: false)
  - SNAPSHOT_REFRESH_INTERVAL: periodic staleness check (default: 1m)
  - SCORING_WEIGHT_FAVORITE_MATCH: weight of the favorite-match signal (default: 1.0)
  - CORS_ORIGINS: comma-separated allowed origins (default: *)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	engineCfg := cfg.Scoring.EngineConfig()
*/
package config

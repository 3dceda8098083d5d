// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/meeplerank/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/meeplerank/config.yaml",
	"/etc/meeplerank/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3857,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			Path:        "/data/catalog",
			InMemory:    false,
			SyncWrites:  true,
			EventBuffer: 64,
			GCInterval:  10 * time.Minute,
			CacheSize:   5000,
			CacheTTL:    10 * time.Minute,
		},
		Snapshot: SnapshotConfig{
			RefreshInterval:    time.Minute,
			MinRebuildInterval: 2 * time.Second,
			RebuildBurst:       1,
			BuildTimeout:       30 * time.Second,
			BreakerMaxFailures: 3,
			BreakerTimeout:     30 * time.Second,
			Timezone:           "UTC",
		},
		Scoring: scoringFromEngine(recommend.DefaultConfig()),
		Supervisor: SupervisorConfig{
			FailureThreshold: 5.0,
			FailureDecay:     30.0,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port
	// SCORING_WEIGHT_RATING -> scoring.weights.rating
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file found, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices.
// Env vars arrive as strings while YAML lists are already slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog
	"catalog_path":         "catalog.path",
	"catalog_in_memory":    "catalog.in_memory",
	"catalog_sync_writes":  "catalog.sync_writes",
	"catalog_event_buffer": "catalog.event_buffer",
	"catalog_gc_interval":  "catalog.gc_interval",
	"catalog_cache_size":   "catalog.cache_size",
	"catalog_cache_ttl":    "catalog.cache_ttl",

	// Snapshot lifecycle
	"snapshot_refresh_interval":     "snapshot.refresh_interval",
	"snapshot_min_rebuild_interval": "snapshot.min_rebuild_interval",
	"snapshot_rebuild_burst":        "snapshot.rebuild_burst",
	"snapshot_build_timeout":        "snapshot.build_timeout",
	"snapshot_breaker_max_failures": "snapshot.breaker_max_failures",
	"snapshot_breaker_timeout":      "snapshot.breaker_timeout",
	"snapshot_timezone":             "snapshot.timezone",

	// Scoring weights
	"scoring_weight_rating":         "scoring.weights.rating",
	"scoring_weight_favorite_match": "scoring.weights.favorite_match",
	"scoring_weight_play_time":      "scoring.weights.play_time",
	"scoring_weight_players":        "scoring.weights.players",
	"scoring_weight_random_daily":   "scoring.weights.random_daily",
	"scoring_weight_recency":        "scoring.weights.recency",

	// Scoring points
	"scoring_points_best":                   "scoring.points.best",
	"scoring_points_recommended":            "scoring.points.recommended",
	"scoring_points_not_recommended":        "scoring.points.not_recommended",
	"scoring_points_new_game":               "scoring.points.new_game",
	"scoring_points_played_last_month":      "scoring.points.played_last_month",
	"scoring_points_played_last_six_months": "scoring.points.played_last_six_months",
	"scoring_points_unknown_play_time":      "scoring.points.unknown_play_time",
	"scoring_points_neutral_rating":         "scoring.points.neutral_rating",

	// Scoring thresholds
	"scoring_relevancy_percentile":      "scoring.relevancy_percentile",
	"scoring_minimum_poll_votes":        "scoring.minimum_poll_votes",
	"scoring_max_players_cutoff":        "scoring.max_players_cutoff",
	"scoring_recent_window_days":        "scoring.recent_window_days",
	"scoring_random_select_probability": "scoring.random_select_probability",

	// Supervisor
	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" and are skipped so that unrelated
// environment variables never leak into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package config

import (
	"time"

	"github.com/tomtom215/meeplerank/internal/catalog"
	"github.com/tomtom215/meeplerank/internal/logging"
	"github.com/tomtom215/meeplerank/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Snapshot   SnapshotConfig   `koanf:"snapshot"`
	Scoring    ScoringConfig    `koanf:"scoring"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production" (default: "development")
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// LoggerConfig converts to the logging package configuration.
func (l LoggingConfig) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	if l.Format != "" {
		cfg.Format = l.Format
	}
	cfg.Caller = l.Caller
	return cfg
}

// CatalogConfig holds catalog storage settings.
//
// Environment Variables:
//   - CATALOG_PATH: BadgerDB data directory (default: /data/catalog)
//   - CATALOG_IN_MEMORY: keep everything in memory (default: false)
//   - CATALOG_SYNC_WRITES: fsync every write (default: true)
//   - CATALOG_EVENT_BUFFER: change event buffer per subscriber (default: 64)
//   - CATALOG_GC_INTERVAL: value log GC period, 0 disables (default: 10m)
//   - CATALOG_CACHE_SIZE: games held in the read cache, 0 disables (default: 5000)
//   - CATALOG_CACHE_TTL: lifetime of a cached game (default: 10m)
type CatalogConfig struct {
	Path        string        `koanf:"path"`
	InMemory    bool          `koanf:"in_memory"`
	SyncWrites  bool          `koanf:"sync_writes"`
	EventBuffer int64         `koanf:"event_buffer"`
	GCInterval  time.Duration `koanf:"gc_interval"`
	CacheSize   int64         `koanf:"cache_size"`
	CacheTTL    time.Duration `koanf:"cache_ttl"`
}

// StoreOptions converts to the catalog database options.
func (c CatalogConfig) StoreOptions() catalog.Options {
	return catalog.Options{
		Path:       c.Path,
		InMemory:   c.InMemory,
		SyncWrites: c.SyncWrites,
	}
}

// SnapshotConfig controls when the recommendation snapshot is rebuilt.
//
// Environment Variables:
//   - SNAPSHOT_REFRESH_INTERVAL: staleness check period (default: 1m)
//   - SNAPSHOT_MIN_REBUILD_INTERVAL: minimum spacing of event-driven rebuilds (default: 2s)
//   - SNAPSHOT_REBUILD_BURST: rebuilds allowed back to back (default: 1)
//   - SNAPSHOT_BUILD_TIMEOUT: timeout for loading the catalog (default: 30s)
//   - SNAPSHOT_BREAKER_MAX_FAILURES: consecutive failures before the breaker opens (default: 3)
//   - SNAPSHOT_BREAKER_TIMEOUT: time the breaker stays open (default: 30s)
//   - SNAPSHOT_TIMEZONE: IANA zone used for calendar days (default: UTC)
type SnapshotConfig struct {
	RefreshInterval    time.Duration `koanf:"refresh_interval"`
	MinRebuildInterval time.Duration `koanf:"min_rebuild_interval"`
	RebuildBurst       int           `koanf:"rebuild_burst"`
	BuildTimeout       time.Duration `koanf:"build_timeout"`
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
	// Timezone sets the calendar for recency and play days. The daily
	// promotion always draws on the UTC date.
	Timezone string `koanf:"timezone"`
}

// Location resolves the configured timezone. Validate has already
// rejected unknown zones, so errors fall back to UTC.
func (s SnapshotConfig) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ScoringConfig mirrors recommend.Config with koanf tags.
type ScoringConfig struct {
	Weights                 WeightsConfig `koanf:"weights"`
	Points                  PointsConfig  `koanf:"points"`
	RelevancyPercentile     float64       `koanf:"relevancy_percentile"`
	MinimumPollVotes        int           `koanf:"minimum_poll_votes"`
	MaxPlayersCutoff        int           `koanf:"max_players_cutoff"`
	RecentWindowDays        int           `koanf:"recent_window_days"`
	RandomSelectProbability int           `koanf:"random_select_probability"`
}

// WeightsConfig holds per-signal weights.
type WeightsConfig struct {
	Rating        float64 `koanf:"rating"`
	FavoriteMatch float64 `koanf:"favorite_match"`
	PlayTime      float64 `koanf:"play_time"`
	Players       float64 `koanf:"players"`
	RandomDaily   float64 `koanf:"random_daily"`
	Recency       float64 `koanf:"recency"`
}

// PointsConfig holds the values emitted by categorical scorers.
type PointsConfig struct {
	Best                float64 `koanf:"best"`
	Recommended         float64 `koanf:"recommended"`
	NotRecommended      float64 `koanf:"not_recommended"`
	NewGame             float64 `koanf:"new_game"`
	PlayedLastMonth     float64 `koanf:"played_last_month"`
	PlayedLastSixMonths float64 `koanf:"played_last_six_months"`
	UnknownPlayTime     float64 `koanf:"unknown_play_time"`
	NeutralRating       float64 `koanf:"neutral_rating"`
}

func scoringFromEngine(c *recommend.Config) ScoringConfig {
	return ScoringConfig{
		Weights: WeightsConfig{
			Rating:        c.Weights.Rating,
			FavoriteMatch: c.Weights.FavoriteMatch,
			PlayTime:      c.Weights.PlayTime,
			Players:       c.Weights.Players,
			RandomDaily:   c.Weights.RandomDaily,
			Recency:       c.Weights.Recency,
		},
		Points: PointsConfig{
			Best:                c.Points.Best,
			Recommended:         c.Points.Recommended,
			NotRecommended:      c.Points.NotRecommended,
			NewGame:             c.Points.NewGame,
			PlayedLastMonth:     c.Points.PlayedLastMonth,
			PlayedLastSixMonths: c.Points.PlayedLastSixMonths,
			UnknownPlayTime:     c.Points.UnknownPlayTime,
			NeutralRating:       c.Points.NeutralRating,
		},
		RelevancyPercentile:     c.RelevancyPercentile,
		MinimumPollVotes:        c.MinimumPollVotes,
		MaxPlayersCutoff:        c.MaxPlayersCutoff,
		RecentWindowDays:        c.RecentWindowDays,
		RandomSelectProbability: c.RandomSelectProbability,
	}
}

// EngineConfig converts to the recommendation engine configuration.
func (s *ScoringConfig) EngineConfig() *recommend.Config {
	return &recommend.Config{
		Weights: recommend.Weights{
			Rating:        s.Weights.Rating,
			FavoriteMatch: s.Weights.FavoriteMatch,
			PlayTime:      s.Weights.PlayTime,
			Players:       s.Weights.Players,
			RandomDaily:   s.Weights.RandomDaily,
			Recency:       s.Weights.Recency,
		},
		Points: recommend.Points{
			Best:                s.Points.Best,
			Recommended:         s.Points.Recommended,
			NotRecommended:      s.Points.NotRecommended,
			NewGame:             s.Points.NewGame,
			PlayedLastMonth:     s.Points.PlayedLastMonth,
			PlayedLastSixMonths: s.Points.PlayedLastSixMonths,
			UnknownPlayTime:     s.Points.UnknownPlayTime,
			NeutralRating:       s.Points.NeutralRating,
		},
		RelevancyPercentile:     s.RelevancyPercentile,
		MinimumPollVotes:        s.MinimumPollVotes,
		MaxPlayersCutoff:        s.MaxPlayersCutoff,
		RecentWindowDays:        s.RecentWindowDays,
		RandomSelectProbability: s.RandomSelectProbability,
	}
}

// SupervisorConfig holds suture supervisor tree settings.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Load loads configuration from defaults, an optional file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

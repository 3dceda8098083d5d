// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/meeplerank/internal/catalog"
	"github.com/tomtom215/meeplerank/internal/metrics"
)

// SnapshotEngine is the part of recommend.Engine the service drives.
type SnapshotEngine interface {
	Rebuild(ctx context.Context) error
	RebuildIfStale(ctx context.Context) (bool, error)
}

// ChangeSubscriber delivers catalog change events. Satisfied by *catalog.Events.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

// SnapshotServiceConfig controls rebuild timing.
type SnapshotServiceConfig struct {
	// RefreshInterval is how often the engine checks for a changed catalog
	// version or a new calendar day.
	// Default: 1m
	RefreshInterval time.Duration

	// MinRebuildInterval spaces rebuilds triggered by change events.
	// Events arriving inside the window are coalesced into one rebuild.
	// Zero disables spacing.
	MinRebuildInterval time.Duration

	// RebuildBurst is the number of back-to-back event rebuilds allowed.
	// Default: 1
	RebuildBurst int

	// BuildTimeout bounds a single rebuild.
	// Default: 30s
	BuildTimeout time.Duration

	// BreakerMaxFailures is the number of consecutive failed rebuilds that
	// opens the breaker.
	// Default: 3
	BreakerMaxFailures uint32

	// BreakerTimeout is how long the breaker stays open before a trial rebuild.
	// Default: 30s
	BreakerTimeout time.Duration
}

func (c *SnapshotServiceConfig) applyDefaults() {
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = time.Minute
	}
	if c.RebuildBurst <= 0 {
		c.RebuildBurst = 1
	}
	if c.BuildTimeout <= 0 {
		c.BuildTimeout = 30 * time.Second
	}
	if c.BreakerMaxFailures == 0 {
		c.BreakerMaxFailures = 3
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = 30 * time.Second
	}
}

// SnapshotService keeps the recommendation snapshot current.
//
// It builds once on start, then rebuilds when the refresh ticker finds the
// snapshot stale or when a catalog change event arrives. Rebuilds run
// through a circuit breaker; while it is open the last good snapshot keeps
// serving and attempts are skipped.
type SnapshotService struct {
	engine  SnapshotEngine
	events  ChangeSubscriber
	config  SnapshotServiceConfig
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[bool]
	logger  zerolog.Logger
	name    string
}

// NewSnapshotService creates the service. events may be nil, leaving the
// ticker as the only trigger.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotService(engine SnapshotEngine, events ChangeSubscriber, cfg SnapshotServiceConfig, logger zerolog.Logger) *SnapshotService {
	cfg.applyDefaults()

	s := &SnapshotService{
		engine: engine,
		events: events,
		config: cfg,
		logger: logger.With().Str("service", "snapshot").Logger(),
		name:   "snapshot-service",
	}

	limit := rate.Inf
	if cfg.MinRebuildInterval > 0 {
		limit = rate.Every(cfg.MinRebuildInterval)
	}
	s.limiter = rate.NewLimiter(limit, cfg.RebuildBurst)

	breakerName := "snapshot-rebuild"
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	s.breaker = gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		// Shutdown cancels in-flight rebuilds; that is not a catalog failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("snapshot circuit breaker state change")
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String(), breakerStateValue(to))
		},
	})

	return s
}

func breakerStateValue(st gobreaker.State) float64 {
	switch st {
	case gobreaker.StateOpen:
		return 2
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 0
	}
}

// Serve implements suture.Service.
func (s *SnapshotService) Serve(ctx context.Context) error {
	var changes <-chan *message.Message
	if s.events != nil {
		msgs, err := s.events.Subscribe(ctx)
		if err != nil {
			return fmt.Errorf("subscribe to catalog changes: %w", err)
		}
		changes = msgs
	}

	s.logger.Info().
		Dur("refresh_interval", s.config.RefreshInterval).
		Dur("min_rebuild_interval", s.config.MinRebuildInterval).
		Bool("change_events", changes != nil).
		Msg("snapshot service starting")

	if _, err := s.refresh(ctx, true); err != nil {
		s.logger.Warn().Err(err).Msg("initial snapshot build failed, retrying on schedule")
	}

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	var (
		pending bool
		retry   <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.refresh(ctx, false); err != nil {
				s.logger.Debug().Err(err).Msg("scheduled snapshot refresh failed")
			}

		case msg, ok := <-changes:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("catalog change subscription closed")
			}
			s.consume(msg)
			pending = true

		case <-retry:
			retry = nil
		}

		if pending && retry == nil {
			res := s.limiter.Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				retry = time.After(delay)
				continue
			}
			pending = false
			if _, err := s.refresh(ctx, false); err != nil {
				s.logger.Debug().Err(err).Msg("change-triggered snapshot refresh failed")
			}
		}
	}
}

func (s *SnapshotService) consume(msg *message.Message) {
	msg.Ack()
	metrics.RecordCatalogEvent("consumed")

	ev, err := catalog.DecodeChangeEvent(msg)
	if err != nil {
		s.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("undecodable catalog change event")
		return
	}
	s.logger.Debug().
		Str("kind", string(ev.Kind)).
		Uint64("version", ev.Version).
		Int("games", len(ev.GameIDs)).
		Msg("catalog change received")
}

// refresh rebuilds through the breaker. force skips the staleness check.
func (s *SnapshotService) refresh(ctx context.Context, force bool) (bool, error) {
	buildCtx, cancel := context.WithTimeout(ctx, s.config.BuildTimeout)
	defer cancel()

	rebuilt, err := s.breaker.Execute(func() (bool, error) {
		if force {
			if err := s.engine.Rebuild(buildCtx); err != nil {
				return false, err
			}
			return true, nil
		}
		return s.engine.RebuildIfStale(buildCtx)
	})

	name := s.breaker.Name()
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordCircuitBreakerRequest(name, "rejected")
		return false, err
	case err != nil:
		metrics.RecordCircuitBreakerRequest(name, "failure")
		return false, err
	}

	metrics.RecordCircuitBreakerRequest(name, "success")
	if rebuilt {
		s.logger.Debug().Bool("forced", force).Msg("snapshot rebuilt")
	}
	return rebuilt, nil
}

// String implements fmt.Stringer for suture logs.
func (s *SnapshotService) String() string {
	return s.name
}

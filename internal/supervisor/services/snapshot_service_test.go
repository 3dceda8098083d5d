// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/meeplerank/internal/catalog"
)

var _ suture.Service = (*SnapshotService)(nil)

type fakeEngine struct {
	rebuilds    atomic.Int32
	staleChecks atomic.Int32
	fail        atomic.Bool
}

func (f *fakeEngine) Rebuild(ctx context.Context) error {
	f.rebuilds.Add(1)
	if f.fail.Load() {
		return errors.New("catalog unavailable")
	}
	return nil
}

func (f *fakeEngine) RebuildIfStale(ctx context.Context) (bool, error) {
	f.staleChecks.Add(1)
	if f.fail.Load() {
		return false, errors.New("catalog unavailable")
	}
	return true, nil
}

// closingSubscriber hands out a channel the test controls.
type closingSubscriber struct {
	ch chan *message.Message
}

func (c *closingSubscriber) Subscribe(context.Context) (<-chan *message.Message, error) {
	return c.ch, nil
}

type failingSubscriber struct{}

func (failingSubscriber) Subscribe(context.Context) (<-chan *message.Message, error) {
	return nil, errors.New("pubsub closed")
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func runService(t *testing.T, svc *SnapshotService) (cancel func() error) {
	t.Helper()
	ctx, stop := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	return func() error {
		stop()
		select {
		case err := <-errCh:
			return err
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancellation")
			return nil
		}
	}
}

func TestSnapshotServiceConfig_Defaults(t *testing.T) {
	svc := NewSnapshotService(&fakeEngine{}, nil, SnapshotServiceConfig{}, zerolog.Nop())

	cfg := svc.config
	if cfg.RefreshInterval != time.Minute || cfg.RebuildBurst != 1 || cfg.BuildTimeout != 30*time.Second {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.BreakerMaxFailures != 3 || cfg.BreakerTimeout != 30*time.Second {
		t.Errorf("breaker config = %+v", cfg)
	}
	if svc.String() != "snapshot-service" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestSnapshotService_BuildsOnStart(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewSnapshotService(engine, nil, SnapshotServiceConfig{RefreshInterval: time.Hour}, zerolog.Nop())

	stop := runService(t, svc)
	eventually(t, func() bool { return engine.rebuilds.Load() == 1 })

	if err := stop(); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
}

func TestSnapshotService_StartupFailureKeepsRunning(t *testing.T) {
	engine := &fakeEngine{}
	engine.fail.Store(true)
	svc := NewSnapshotService(engine, nil, SnapshotServiceConfig{RefreshInterval: 10 * time.Millisecond}, zerolog.Nop())

	stop := runService(t, svc)
	eventually(t, func() bool { return engine.staleChecks.Load() >= 1 })

	engine.fail.Store(false)
	if err := stop(); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
}

func TestSnapshotService_RefreshTicker(t *testing.T) {
	engine := &fakeEngine{}
	svc := NewSnapshotService(engine, nil, SnapshotServiceConfig{RefreshInterval: 10 * time.Millisecond}, zerolog.Nop())

	stop := runService(t, svc)
	eventually(t, func() bool { return engine.staleChecks.Load() >= 3 })
	_ = stop()
}

func TestSnapshotService_ChangeEvents(t *testing.T) {
	events := catalog.NewEvents(catalog.EventsConfig{OutputBuffer: 16}, nil)
	t.Cleanup(func() { _ = events.Close() })

	engine := &fakeEngine{}
	svc := NewSnapshotService(engine, events, SnapshotServiceConfig{RefreshInterval: time.Hour}, zerolog.Nop())

	stop := runService(t, svc)
	defer func() { _ = stop() }()

	// The initial build runs after the subscription is in place.
	eventually(t, func() bool { return engine.rebuilds.Load() == 1 })

	events.NotifyChanged(context.Background(), catalog.ChangeEvent{
		Kind:    catalog.ChangeGamePut,
		GameIDs: []string{"1"},
		Version: 2,
		At:      time.Now(),
	})

	eventually(t, func() bool { return engine.staleChecks.Load() == 1 })
}

func TestSnapshotService_CoalescesBursts(t *testing.T) {
	sub := &closingSubscriber{ch: make(chan *message.Message, 8)}
	engine := &fakeEngine{}
	svc := NewSnapshotService(engine, sub, SnapshotServiceConfig{
		RefreshInterval:    time.Hour,
		MinRebuildInterval: time.Hour,
		RebuildBurst:       1,
	}, zerolog.Nop())

	stop := runService(t, svc)
	defer func() { _ = stop() }()
	eventually(t, func() bool { return engine.rebuilds.Load() == 1 })

	for i := 0; i < 5; i++ {
		sub.ch <- message.NewMessage("evt", []byte(`{"kind":"game_put"}`))
	}

	eventually(t, func() bool { return engine.staleChecks.Load() == 1 })
	time.Sleep(50 * time.Millisecond)
	if got := engine.staleChecks.Load(); got != 1 {
		t.Errorf("staleChecks = %d, want 1 while the limiter window is open", got)
	}
}

func TestSnapshotService_SubscriptionErrors(t *testing.T) {
	t.Run("subscribe failure", func(t *testing.T) {
		svc := NewSnapshotService(&fakeEngine{}, failingSubscriber{}, SnapshotServiceConfig{}, zerolog.Nop())
		if err := svc.Serve(context.Background()); err == nil {
			t.Error("expected an error when the subscription cannot be created")
		}
	})

	t.Run("closed subscription", func(t *testing.T) {
		sub := &closingSubscriber{ch: make(chan *message.Message)}
		engine := &fakeEngine{}
		svc := NewSnapshotService(engine, sub, SnapshotServiceConfig{RefreshInterval: time.Hour}, zerolog.Nop())

		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(context.Background()) }()

		eventually(t, func() bool { return engine.rebuilds.Load() == 1 })
		close(sub.ch)

		select {
		case err := <-errCh:
			if err == nil || errors.Is(err, context.Canceled) {
				t.Errorf("Serve() error = %v, want a restartable error", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after the subscription closed")
		}
	})
}

func TestSnapshotService_CircuitBreaker(t *testing.T) {
	engine := &fakeEngine{}
	engine.fail.Store(true)
	svc := NewSnapshotService(engine, nil, SnapshotServiceConfig{
		BreakerMaxFailures: 2,
		BreakerTimeout:     time.Hour,
	}, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.refresh(ctx, false); err == nil || errors.Is(err, gobreaker.ErrOpenState) {
			t.Fatalf("refresh %d error = %v, want the engine error", i, err)
		}
	}

	if _, err := svc.refresh(ctx, true); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("refresh error = %v, want ErrOpenState", err)
	}
	if got := engine.staleChecks.Load() + engine.rebuilds.Load(); got != 2 {
		t.Errorf("engine called %d times, want 2", got)
	}
	if svc.breaker.State() != gobreaker.StateOpen {
		t.Errorf("State() = %v, want open", svc.breaker.State())
	}
}

func TestSnapshotService_CanceledBuildDoesNotTrip(t *testing.T) {
	engine := &canceledEngine{}
	svc := NewSnapshotService(engine, nil, SnapshotServiceConfig{BreakerMaxFailures: 1}, zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, _ = svc.refresh(context.Background(), false)
	}
	if svc.breaker.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, want closed", svc.breaker.State())
	}
}

type canceledEngine struct{}

func (canceledEngine) Rebuild(context.Context) error { return context.Canceled }

func (canceledEngine) RebuildIfStale(context.Context) (bool, error) { return false, context.Canceled }

func TestBreakerStateValue(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		want  float64
	}{
		{gobreaker.StateClosed, 0},
		{gobreaker.StateHalfOpen, 1},
		{gobreaker.StateOpen, 2},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := breakerStateValue(tt.state); got != tt.want {
				t.Errorf("breakerStateValue(%v) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

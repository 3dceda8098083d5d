// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/meeplerank/internal/catalog"
	"github.com/tomtom215/meeplerank/internal/models"
	"github.com/tomtom215/meeplerank/internal/recommend"
)

var testNow = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store  *catalog.BadgerStore
	engine *recommend.Engine
	router http.Handler
}

// envelope mirrors models.APIResponse with a raw data payload.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func newTestEnv(t *testing.T, mw *ChiMiddleware) *testEnv {
	t.Helper()

	db, err := catalog.OpenDB(catalog.Options{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := catalog.NewBadgerStore(db, nil)

	cfg := recommend.DefaultConfig()
	cfg.RandomSelectProbability = 0
	clock := recommend.FixedClock(testNow)

	engine, err := recommend.NewEngine(cfg, store, clock, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	if mw == nil {
		mw = NewChiMiddlewareFromSettings([]string{"*"}, 1000, time.Minute, false)
	}
	handler := NewHandler(store, engine, HandlerConfig{Clock: clock})

	return &testEnv{
		store:  store,
		engine: engine,
		router: NewRouter(handler, mw).SetupChi(),
	}
}

func seedCatalog(t *testing.T, env *testEnv) {
	t.Helper()

	games := []*models.Game{
		{
			ID: "1", Name: "Alpha", OwnedByClub: true,
			Categories: []string{"Economic"}, Mechanics: []string{"Deck Building"},
			MinPlayers: models.IntPtr(2), MaxPlayers: models.IntPtr(4),
			MinPlayTimeMinutes: models.IntPtr(30), MaxPlayTimeMinutes: models.IntPtr(60),
			BayesAverageRating: models.FloatPtr(7.5),
		},
		{
			ID: "2", Name: "Beta", OwnedByClub: true,
			Categories: []string{"Economic"}, Mechanics: []string{"Auction"},
			MinPlayers: models.IntPtr(3), MaxPlayers: models.IntPtr(5),
			BayesAverageRating: models.FloatPtr(6.5),
		},
		{
			ID: "3", Name: "Gamma", OwnedByClub: true,
			Categories:         []string{"Party"},
			BayesAverageRating: models.FloatPtr(5.5),
		},
		{
			ID: "4", Name: "Delta", OwnedByClub: false,
			Categories: []string{"Economic"},
		},
	}
	if _, err := env.store.PutBatch(context.Background(), games); err != nil {
		t.Fatalf("PutBatch() error = %v", err)
	}
}

func (env *testEnv) rebuild(t *testing.T) {
	t.Helper()
	if err := env.engine.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %q: %v", env.Data, err)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != code {
		t.Errorf("error code = %q, want %q", env.Error.Code, code)
	}
}

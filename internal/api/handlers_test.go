// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/tomtom215/meeplerank/internal/catalog"
	"github.com/tomtom215/meeplerank/internal/models"
	"github.com/tomtom215/meeplerank/internal/recommend"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	seedCatalog(t, env)

	t.Run("degraded before the first build", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/health", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := decodeEnvelope(t, rec).Status; got != "degraded" {
			t.Errorf("Status = %q, want degraded", got)
		}

		rec = env.do(t, http.MethodGet, "/api/v1/health/ready", nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("ready status = %d, want 503", rec.Code)
		}
	})

	env.rebuild(t)

	t.Run("healthy after build", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/health", nil)
		resp := decodeEnvelope(t, rec)
		if resp.Status != "healthy" {
			t.Errorf("Status = %q, want healthy", resp.Status)
		}
		var data map[string]interface{}
		decodeData(t, rec, &data)
		if data["snapshot_ready"] != true || data["catalog_reachable"] != true {
			t.Errorf("data = %v", data)
		}

		rec = env.do(t, http.MethodGet, "/api/v1/health/ready", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("ready status = %d, want 200", rec.Code)
		}
		if got := decodeEnvelope(t, rec).Metadata.SnapshotVersion; got != 1 {
			t.Errorf("SnapshotVersion = %d, want 1", got)
		}
	})
}

func TestGames(t *testing.T) {
	env := newTestEnv(t, nil)
	seedCatalog(t, env)

	t.Run("list", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/games", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var games []models.Game
		decodeData(t, rec, &games)
		if len(games) != 4 {
			t.Fatalf("len = %d, want 4", len(games))
		}
		if games[0].ID != "1" || games[3].ID != "4" {
			t.Errorf("order = %s..%s, want insertion order", games[0].ID, games[3].ID)
		}
	})

	t.Run("list owned only", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/games?owned=true", nil)
		var games []models.Game
		decodeData(t, rec, &games)
		if len(games) != 3 {
			t.Errorf("len = %d, want 3", len(games))
		}
		for _, g := range games {
			if !g.OwnedByClub {
				t.Errorf("game %s is not owned", g.ID)
			}
		}
	})

	t.Run("list invalid owned filter", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/games?owned=maybe", nil)
		expectError(t, rec, http.StatusBadRequest, models.ErrCodeValidation)
	})

	t.Run("get", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/games/2", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var g models.Game
		decodeData(t, rec, &g)
		if g.Name != "Beta" {
			t.Errorf("Name = %q, want Beta", g.Name)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/games/404", nil)
		expectError(t, rec, http.StatusNotFound, models.ErrCodeNotFound)
	})

	t.Run("get invalid id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/games/abc", nil)
		expectError(t, rec, http.StatusBadRequest, models.ErrCodeValidation)
	})
}

func TestPutGame(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPut, "/api/v1/games/10", map[string]interface{}{
		"name":          "Azul",
		"owned_by_club": true,
		"categories":    []string{"Abstract"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var created models.Game
	decodeData(t, rec, &created)
	if created.ID != "10" {
		t.Errorf("ID = %q, want the path id", created.ID)
	}

	rec = env.do(t, http.MethodPut, "/api/v1/games/10", map[string]interface{}{
		"id":   "10",
		"name": "Azul (2nd edition)",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("replace status = %d, want 200", rec.Code)
	}
	g, err := env.store.Get(context.Background(), "10")
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "Azul (2nd edition)" {
		t.Errorf("stored Name = %q", g.Name)
	}

	tests := []struct {
		name string
		path string
		body interface{}
		code string
	}{
		{"id mismatch", "/api/v1/games/10", map[string]interface{}{"id": "11", "name": "X"}, models.ErrCodeValidation},
		{"missing name", "/api/v1/games/10", map[string]interface{}{"owned_by_club": true}, models.ErrCodeValidation},
		{"invalid owned_since", "/api/v1/games/10", map[string]interface{}{"name": "X", "owned_since": "June"}, models.ErrCodeValidation},
		{"rating out of range", "/api/v1/games/10", map[string]interface{}{"name": "X", "bayes_average_rating": 11.0}, models.ErrCodeValidation},
		{"non-numeric id", "/api/v1/games/abc", map[string]interface{}{"name": "X"}, models.ErrCodeValidation},
		{"unknown field", "/api/v1/games/10", map[string]interface{}{"name": "X", "publisher": "Y"}, models.ErrCodeBadRequest},
		{"malformed json", "/api/v1/games/10", `{"name":`, models.ErrCodeBadRequest},
		{"empty body", "/api/v1/games/10", "", models.ErrCodeBadRequest},
		{"trailing data", "/api/v1/games/10", `{"name":"X"}{"name":"Y"}`, models.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPut, tt.path, tt.body)
			expectError(t, rec, http.StatusBadRequest, tt.code)
		})
	}
}

func TestDeleteGame(t *testing.T) {
	env := newTestEnv(t, nil)
	seedCatalog(t, env)

	rec := env.do(t, http.MethodDelete, "/api/v1/games/3", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/games/3", nil)
	expectError(t, rec, http.StatusNotFound, models.ErrCodeNotFound)

	rec = env.do(t, http.MethodDelete, "/api/v1/games/3", nil)
	expectError(t, rec, http.StatusNotFound, models.ErrCodeNotFound)
}

func TestBatchGames(t *testing.T) {
	env := newTestEnv(t, nil)
	seedCatalog(t, env)

	rec := env.do(t, http.MethodPost, "/api/v1/games/batch", map[string]interface{}{
		"additions": []map[string]interface{}{
			{"id": "20", "name": "Carcassonne", "owned_by_club": true},
			{"id": "21", "name": "Dominion", "owned_by_club": true},
		},
		"updates": []map[string]interface{}{
			{"id": "1", "name": "Alpha Deluxe", "owned_by_club": true},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var result catalog.BatchResult
	decodeData(t, rec, &result)
	if result.Added != 2 || result.Updated != 1 {
		t.Errorf("result = %+v, want 2 added and 1 updated", result)
	}
	if result.Version != 2 {
		t.Errorf("Version = %d, want 2", result.Version)
	}

	t.Run("invalid game rejects the whole batch", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/games/batch", map[string]interface{}{
			"additions": []map[string]interface{}{
				{"id": "30", "name": "Valid"},
				{"id": "31"},
			},
		})
		expectError(t, rec, http.StatusBadRequest, models.ErrCodeValidation)
		if _, err := env.store.Get(context.Background(), "30"); err == nil {
			t.Error("game 30 was stored from a rejected batch")
		}
	})
}

func TestRecordPlay(t *testing.T) {
	env := newTestEnv(t, nil)
	seedCatalog(t, env)

	t.Run("explicit day", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/games/2/plays", map[string]string{
			"day":      "2024-06-15",
			"location": "club",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
		}
		var resp PlayResponse
		decodeData(t, rec, &resp)
		if resp.Game.LastPlayed != "2024-06-15" || resp.Game.TotalPlays != 1 {
			t.Errorf("game = %+v", resp.Game)
		}
		if resp.Play.ID == "" || resp.Play.GameID != "2" {
			t.Errorf("play = %+v", resp.Play)
		}
		if !resp.Play.RecordedAt.Equal(testNow) {
			t.Errorf("RecordedAt = %v, want %v", resp.Play.RecordedAt, testNow)
		}
	})

	t.Run("day defaults to today", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/games/2/plays", map[string]string{"location": "home"})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp PlayResponse
		decodeData(t, rec, &resp)
		if resp.Play.Day != "2024-06-30" {
			t.Errorf("Day = %q, want 2024-06-30", resp.Play.Day)
		}
		if resp.Game.LastPlayed != "2024-06-30" || resp.Game.TotalPlays != 2 {
			t.Errorf("game = %+v", resp.Game)
		}
	})

	t.Run("older play keeps last played", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/games/2/plays", map[string]string{
			"day":      "2023-01-01",
			"location": "festival",
		})
		var resp PlayResponse
		decodeData(t, rec, &resp)
		if resp.Game.LastPlayed != "2024-06-30" {
			t.Errorf("LastPlayed = %q, want 2024-06-30", resp.Game.LastPlayed)
		}
	})

	t.Run("list plays", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/games/2/plays", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var plays []models.PlayActivity
		decodeData(t, rec, &plays)
		if len(plays) != 3 {
			t.Errorf("len = %d, want 3", len(plays))
		}

		rec = env.do(t, http.MethodGet, "/api/v1/games/3/plays", nil)
		decodeData(t, rec, &plays)
		if plays == nil || len(plays) != 0 {
			t.Errorf("plays = %v, want an empty list", plays)
		}
	})

	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"missing location", "/api/v1/games/2/plays", map[string]string{"day": "2024-06-01"}, http.StatusBadRequest, models.ErrCodeValidation},
		{"unknown location", "/api/v1/games/2/plays", map[string]string{"location": "garden"}, http.StatusBadRequest, models.ErrCodeValidation},
		{"invalid day", "/api/v1/games/2/plays", map[string]string{"day": "2024-02-30", "location": "club"}, http.StatusBadRequest, models.ErrCodeValidation},
		{"unknown game", "/api/v1/games/404/plays", map[string]string{"location": "club"}, http.StatusNotFound, models.ErrCodeNotFound},
		{"invalid game id", "/api/v1/games/x1/plays", map[string]string{"location": "club"}, http.StatusBadRequest, models.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tt.path, tt.body)
			expectError(t, rec, tt.status, tt.code)
		})
	}
}

func TestRecommend(t *testing.T) {
	env := newTestEnv(t, nil)
	seedCatalog(t, env)

	req := map[string]interface{}{
		"favorite_ids":  []string{"1"},
		"player_counts": []int{4},
	}

	t.Run("not ready", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/recommendations", req)
		expectError(t, rec, http.StatusServiceUnavailable, models.ErrCodeNotReady)
	})

	env.rebuild(t)

	t.Run("ranks games sharing terms with favorites", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/recommendations", req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
		}
		meta := decodeEnvelope(t, rec).Metadata
		if meta.SnapshotVersion != 1 {
			t.Errorf("SnapshotVersion = %d, want 1", meta.SnapshotVersion)
		}
		if !meta.Timestamp.Equal(testNow) {
			t.Errorf("Timestamp = %v, want the handler clock %v", meta.Timestamp, testNow)
		}

		var result recommend.RankResult
		decodeData(t, rec, &result)
		if result.Total == 0 || len(result.Games) != result.Total {
			t.Fatalf("Total = %d, len = %d", result.Total, len(result.Games))
		}
		for i, sg := range result.Games {
			if sg.Game.ID == "3" {
				t.Error("game 3 shares nothing with the favorites and should be excluded")
			}
			if i > 0 && sg.Score > result.Games[i-1].Score {
				t.Errorf("games not sorted by score at %d", i)
			}
		}
	})

	t.Run("no favorites ranks the whole catalog", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{
			"player_counts": []int{2, 3},
		})
		var result recommend.RankResult
		decodeData(t, rec, &result)
		if result.Total != 4 {
			t.Errorf("Total = %d, want 4", result.Total)
		}
	})

	t.Run("limit", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{
			"player_counts": []int{2},
			"limit":         2,
		})
		var result recommend.RankResult
		decodeData(t, rec, &result)
		if len(result.Games) != 2 || result.Total != 4 {
			t.Errorf("len = %d, Total = %d; want 2 and 4", len(result.Games), result.Total)
		}
	})

	t.Run("unknown candidates are reported", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{
			"candidate_ids": []string{"1", "999"},
			"player_counts": []int{2},
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var result recommend.RankResult
		decodeData(t, rec, &result)
		if result.Total != 1 {
			t.Errorf("Total = %d, want 1", result.Total)
		}
		if len(result.UnknownCandidates) != 1 || result.UnknownCandidates[0] != "999" {
			t.Errorf("UnknownCandidates = %v", result.UnknownCandidates)
		}
	})

	tests := []struct {
		name   string
		body   interface{}
		status int
		code   string
	}{
		{"unknown favorite", map[string]interface{}{"favorite_ids": []string{"999"}, "player_counts": []int{2}}, http.StatusBadRequest, models.ErrCodeBadRequest},
		{"non-numeric favorite", map[string]interface{}{"favorite_ids": []string{"abc"}, "player_counts": []int{2}}, http.StatusBadRequest, models.ErrCodeValidation},
		{"missing player counts", map[string]interface{}{"favorite_ids": []string{"1"}}, http.StatusBadRequest, models.ErrCodeValidation},
		{"empty player counts", map[string]interface{}{"player_counts": []int{}}, http.StatusBadRequest, models.ErrCodeValidation},
		{"zero player count", map[string]interface{}{"player_counts": []int{0}}, http.StatusBadRequest, models.ErrCodeValidation},
		{"inverted play time", map[string]interface{}{"player_counts": []int{2}, "play_time": map[string]int{"low": 90, "high": 30}}, http.StatusBadRequest, models.ErrCodeValidation},
		{"negative limit", map[string]interface{}{"player_counts": []int{2}, "limit": -1}, http.StatusBadRequest, models.ErrCodeValidation},
		{"unknown field", map[string]interface{}{"player_counts": []int{2}, "mood": "happy"}, http.StatusBadRequest, models.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/recommendations", tt.body)
			expectError(t, rec, tt.status, tt.code)
		})
	}
}

func TestRecommendStatusAndConfig(t *testing.T) {
	env := newTestEnv(t, nil)
	seedCatalog(t, env)
	env.rebuild(t)

	rec := env.do(t, http.MethodGet, "/api/v1/recommendations/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var st recommend.Status
	decodeData(t, rec, &st)
	if !st.Ready || st.CatalogSize != 4 || st.OwnedGames != 3 || st.Builds != 1 {
		t.Errorf("Status = %+v", st)
	}
	if st.PromotionDay != "2024-06-30" {
		t.Errorf("PromotionDay = %q", st.PromotionDay)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/recommendations/config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var cfg recommend.Config
	decodeData(t, rec, &cfg)
	want := recommend.DefaultConfig()
	if cfg.Weights != want.Weights {
		t.Errorf("Weights = %+v, want %+v", cfg.Weights, want.Weights)
	}
	if cfg.RandomSelectProbability != 0 {
		t.Errorf("RandomSelectProbability = %d, want the engine's value 0", cfg.RandomSelectProbability)
	}
}

func TestRecommendReflectsRebuild(t *testing.T) {
	env := newTestEnv(t, nil)
	seedCatalog(t, env)
	env.rebuild(t)

	rec := env.do(t, http.MethodPut, "/api/v1/games/50", map[string]interface{}{
		"name":          "Newcomer",
		"owned_by_club": true,
		"categories":    []string{"Economic"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	body := map[string]interface{}{"candidate_ids": []string{"50"}, "player_counts": []int{2}}

	var result recommend.RankResult
	decodeData(t, env.do(t, http.MethodPost, "/api/v1/recommendations", body), &result)
	if result.Total != 0 || len(result.UnknownCandidates) != 1 {
		t.Errorf("stale snapshot should not know game 50: %+v", result)
	}

	rebuilt, err := env.engine.RebuildIfStale(context.Background())
	if err != nil || !rebuilt {
		t.Fatalf("RebuildIfStale() = %v, %v", rebuilt, err)
	}

	decodeData(t, env.do(t, http.MethodPost, "/api/v1/recommendations", body), &result)
	if result.Total != 1 || result.SnapshotVersion != 2 {
		t.Errorf("Total = %d, SnapshotVersion = %d; want 1 and 2", result.Total, result.SnapshotVersion)
	}
}

// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package scorers

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/meeplerank/internal/models"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func rated(id string, owned bool, r float64) *models.Game {
	return &models.Game{ID: id, Name: "g" + id, OwnedByClub: owned, BayesAverageRating: models.FloatPtr(r)}
}

func TestRatingScorer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		games []*models.Game
		want  map[string]float64
	}{
		{
			name: "normalizes against owned range",
			games: []*models.Game{
				rated("1", true, 6), rated("2", true, 8), rated("3", true, 7),
			},
			want: map[string]float64{"1": 0, "2": 1, "3": 0.5},
		},
		{
			name: "unowned games outside the range are clamped",
			games: []*models.Game{
				rated("1", true, 6), rated("2", true, 8), rated("3", false, 9), rated("4", false, 5),
			},
			want: map[string]float64{"1": 0, "2": 1, "3": 1, "4": 0},
		},
		{
			name: "single distinct rating is neutral",
			games: []*models.Game{
				rated("1", true, 7), rated("2", true, 7), rated("3", false, 9),
			},
			want: map[string]float64{"1": 0.5, "2": 0.5, "3": 0.5},
		},
		{
			name: "unrated games are omitted",
			games: []*models.Game{
				rated("1", true, 6), rated("2", true, 8), {ID: "3", OwnedByClub: true}, rated("4", true, 0),
			},
			want: map[string]float64{"1": 0, "2": 1},
		},
		{
			name:  "empty catalog",
			games: nil,
			want:  map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewRatingScorer(tt.games, 0.5)
			got := s.Score(tt.games)
			if len(got.Scores) != len(tt.want) {
				t.Fatalf("got %d scores, want %d: %v", len(got.Scores), len(tt.want), got.Scores)
			}
			for id, want := range tt.want {
				if v, ok := got.Scores[id]; !ok || !almostEqual(v, want) {
					t.Errorf("score[%s] = %v (present=%v), want %v", id, v, ok, want)
				}
			}
			if len(got.Relevant) != 0 {
				t.Errorf("rating scorer should not flag relevance, got %v", got.Relevant)
			}
		})
	}
}

func tagged(id string, owned bool, categories, mechanics []string) *models.Game {
	return &models.Game{ID: id, Name: "g" + id, OwnedByClub: owned, Categories: categories, Mechanics: mechanics}
}

func TestFavoriteMatchScorer_Weights(t *testing.T) {
	t.Parallel()

	games := []*models.Game{
		tagged("A", true, []string{"X"}, []string{"M"}),
		tagged("B", true, []string{"X"}, nil),
		tagged("C", true, []string{"Y"}, nil),
		tagged("D", false, []string{"Z"}, nil),
	}
	s := NewFavoriteMatchScorer(games, zerolog.Nop())

	wantX := 1 - math.Log(2)/math.Log(3)
	if got := s.Weight("category:X"); !almostEqual(got, wantX) {
		t.Errorf("weight(category:X) = %v, want %v", got, wantX)
	}
	if got := s.Weight("mechanic:M"); !almostEqual(got, 1) {
		t.Errorf("weight(mechanic:M) = %v, want 1", got)
	}
	if got := s.Weight("category:Z"); got != 0 {
		t.Errorf("terms of unowned games must not be weighted, got %v", got)
	}
}

func TestFavoriteMatchScorer_Score(t *testing.T) {
	t.Parallel()

	a := tagged("A", true, []string{"X"}, []string{"M"})
	b := tagged("B", true, []string{"X"}, nil)
	c := tagged("C", true, []string{"Y"}, nil)
	d := tagged("D", false, []string{"X"}, nil)
	games := []*models.Game{a, b, c, d}

	var buf bytes.Buffer
	s := NewFavoriteMatchScorer(games, zerolog.New(&buf))
	wX := 1 - math.Log(2)/math.Log(3)

	t.Run("single favorite", func(t *testing.T) {
		got := s.Score(games, []*models.Game{a})
		if !almostEqual(got.Get("A"), 1) {
			t.Errorf("A = %v, want 1", got.Get("A"))
		}
		if want := wX / (wX + 1); !almostEqual(got.Get("B"), want) {
			t.Errorf("B = %v, want %v", got.Get("B"), want)
		}
		if v, ok := got.Scores["C"]; !ok || v != 0 {
			t.Errorf("C = %v (present=%v), want 0 present", v, ok)
		}
		if _, ok := got.Scores["D"]; ok {
			t.Error("unowned candidate should be skipped")
		}
	})

	t.Run("weights accumulate per favorite occurrence", func(t *testing.T) {
		got := s.Score(games, []*models.Game{a, b})
		want := 2 * wX / (2*wX + 1)
		if !almostEqual(got.Get("B"), want) {
			t.Errorf("B = %v, want %v", got.Get("B"), want)
		}
	})

	t.Run("no overlap normalizes by one", func(t *testing.T) {
		got := s.Score([]*models.Game{c}, []*models.Game{a})
		if v, ok := got.Scores["C"]; !ok || v != 0 {
			t.Errorf("C = %v (present=%v), want 0", v, ok)
		}
	})

	t.Run("skipped candidates share one warning", func(t *testing.T) {
		buf.Reset()
		e := tagged("E", false, []string{"Y"}, nil)
		s.Score([]*models.Game{a, d, e}, []*models.Game{a})

		out := buf.String()
		if n := strings.Count(out, "\n"); n != 1 {
			t.Fatalf("logged %d lines, want 1: %q", n, out)
		}
		if !strings.Contains(out, "\"level\":\"warn\"") {
			t.Errorf("expected warn level, got %q", out)
		}
		if !strings.Contains(out, "\"skipped\":2") || !strings.Contains(out, "\"candidates\":3") {
			t.Errorf("expected skipped and candidate counts, got %q", out)
		}
	})

	t.Run("nothing logged when every candidate is owned", func(t *testing.T) {
		buf.Reset()
		s.Score([]*models.Game{a, b, c}, []*models.Game{a})
		if buf.Len() != 0 {
			t.Errorf("unexpected log output %q", buf.String())
		}
	})
}

func TestFavoriteMatchScorer_SingleOwnedGame(t *testing.T) {
	t.Parallel()

	a := tagged("A", true, []string{"X"}, nil)
	s := NewFavoriteMatchScorer([]*models.Game{a}, zerolog.Nop())
	if w := s.Weight("category:X"); w != 0 {
		t.Errorf("weight with one owned game = %v, want 0", w)
	}
	got := s.Score([]*models.Game{a}, []*models.Game{a})
	if v := got.Get("A"); v != 0 || math.IsNaN(v) {
		t.Errorf("score = %v, want 0", v)
	}
}

func timedGame(id string) *models.Game {
	return &models.Game{
		ID:                 id,
		MinPlayers:         models.IntPtr(2),
		MaxPlayers:         models.IntPtr(6),
		MinPlayTimeMinutes: models.IntPtr(30),
		MaxPlayTimeMinutes: models.IntPtr(60),
	}
}

func TestEstimateMinutes(t *testing.T) {
	t.Parallel()

	g := timedGame("1")
	tests := []struct {
		players int
		want    float64
		ok      bool
	}{
		{2, 30, true},
		{3, 37.5, true},
		{4, 45, true},
		{5, 52.5, true},
		{6, 60, true},
		{1, 0, false},
		{7, 0, false},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.players), func(t *testing.T) {
			got, ok := EstimateMinutes(g, tt.players)
			if ok != tt.ok || !almostEqual(got, tt.want) {
				t.Errorf("EstimateMinutes(%d) = %v, %v; want %v, %v", tt.players, got, ok, tt.want, tt.ok)
			}
		})
	}

	fixed := timedGame("2")
	fixed.MaxPlayers = models.IntPtr(2)
	if got, ok := EstimateMinutes(fixed, 2); !ok || got != 30 {
		t.Errorf("fixed player count estimate = %v, %v; want 30, true", got, ok)
	}
}

func TestPlayTimeScorer(t *testing.T) {
	t.Parallel()

	s := NewPlayTimeScorer(0.5)
	g := timedGame("1")
	missing := timedGame("2")
	missing.MinPlayTimeMinutes = nil
	window := &PlayTimeWindow{Low: 20, High: 40}

	tests := []struct {
		name         string
		game         *models.Game
		counts       []int
		want         float64
		wantRelevant bool
	}{
		{"one of two counts fits", g, []int{2, 5}, 0.5, true},
		{"all counts fit", g, []int{2, 3}, 1, true},
		{"no count fits", g, []int{5}, 0, false},
		{"no count in range", g, []int{8}, 0.5, false},
		{"missing data", missing, []int{2}, 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score([]*models.Game{tt.game}, tt.counts, window)
			if !almostEqual(got.Get(tt.game.ID), tt.want) {
				t.Errorf("score = %v, want %v", got.Get(tt.game.ID), tt.want)
			}
			if got.IsRelevant(tt.game.ID) != tt.wantRelevant {
				t.Errorf("relevant = %v, want %v", got.IsRelevant(tt.game.ID), tt.wantRelevant)
			}
		})
	}

	t.Run("no window", func(t *testing.T) {
		got := s.Score([]*models.Game{g}, []int{2}, nil)
		if len(got.Scores) != 0 || len(got.Relevant) != 0 {
			t.Errorf("expected empty signal, got %+v", got)
		}
	})
}

func poll(players int, more bool, best, rec, not int) models.PlayerCountPoll {
	return models.PlayerCountPoll{
		Players: players, IsMoreThan: more,
		BestVotes: best, RecommendedVotes: rec, NotRecommendedVotes: not,
	}
}

func defaultPlayersOptions() PlayersOptions {
	return PlayersOptions{
		MinimumVotes:        10,
		Cutoff:              10,
		BestScore:           1,
		RecommendedScore:    0.5,
		NotRecommendedScore: -0.5,
	}
}

func TestPlayersScorer_Summary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		polls []models.PlayerCountPoll
		want  map[int]float64
	}{
		{
			name: "plurality and open-ended spread",
			polls: []models.PlayerCountPoll{
				poll(1, false, 0, 2, 20),
				poll(2, false, 2, 15, 3),
				poll(3, false, 20, 5, 1),
				poll(4, false, 5, 0, 0),
				poll(5, true, 1, 10, 2),
			},
			want: map[int]float64{1: -0.5, 2: 0.5, 3: 1, 6: 0.5, 7: 0.5, 8: 0.5, 9: 0.5, 10: 0.5},
		},
		{
			name: "keys above the cutoff collapse to their average",
			polls: []models.PlayerCountPoll{
				poll(10, false, 20, 0, 0),
				poll(11, false, 0, 0, 20),
				poll(12, false, 0, 20, 0),
			},
			want: map[int]float64{10: 1.0 / 3},
		},
		{
			name: "open-ended beyond the cutoff",
			polls: []models.PlayerCountPoll{
				poll(10, false, 20, 0, 0),
				poll(11, true, 0, 0, 20),
			},
			want: map[int]float64{10: 0.25},
		},
		{
			name: "huge exact count collapses without walking the range",
			polls: []models.PlayerCountPoll{
				poll(4, false, 20, 0, 0),
				poll(1<<33, false, 0, 0, 20),
				poll(math.MaxInt, false, 0, 20, 0),
			},
			want: map[int]float64{4: 1, 10: 0},
		},
		{
			name: "open-ended at the largest int does not wrap",
			polls: []models.PlayerCountPoll{
				poll(10, false, 20, 0, 0),
				poll(math.MaxInt, true, 0, 0, 20),
			},
			want: map[int]float64{10: 0.25},
		},
		{
			name: "open-ended one below the largest int",
			polls: []models.PlayerCountPoll{
				poll(math.MaxInt-1, true, 0, 20, 0),
			},
			want: map[int]float64{10: 0.5},
		},
		{
			name:  "ties favor best",
			polls: []models.PlayerCountPoll{poll(4, false, 10, 10, 0)},
			want:  map[int]float64{4: 1},
		},
		{
			name:  "recommended beats not recommended on a tie",
			polls: []models.PlayerCountPoll{poll(4, false, 0, 10, 10)},
			want:  map[int]float64{4: 0.5},
		},
		{
			name:  "no polls",
			polls: nil,
			want:  map[int]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := &models.Game{ID: "1", PlayersPolls: tt.polls}
			s := NewPlayersScorer([]*models.Game{g}, defaultPlayersOptions())
			got, ok := s.Summary("1")
			if !ok {
				t.Fatal("missing summary")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("summary = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if !almostEqual(got[k], v) {
					t.Errorf("summary[%d] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestPlayersScorer_Score(t *testing.T) {
	t.Parallel()

	g := &models.Game{ID: "1", PlayersPolls: []models.PlayerCountPoll{
		poll(2, false, 2, 15, 3),
		poll(3, false, 20, 5, 1),
		poll(5, true, 30, 1, 1),
	}}
	s := NewPlayersScorer([]*models.Game{g}, defaultPlayersOptions())

	tests := []struct {
		name         string
		counts       []int
		want         float64
		wantRelevant bool
	}{
		{"best and unknown", []int{3, 4}, 0.5, true},
		{"recommended only", []int{2}, 0.5, false},
		{"above cutoff reads the bucket", []int{15}, 1, true},
		{"unknown", []int{1}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score([]*models.Game{g}, tt.counts)
			if !almostEqual(got.Get("1"), tt.want) {
				t.Errorf("score = %v, want %v", got.Get("1"), tt.want)
			}
			if got.IsRelevant("1") != tt.wantRelevant {
				t.Errorf("relevant = %v, want %v", got.IsRelevant("1"), tt.wantRelevant)
			}
		})
	}

	t.Run("unknown game is omitted", func(t *testing.T) {
		got := s.Score([]*models.Game{{ID: "404"}}, []int{3})
		if _, ok := got.Scores["404"]; ok {
			t.Error("game outside the snapshot should be omitted")
		}
	})
}

func TestDailyHash(t *testing.T) {
	t.Parallel()

	if got := DailyHash("", ""); got != 5381 {
		t.Errorf("DailyHash(empty) = %d, want 5381", got)
	}
	if got := DailyHash("2024-01-01", "13"); got != 3371718829 {
		t.Errorf("DailyHash = %d, want 3371718829", got)
	}
	if DailyHash("2024-01-01", "13") != DailyHash("2024-01-011", "3") {
		t.Error("hash must be over the concatenation")
	}
}

func TestRandomDailyScorer(t *testing.T) {
	t.Parallel()

	games := make([]*models.Game, 0, 2000)
	for i := 1; i <= 2000; i++ {
		games = append(games, &models.Game{ID: strconv.Itoa(i), OwnedByClub: true})
	}
	unowned := &models.Game{ID: "999999", OwnedByClub: false}
	games = append(games, unowned)

	now := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	s := NewRandomDailyScorer(games, now, 10)
	got := s.Score(games)

	if n := len(got.Scores); n != 212 {
		t.Errorf("selected %d games, want 212", n)
	}
	for id, v := range got.Scores {
		if v != 1 || !got.IsRelevant(id) {
			t.Errorf("selected game %s: score %v relevant %v", id, v, got.IsRelevant(id))
		}
	}
	if s.Selected(unowned.ID) {
		t.Error("unowned games are never promoted")
	}

	later := NewRandomDailyScorer(games, now.Add(10*time.Hour), 10)
	for _, g := range games {
		if s.Selected(g.ID) != later.Selected(g.ID) {
			t.Fatalf("selection changed within the same day for %s", g.ID)
		}
	}
	if s.Day() != "2024-05-17" {
		t.Errorf("Day() = %q", s.Day())
	}
}

func TestRandomDailyScorer_UsesUTCDay(t *testing.T) {
	t.Parallel()

	games := make([]*models.Game, 0, 500)
	for i := 1; i <= 500; i++ {
		games = append(games, &models.Game{ID: strconv.Itoa(i), OwnedByClub: true})
	}

	// 23:30 in New York is already the next day in UTC.
	eastern := time.FixedZone("EDT", -4*60*60)
	local := time.Date(2024, 5, 17, 23, 30, 0, 0, eastern)
	s := NewRandomDailyScorer(games, local, 20)

	if s.Day() != "2024-05-18" {
		t.Errorf("Day() = %q, want the UTC day 2024-05-18", s.Day())
	}
	utc := NewRandomDailyScorer(games, time.Date(2024, 5, 18, 8, 0, 0, 0, time.UTC), 20)
	for _, g := range games {
		if s.Selected(g.ID) != utc.Selected(g.ID) {
			t.Fatalf("selection for %s differs from the UTC draw", g.ID)
		}
	}
}

func TestRecencyScorer(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	s := NewRecencyScorer(RecencyOptions{
		Now:                      now,
		RecentWindowDays:         30,
		NewGameScore:             1,
		PlayedLastMonthScore:     0.9,
		PlayedLastSixMonthsScore: 0.5,
	})

	tests := []struct {
		name         string
		game         *models.Game
		want         float64
		present      bool
		wantRelevant bool
	}{
		{"newly acquired", &models.Game{ID: "1", OwnedSince: "2024-06-15"}, 1, true, true},
		{"played last month", &models.Game{ID: "2", LastPlayed: "2024-06-10"}, 0.9, true, true},
		{"played within six months", &models.Game{ID: "3", LastPlayed: "2024-03-01"}, 0.5, true, false},
		{"played long ago", &models.Game{ID: "4", LastPlayed: "2023-01-01"}, 0, false, false},
		{"never played", &models.Game{ID: "5"}, 0, false, false},
		{"old acquisition falls back to plays", &models.Game{ID: "6", OwnedSince: "2020-01-01", LastPlayed: "2024-06-29"}, 0.9, true, true},
		{"malformed day", &models.Game{ID: "7", LastPlayed: "yesterday"}, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Score([]*models.Game{tt.game})
			v, ok := got.Scores[tt.game.ID]
			if ok != tt.present || !almostEqual(v, tt.want) {
				t.Errorf("score = %v (present=%v), want %v (present=%v)", v, ok, tt.want, tt.present)
			}
			if got.IsRelevant(tt.game.ID) != tt.wantRelevant {
				t.Errorf("relevant = %v, want %v", got.IsRelevant(tt.game.ID), tt.wantRelevant)
			}
		})
	}
}

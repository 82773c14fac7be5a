// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package engagement

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/signalstore"
)

var (
	testNow   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	errBroken = errors.New("connection reset")
)

func stars(n int) *int { return &n }

func watch(t *testing.T, s *signalstore.MemoryStore, user, content string, completed bool, ago time.Duration) {
	t.Helper()
	err := s.UpsertWatchProgress(context.Background(), models.WatchProgress{
		UserID:         user,
		ContentID:      content,
		ElapsedSeconds: 300,
		TotalSeconds:   600,
		Completed:      completed,
		LastWatched:    testNow.Add(-ago),
	})
	if err != nil {
		t.Fatalf("UpsertWatchProgress: %v", err)
	}
}

func newCalculator(t *testing.T, s signalstore.Reader) *Calculator {
	t.Helper()
	c, err := NewCalculator(s, DefaultWeights(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewCalculator() error = %v", err)
	}
	return c
}

// failingReader fails the named operation and delegates the rest.
type failingReader struct {
	*signalstore.MemoryStore
	failOn string
}

func (f *failingReader) ProgressForUser(ctx context.Context, userID string) ([]models.WatchProgress, error) {
	if f.failOn == "ProgressForUser" {
		return nil, errBroken
	}
	return f.MemoryStore.ProgressForUser(ctx, userID)
}

func (f *failingReader) RatingsForUser(ctx context.Context, userID string) ([]models.RatingOrComment, error) {
	if f.failOn == "RatingsForUser" {
		return nil, errBroken
	}
	return f.MemoryStore.RatingsForUser(ctx, userID)
}

func TestNewCalculator_NilStore(t *testing.T) {
	t.Parallel()

	if _, err := NewCalculator(nil, DefaultWeights(), zerolog.Nop()); err == nil {
		t.Error("NewCalculator(nil) should fail")
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	s := signalstore.NewMemoryStore()
	for _, id := range []string{"a", "b", "c"} {
		watch(t, s, "alice", id, false, time.Hour)
	}
	for _, id := range []string{"b", "c", "d"} {
		watch(t, s, "bob", id, true, time.Hour)
	}
	watch(t, s, "carol", "z", false, time.Hour)
	c := newCalculator(t, s)

	tests := []struct {
		name   string
		a, b   string
		want   float64
		shared int
	}{
		{"partial overlap", "alice", "bob", 0.5, 2},
		{"symmetric", "bob", "alice", 0.5, 2},
		{"self", "alice", "alice", 1, 3},
		{"disjoint", "alice", "carol", 0, 0},
		{"empty side", "alice", "nobody", 0, 0},
		{"both empty", "x", "y", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := c.Similarity(context.Background(), tt.a, tt.b)
			if got.Score != tt.want || got.Shared != tt.shared {
				t.Errorf("Similarity(%s, %s) = %v shared %d, want %v shared %d", tt.a, tt.b, got.Score, got.Shared, tt.want, tt.shared)
			}
			if got.Score < 0 || got.Score > 1 {
				t.Errorf("score %v out of [0,1]", got.Score)
			}
		})
	}
}

func TestSimilarity_StoreFailure(t *testing.T) {
	before := testutil.ToFloat64(metrics.InsightErrors.WithLabelValues("similarity"))

	c := newCalculator(t, &failingReader{MemoryStore: signalstore.NewMemoryStore(), failOn: "ProgressForUser"})
	got := c.Similarity(context.Background(), "a", "b")
	if !got.Degraded || got.Score != 0 || got.UserA != "a" || got.UserB != "b" {
		t.Errorf("Similarity() = %+v, want zero degraded result", got)
	}
	if d := testutil.ToFloat64(metrics.InsightErrors.WithLabelValues("similarity")) - before; d != 1 {
		t.Errorf("insight errors delta = %v, want 1", d)
	}
}

func TestEngagement_Zero(t *testing.T) {
	t.Parallel()

	got := newCalculator(t, signalstore.NewMemoryStore()).Engagement(context.Background(), "nobody")
	if got.Score != 0 || got.CompletionRate != 0 || got.Degraded {
		t.Errorf("Engagement() = %+v, want zero", got)
	}
}

func TestEngagement_CompletionRate(t *testing.T) {
	t.Parallel()

	s := signalstore.NewMemoryStore()
	for i := 0; i < 10; i++ {
		watch(t, s, "u", fmt.Sprintf("c%02d", i), i < 6, time.Hour)
	}
	got := newCalculator(t, s).Engagement(context.Background(), "u")
	if got.CompletionRate != 0.6 || got.ProgressRows != 10 || got.CompletedRows != 6 {
		t.Errorf("Engagement() = %+v, want 6/10 completed", got)
	}
	if math.Abs(got.Score-18) > 1e-9 {
		t.Errorf("score = %v, want 18", got.Score)
	}
}

func TestEngagement_AllSignals(t *testing.T) {
	t.Parallel()

	s := signalstore.NewMemoryStore()
	watch(t, s, "u", "a", true, time.Hour)
	watch(t, s, "u", "b", false, time.Hour)
	s.AddRating(models.RatingOrComment{UserID: "u", ContentID: "a", Stars: stars(5), Timestamp: testNow})
	s.AddRating(models.RatingOrComment{UserID: "u", ContentID: "b", Stars: stars(3), Text: "ok", Timestamp: testNow})
	s.AddRating(models.RatingOrComment{UserID: "u", ContentID: "c", Text: "wow", Timestamp: testNow})
	s.AddRating(models.RatingOrComment{UserID: "other", ContentID: "c", Stars: stars(1), Timestamp: testNow})
	s.AddWatchlistEntry(models.WatchlistEntry{UserID: "u", ContentID: "d", AddedAt: testNow})

	got := newCalculator(t, s).Engagement(context.Background(), "u")
	// 0.5*30 + 2 comments*10 + 2 ratings*15 + 1*5
	if got.Score != 70 || got.Ratings != 2 || got.Comments != 2 || got.Watchlist != 1 {
		t.Errorf("Engagement() = %+v, want score 70", got)
	}
}

func TestEngagement_Errors(t *testing.T) {
	t.Parallel()

	s := signalstore.NewMemoryStore()
	watch(t, s, "u", "a", true, time.Hour)
	c := newCalculator(t, &failingReader{MemoryStore: s, failOn: "RatingsForUser"})
	if got := c.Engagement(context.Background(), "u"); !got.Degraded || got.Score != 0 || got.UserID != "u" {
		t.Errorf("ratings failure: Engagement() = %+v, want zero degraded score", got)
	}

	bad := signalstore.NewMemoryStore()
	if err := bad.UpsertWatchProgress(context.Background(), models.WatchProgress{UserID: "u", ContentID: "a"}); err != nil {
		t.Fatal(err)
	}
	if got := newCalculator(t, bad).Engagement(context.Background(), "u"); !got.Degraded || got.ProgressRows != 0 {
		t.Errorf("malformed progress: Engagement() = %+v, want zero degraded score", got)
	}
}

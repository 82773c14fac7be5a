// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package algorithms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/signalstore"
)

var (
	testNow   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	errBroken = errors.New("connection reset")
)

func stars(n int) *int { return &n }

func published(id string, genres ...string) models.ContentItem {
	return models.ContentItem{ID: id, Genres: genres, ReleaseYear: 2020, Status: models.StatusPublished}
}

func progress(user, content string, completed bool) models.WatchProgress {
	return models.WatchProgress{
		UserID:         user,
		ContentID:      content,
		ElapsedSeconds: 600,
		TotalSeconds:   1200,
		Completed:      completed,
		LastWatched:    testNow.Add(-time.Hour),
	}
}

func seedProgress(t *testing.T, s *signalstore.MemoryStore, rows ...models.WatchProgress) {
	t.Helper()
	for _, r := range rows {
		if err := s.UpsertWatchProgress(context.Background(), r); err != nil {
			t.Fatalf("UpsertWatchProgress: %v", err)
		}
	}
}

func play(t *testing.T, s *signalstore.MemoryStore, content string, at time.Time) {
	t.Helper()
	err := s.AppendWatchEvent(context.Background(), models.WatchEvent{
		UserID: "viewer", ContentID: content, Kind: models.EventPlay, SessionID: "s", Timestamp: at,
	})
	if err != nil {
		t.Fatalf("AppendWatchEvent: %v", err)
	}
}

func query(user string, limit int) recommend.Query {
	return recommend.Query{UserID: user, Limit: limit, WindowDays: 7, Now: testNow}
}

func ids(items []recommend.CandidateItem) []string {
	return recommend.ContentIDs(items)
}

func assertIDs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ids = %v, want %v", got, want)
		}
	}
}

func assertSource(t *testing.T, items []recommend.CandidateItem, want recommend.Source) {
	t.Helper()
	for _, it := range items {
		if it.Source != want {
			t.Errorf("%s source = %q, want %q", it.ContentID, it.Source, want)
		}
		if it.Score < 0 {
			t.Errorf("%s score = %v, want non-negative", it.ContentID, it.Score)
		}
	}
}

// failingReader fails the named operation and delegates the rest.
type failingReader struct {
	*signalstore.MemoryStore
	failOn string
}

func (f *failingReader) PublishedContent(ctx context.Context) ([]models.ContentItem, error) {
	if f.failOn == "PublishedContent" {
		return nil, errBroken
	}
	return f.MemoryStore.PublishedContent(ctx)
}

func (f *failingReader) ProgressForUser(ctx context.Context, userID string) ([]models.WatchProgress, error) {
	if f.failOn == "ProgressForUser" {
		return nil, errBroken
	}
	return f.MemoryStore.ProgressForUser(ctx, userID)
}

func (f *failingReader) PlayCountsSince(ctx context.Context, since time.Time) ([]signalstore.PlayCount, error) {
	if f.failOn == "PlayCountsSince" {
		return nil, errBroken
	}
	return f.MemoryStore.PlayCountsSince(ctx, since)
}

func (f *failingReader) AverageRatings(ctx context.Context, contentIDs []string) (map[string]float64, error) {
	if f.failOn == "AverageRatings" {
		return nil, errBroken
	}
	return f.MemoryStore.AverageRatings(ctx, contentIDs)
}

func (f *failingReader) WatchlistForUser(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	if f.failOn == "WatchlistForUser" {
		return nil, errBroken
	}
	return f.MemoryStore.WatchlistForUser(ctx, userID)
}

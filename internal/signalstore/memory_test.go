// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package signalstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/marquee/internal/models"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func stars(n int) *int { return &n }

func TestMemoryStore_CatalogOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	s.PutContent(
		models.ContentItem{ID: "b", ReleaseYear: 2001, Status: models.StatusPublished},
		models.ContentItem{ID: "a", ReleaseYear: 2010, Status: models.StatusDraft},
		models.ContentItem{ID: "c", ReleaseYear: 2001, Status: models.StatusPublished},
		models.ContentItem{ID: "d", ReleaseYear: 2020, Status: models.StatusPublished},
	)
	// Re-publishing keeps the original position.
	s.PutContent(models.ContentItem{ID: "a", ReleaseYear: 2010, Status: models.StatusPublished})

	items, err := s.PublishedContent(ctx)
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, contentIDs(items), []string{"b", "a", "c", "d"})

	byYear, err := s.PublishedByReleaseYear(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	assertIDs(t, contentIDs(byYear), []string{"d", "a", "b"})

	got, err := s.ContentByIDs(ctx, []string{"a", "zzz"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got["a"].ID != "a" {
		t.Errorf("ContentByIDs = %v", got)
	}
}

func TestMemoryStore_ProgressOrderAndMonotonicCompletion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()

	rows := []models.WatchProgress{
		{UserID: "u2", ContentID: "x", TotalSeconds: 100, LastWatched: t0},
		{UserID: "u1", ContentID: "y", TotalSeconds: 100, LastWatched: t0},
		{UserID: "u1", ContentID: "x", TotalSeconds: 100, Completed: true, LastWatched: t0},
	}
	for _, r := range rows {
		if err := s.UpsertWatchProgress(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	// A later partial rewatch must not clear completion.
	if err := s.UpsertWatchProgress(ctx, models.WatchProgress{UserID: "u1", ContentID: "x", ElapsedSeconds: 5, LastWatched: t0.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	all, err := s.ProgressForContents(ctx, []string{"x", "y"})
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for _, p := range all {
		keys = append(keys, p.UserID+"/"+p.ContentID)
	}
	assertIDs(t, keys, []string{"u1/x", "u1/y", "u2/x"})

	mine, _ := s.ProgressForUser(ctx, "u1")
	if !mine[0].Completed || mine[0].ElapsedSeconds != 5 || mine[0].TotalSeconds != 100 {
		t.Errorf("upsert lost state: %+v", mine[0])
	}
}

func TestMemoryStore_PlayCountsAndRatings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()

	events := []models.WatchEvent{
		{ContentID: "a", Kind: models.EventPlay, Timestamp: t0},
		{ContentID: "a", Kind: models.EventPlay, Timestamp: t0.Add(time.Minute)},
		{ContentID: "a", Kind: models.EventPause, Timestamp: t0.Add(2 * time.Minute)},
		{ContentID: "b", Kind: models.EventPlay, Timestamp: t0.Add(-10 * 24 * time.Hour)},
	}
	for _, e := range events {
		_ = s.AppendWatchEvent(ctx, e)
	}
	counts, err := s.PlayCountsSince(ctx, t0.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 1 || counts[0].Plays != 2 || !counts[0].LastPlayed.Equal(t0.Add(time.Minute)) {
		t.Errorf("PlayCountsSince = %+v", counts)
	}

	s.AddRating(models.RatingOrComment{UserID: "u", ContentID: "a", Stars: stars(4), Timestamp: t0})
	s.AddRating(models.RatingOrComment{UserID: "v", ContentID: "a", Stars: stars(5), Timestamp: t0})
	s.AddRating(models.RatingOrComment{UserID: "w", ContentID: "a", Text: "nice", Timestamp: t0})
	avg, _ := s.AverageRatings(ctx, []string{"a", "b"})
	if avg["a"] != 4.5 {
		t.Errorf("avg[a] = %v, want 4.5", avg["a"])
	}
	if _, ok := avg["b"]; ok {
		t.Error("unrated item should be absent")
	}

	s.AddWatchlistEntry(models.WatchlistEntry{UserID: "u", ContentID: "a", AddedAt: t0})
	s.AddWatchlistEntry(models.WatchlistEntry{UserID: "u", ContentID: "a", AddedAt: t0})
	wl, _ := s.WatchlistForUser(ctx, "u")
	if len(wl) != 1 {
		t.Errorf("watchlist len = %d, want 1", len(wl))
	}
}

func TestValidateRecords(t *testing.T) {
	t.Parallel()

	err := ValidateContent(models.ContentItem{ID: "", Status: models.StatusPublished})
	if !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord, got %v", err)
	}
	err = ValidateProgress(models.WatchProgress{UserID: "u", ContentID: "c"})
	if !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("expected ErrMalformedRecord for zero LastWatched, got %v", err)
	}
	if err := ValidateProgress(models.WatchProgress{UserID: "u", ContentID: "c", LastWatched: t0}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func contentIDs(items []models.ContentItem) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func assertIDs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

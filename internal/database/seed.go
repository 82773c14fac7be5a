// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/models"
)

// SeedDemoData loads a small fixed catalog with viewers, ratings and a week of
// play events, so a fresh instance returns non-empty results for every
// algorithm. It is a no-op when the catalog already has rows.
func (db *DB) SeedDemoData(ctx context.Context) error {
	var existing int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM content_items`).Scan(&existing); err != nil {
		return fmt.Errorf("count content: %w", err)
	}
	if existing > 0 {
		return nil
	}

	logging.Info().Msg("Seeding signal store with demo data")

	catalog := []models.ContentItem{
		{ID: "m-001", Title: "Harbor Lights", Genres: []string{"Drama", "Romance"}, Director: "Ines Alvarez", Cast: []string{"Mara Quinn", "Theo Park"}, Studio: "Northlight", ReleaseYear: 2019, Status: models.StatusPublished},
		{ID: "m-002", Title: "The Quiet Orbit", Genres: []string{"Sci-Fi", "Drama"}, Director: "Ken Ito", Cast: []string{"Theo Park", "Lena Ross"}, Studio: "Parallax", ReleaseYear: 2021, Status: models.StatusPublished},
		{ID: "m-003", Title: "Second Draft", Genres: []string{"Comedy", "Romance"}, Director: "Ines Alvarez", Cast: []string{"Mara Quinn"}, Studio: "Northlight", ReleaseYear: 2016, Status: models.StatusPublished},
		{ID: "m-004", Title: "Dust Protocol", Genres: []string{"Action", "Sci-Fi"}, Director: "Sam Okoro", Cast: []string{"Rey Dalton"}, Studio: "Parallax", ReleaseYear: 2023, Status: models.StatusPublished},
		{ID: "m-005", Title: "Low Tide", Genres: []string{"Thriller", "Drama"}, Director: "Ken Ito", Cast: []string{"Lena Ross", "Rey Dalton"}, Studio: "Saltworks", ReleaseYear: 2012, Status: models.StatusPublished},
		{ID: "m-006", Title: "Paper Kingdoms", Genres: []string{"Animation", "Comedy"}, Director: "June Harlow", Cast: []string{"Ollie Vance"}, Studio: "Inkwell", ReleaseYear: 2008, Status: models.StatusPublished},
		{ID: "m-007", Title: "Night Shift", Genres: []string{"Thriller", "Action"}, Director: "Sam Okoro", Cast: []string{"Rey Dalton", "Mara Quinn"}, Studio: "Saltworks", ReleaseYear: 2024, Status: models.StatusPublished},
		{ID: "m-008", Title: "Wild Acre", Genres: []string{"Documentary"}, Director: "June Harlow", Studio: "Inkwell", ReleaseYear: 1998, Status: models.StatusPublished},
		{ID: "m-009", Title: "Unfinished Cut", Genres: []string{"Drama"}, Director: "Ines Alvarez", Studio: "Northlight", ReleaseYear: 2025, Status: models.StatusDraft},
		{ID: "m-010", Title: "Retired Reel", Genres: []string{"Comedy"}, Director: "June Harlow", Studio: "Inkwell", ReleaseYear: 1985, Status: models.StatusArchived},
	}
	if err := db.InsertContent(ctx, catalog...); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	day := 24 * time.Hour

	progress := []models.WatchProgress{
		{UserID: "alice", ContentID: "m-001", ElapsedSeconds: 6000, TotalSeconds: 6000, Completed: true, LastWatched: now.Add(-2 * day)},
		{UserID: "alice", ContentID: "m-002", ElapsedSeconds: 7200, TotalSeconds: 7200, Completed: true, LastWatched: now.Add(-1 * day)},
		{UserID: "alice", ContentID: "m-005", ElapsedSeconds: 1200, TotalSeconds: 5400, LastWatched: now.Add(-1 * day)},
		{UserID: "bob", ContentID: "m-002", ElapsedSeconds: 7200, TotalSeconds: 7200, Completed: true, LastWatched: now.Add(-5 * day)},
		{UserID: "bob", ContentID: "m-004", ElapsedSeconds: 6500, TotalSeconds: 6500, Completed: true, LastWatched: now.Add(-4 * day)},
		{UserID: "bob", ContentID: "m-007", ElapsedSeconds: 3000, TotalSeconds: 6100, LastWatched: now.Add(-3 * day)},
		{UserID: "carol", ContentID: "m-001", ElapsedSeconds: 6000, TotalSeconds: 6000, Completed: true, LastWatched: now.Add(-40 * day)},
		{UserID: "carol", ContentID: "m-003", ElapsedSeconds: 900, TotalSeconds: 5600, LastWatched: now.Add(-45 * day)},
		{UserID: "carol", ContentID: "m-006", ElapsedSeconds: 400, TotalSeconds: 4800, LastWatched: now.Add(-50 * day)},
	}
	for _, p := range progress {
		if err := db.UpsertWatchProgress(ctx, p); err != nil {
			return err
		}
	}

	stars := func(n int) *int { return &n }
	ratings := []models.RatingOrComment{
		{UserID: "alice", ContentID: "m-001", Stars: stars(5), Text: "Beautifully shot.", Likes: 3, Timestamp: now.Add(-2 * day)},
		{UserID: "alice", ContentID: "m-002", Stars: stars(4), Timestamp: now.Add(-1 * day)},
		{UserID: "bob", ContentID: "m-004", Stars: stars(5), Timestamp: now.Add(-4 * day)},
		{UserID: "bob", ContentID: "m-002", Stars: stars(3), Text: "Slow middle act.", Timestamp: now.Add(-5 * day)},
		{UserID: "carol", ContentID: "m-001", Stars: stars(4), Timestamp: now.Add(-40 * day)},
		{UserID: "carol", ContentID: "m-006", Text: "Kids loved it.", Likes: 1, Timestamp: now.Add(-50 * day)},
	}
	for _, r := range ratings {
		if err := db.InsertRating(ctx, r); err != nil {
			return err
		}
	}

	watchlist := []models.WatchlistEntry{
		{UserID: "alice", ContentID: "m-003", AddedAt: now.Add(-3 * day)},
		{UserID: "bob", ContentID: "m-005", AddedAt: now.Add(-6 * day)},
	}
	for _, w := range watchlist {
		if err := db.InsertWatchlistEntry(ctx, w); err != nil {
			return err
		}
	}

	plays := map[string]int{"m-004": 6, "m-007": 5, "m-002": 4, "m-001": 2, "m-008": 1}
	for _, id := range []string{"m-004", "m-007", "m-002", "m-001", "m-008"} {
		for i := 0; i < plays[id]; i++ {
			e := models.WatchEvent{
				ContentID: id,
				Kind:      models.EventPlay,
				SessionID: fmt.Sprintf("seed-%s-%d", id, i),
				Timestamp: now.Add(-time.Duration(i+1) * 6 * time.Hour),
			}
			if err := db.AppendWatchEvent(ctx, e); err != nil {
				return err
			}
		}
	}

	logging.Info().Int("items", len(catalog)).Int("progress_rows", len(progress)).Msg("Demo data seeded")
	return nil
}

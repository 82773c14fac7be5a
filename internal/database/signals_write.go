// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/marquee/internal/models"
)

const maxConflictRetries = 3

// AppendWatchEvent implements signalstore.Writer.
func (db *DB) AppendWatchEvent(ctx context.Context, e models.WatchEvent) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO watch_events (user_id, content_id, kind, elapsed_seconds, session_id, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		nullString(e.UserID), e.ContentID, string(e.Kind), e.ElapsedSeconds, nullString(e.SessionID), e.Timestamp)
	if err != nil {
		return fmt.Errorf("insert watch event: %w", err)
	}
	return nil
}

// UpsertWatchProgress implements signalstore.Writer. completed is OR-ed with
// the stored value and a zero total keeps the stored total.
func (db *DB) UpsertWatchProgress(ctx context.Context, p models.WatchProgress) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO watch_progress (user_id, content_id, elapsed_seconds, total_seconds, completed, last_watched)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, content_id) DO UPDATE SET
			elapsed_seconds = excluded.elapsed_seconds,
			total_seconds = CASE WHEN excluded.total_seconds > 0 THEN excluded.total_seconds ELSE total_seconds END,
			completed = completed OR excluded.completed,
			last_watched = excluded.last_watched`

	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		_, err = db.conn.ExecContext(ctx, query,
			p.UserID, p.ContentID, p.ElapsedSeconds, p.TotalSeconds, p.Completed, p.LastWatched)
		if err == nil || !isTransactionConflict(err) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 10 * time.Millisecond):
		}
	}
	if err != nil {
		return fmt.Errorf("upsert watch progress: %w", err)
	}
	return nil
}

// InsertContent adds or replaces catalog items. Replaced items keep their
// catalog position.
func (db *DB) InsertContent(ctx context.Context, items ...models.ContentItem) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin content insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO content_items (id, title, genres, director, cast_members, studio, release_year, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			genres = excluded.genres,
			director = excluded.director,
			cast_members = excluded.cast_members,
			studio = excluded.studio,
			release_year = excluded.release_year,
			status = excluded.status`)
	if err != nil {
		return fmt.Errorf("prepare content insert: %w", err)
	}
	defer closeWithLog(stmt, "statement")

	for i := range items {
		c := &items[i]
		if _, err := stmt.ExecContext(ctx, c.ID, c.Title, joinList(c.Genres), c.Director,
			joinList(c.Cast), c.Studio, c.ReleaseYear, string(c.Status)); err != nil {
			return fmt.Errorf("insert content %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// InsertRating stores a rating or comment.
func (db *DB) InsertRating(ctx context.Context, r models.RatingOrComment) error {
	var stars interface{}
	if r.Stars != nil {
		stars = *r.Stars
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO ratings (user_id, content_id, stars, body, likes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.UserID, r.ContentID, stars, nullString(r.Text), r.Likes, r.Timestamp)
	if err != nil {
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

// InsertWatchlistEntry stores a watchlist entry; an existing pair is left untouched.
func (db *DB) InsertWatchlistEntry(ctx context.Context, e models.WatchlistEntry) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO watchlist (user_id, content_id, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, content_id) DO NOTHING`,
		e.UserID, e.ContentID, e.AddedAt)
	if err != nil {
		return fmt.Errorf("insert watchlist entry: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

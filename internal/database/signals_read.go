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
	"github.com/tomtom215/marquee/internal/signalstore"
)

const contentColumns = `id, title, genres, director, cast_members, studio, release_year, status`

const progressColumns = `user_id, content_id, elapsed_seconds, total_seconds, completed, last_watched`

// PublishedContent implements signalstore.Reader.
func (db *DB) PublishedContent(ctx context.Context) ([]models.ContentItem, error) {
	query := `SELECT ` + contentColumns + `
		FROM content_items
		WHERE status = 'published'
		ORDER BY catalog_position`
	return db.queryContent(ctx, "published content", query)
}

// PublishedByReleaseYear implements signalstore.Reader.
func (db *DB) PublishedByReleaseYear(ctx context.Context, limit int) ([]models.ContentItem, error) {
	query := `SELECT ` + contentColumns + `
		FROM content_items
		WHERE status = 'published'
		ORDER BY release_year DESC NULLS LAST, catalog_position
		LIMIT ?`
	return db.queryContent(ctx, "published content by year", query, limit)
}

// ContentByIDs implements signalstore.Reader.
func (db *DB) ContentByIDs(ctx context.Context, ids []string) (map[string]models.ContentItem, error) {
	out := make(map[string]models.ContentItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM content_items WHERE id IN (%s)`, contentColumns, placeholders(len(ids)))
	items, err := db.queryContent(ctx, "content by ids", query, stringArgs(ids)...)
	if err != nil {
		return nil, err
	}
	for i := range items {
		out[items[i].ID] = items[i]
	}
	return out, nil
}

func (db *DB) queryContent(ctx context.Context, what, query string, args ...interface{}) ([]models.ContentItem, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer closeWithLog(rows, "rows")

	var items []models.ContentItem
	for rows.Next() {
		var (
			id, title, genres, director, cast, studio, status sql.NullString
			year                                              sql.NullInt64
		)
		if err := rows.Scan(&id, &title, &genres, &director, &cast, &studio, &year, &status); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		items = append(items, models.ContentItem{
			ID:          id.String,
			Title:       title.String,
			Genres:      splitList(genres.String),
			Director:    director.String,
			Cast:        splitList(cast.String),
			Studio:      studio.String,
			ReleaseYear: int(year.Int64),
			Status:      models.ContentStatus(status.String),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return items, nil
}

// ProgressForUser implements signalstore.Reader.
func (db *DB) ProgressForUser(ctx context.Context, userID string) ([]models.WatchProgress, error) {
	query := `SELECT ` + progressColumns + `
		FROM watch_progress
		WHERE user_id = ?
		ORDER BY content_id`
	return db.queryProgress(ctx, query, userID)
}

// ProgressForContents implements signalstore.Reader.
func (db *DB) ProgressForContents(ctx context.Context, contentIDs []string) ([]models.WatchProgress, error) {
	if len(contentIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s
		FROM watch_progress
		WHERE content_id IN (%s)
		ORDER BY user_id, content_id`, progressColumns, placeholders(len(contentIDs)))
	return db.queryProgress(ctx, query, stringArgs(contentIDs)...)
}

func (db *DB) queryProgress(ctx context.Context, query string, args ...interface{}) ([]models.WatchProgress, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query watch progress: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var out []models.WatchProgress
	for rows.Next() {
		var (
			p           models.WatchProgress
			lastWatched sql.NullTime
		)
		if err := rows.Scan(&p.UserID, &p.ContentID, &p.ElapsedSeconds, &p.TotalSeconds, &p.Completed, &lastWatched); err != nil {
			return nil, fmt.Errorf("scan watch progress: %w", err)
		}
		// A NULL last_watched stays zero and fails validation downstream.
		if lastWatched.Valid {
			p.LastWatched = lastWatched.Time
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch progress: %w", err)
	}
	return out, nil
}

// PlayCountsSince implements signalstore.Reader.
func (db *DB) PlayCountsSince(ctx context.Context, since time.Time) ([]signalstore.PlayCount, error) {
	query := `
		SELECT content_id, COUNT(*) AS plays, MAX(occurred_at) AS last_played
		FROM watch_events
		WHERE kind = 'play' AND occurred_at >= ?
		GROUP BY content_id
		ORDER BY content_id`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query play counts: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var out []signalstore.PlayCount
	for rows.Next() {
		var pc signalstore.PlayCount
		if err := rows.Scan(&pc.ContentID, &pc.Plays, &pc.LastPlayed); err != nil {
			return nil, fmt.Errorf("scan play count: %w", err)
		}
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate play counts: %w", err)
	}
	return out, nil
}

// RatingsForUser implements signalstore.Reader.
func (db *DB) RatingsForUser(ctx context.Context, userID string) ([]models.RatingOrComment, error) {
	query := `
		SELECT user_id, content_id, stars, body, likes, created_at
		FROM ratings
		WHERE user_id = ?
		ORDER BY created_at, content_id`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var out []models.RatingOrComment
	for rows.Next() {
		var (
			r     models.RatingOrComment
			stars sql.NullInt64
			body  sql.NullString
		)
		if err := rows.Scan(&r.UserID, &r.ContentID, &stars, &body, &r.Likes, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		if stars.Valid {
			s := int(stars.Int64)
			r.Stars = &s
		}
		r.Text = body.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return out, nil
}

// AverageRatings implements signalstore.Reader.
func (db *DB) AverageRatings(ctx context.Context, contentIDs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}
	query := fmt.Sprintf(`
		SELECT content_id, AVG(stars)
		FROM ratings
		WHERE stars IS NOT NULL AND content_id IN (%s)
		GROUP BY content_id`, placeholders(len(contentIDs)))

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, stringArgs(contentIDs)...)
	if err != nil {
		return nil, fmt.Errorf("query average ratings: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			id  string
			avg float64
		)
		if err := rows.Scan(&id, &avg); err != nil {
			return nil, fmt.Errorf("scan average rating: %w", err)
		}
		out[id] = avg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate average ratings: %w", err)
	}
	return out, nil
}

// WatchlistForUser implements signalstore.Reader.
func (db *DB) WatchlistForUser(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	query := `
		SELECT user_id, content_id, added_at
		FROM watchlist
		WHERE user_id = ?
		ORDER BY added_at, content_id`

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var out []models.WatchlistEntry
	for rows.Next() {
		var e models.WatchlistEntry
		if err := rows.Scan(&e.UserID, &e.ContentID, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watchlist: %w", err)
	}
	return out, nil
}

// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
database_schema.go - Signal store schema

All tables are created with IF NOT EXISTS so New is idempotent against an
existing file. catalog_position comes from a sequence and defines catalog
order; re-inserting an existing id keeps its position.

content_items and watch_progress carry no secondary indexes: DuckDB rejects
ON CONFLICT DO UPDATE assignments to indexed columns.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
)

func (db *DB) createTables(ctx context.Context) error {
	for _, q := range tableQueries() {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	for _, q := range indexQueries() {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

func tableQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS content_position_seq START 1`,
		`CREATE TABLE IF NOT EXISTS content_items (
			id VARCHAR PRIMARY KEY,
			catalog_position BIGINT NOT NULL DEFAULT nextval('content_position_seq'),
			title VARCHAR,
			genres VARCHAR,
			director VARCHAR,
			cast_members VARCHAR,
			studio VARCHAR,
			release_year INTEGER,
			status VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS watch_events (
			user_id VARCHAR,
			content_id VARCHAR NOT NULL,
			kind VARCHAR NOT NULL,
			elapsed_seconds INTEGER NOT NULL DEFAULT 0,
			session_id VARCHAR,
			occurred_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS watch_progress (
			user_id VARCHAR NOT NULL,
			content_id VARCHAR NOT NULL,
			elapsed_seconds INTEGER NOT NULL DEFAULT 0,
			total_seconds INTEGER NOT NULL DEFAULT 0,
			completed BOOLEAN NOT NULL DEFAULT false,
			last_watched TIMESTAMP,
			PRIMARY KEY (user_id, content_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			user_id VARCHAR NOT NULL,
			content_id VARCHAR NOT NULL,
			stars INTEGER,
			body VARCHAR,
			likes INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS watchlist (
			user_id VARCHAR NOT NULL,
			content_id VARCHAR NOT NULL,
			added_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, content_id)
		)`,
	}
}

func indexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_watch_events_kind_time ON watch_events(kind, occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_content ON ratings(content_id)`,
	}
}

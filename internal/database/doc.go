// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package database implements the signal store on DuckDB.

DB satisfies signalstore.Store: the engine reads catalog, progress, play
counts, ratings and watchlists through it, and the playback recorder's
consumer appends watch events and upserts progress.

Tables:

  - content_items: catalog, ordered by catalog_position (insertion order)
  - watch_events: append-only playback log
  - watch_progress: one row per (user_id, content_id); completed is OR-ed on upsert
  - ratings: optional stars and/or comment text
  - watchlist: one row per (user_id, content_id)

List-valued catalog fields (genres, cast) are stored as comma separated text.

Use Path ":memory:" for tests:

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB"})
*/
package database

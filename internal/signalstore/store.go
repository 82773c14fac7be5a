// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package signalstore defines the read and write contracts over the five
// signal record sets (catalog, watch events, watch progress, ratings and
// watchlist) and provides an in-memory implementation plus a circuit-breaking
// wrapper.
//
// Read order is part of the contract. Scorers that enumerate "first seen"
// candidates rely on it for deterministic output, so every implementation
// must return rows in the order documented on each Reader method.
package signalstore

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/marquee/internal/models"
)

var (
	// ErrStoreUnavailable is returned while the store's circuit breaker is open.
	ErrStoreUnavailable = errors.New("signal store unavailable")

	// ErrMalformedRecord marks a row that is missing a required field.
	ErrMalformedRecord = errors.New("malformed signal record")
)

// PlayCount aggregates play events for one content item.
type PlayCount struct {
	ContentID  string
	Plays      int
	LastPlayed time.Time
}

// Reader is the read side used by scorers and the engagement calculator.
type Reader interface {
	// PublishedContent returns every published item in catalog order.
	PublishedContent(ctx context.Context) ([]models.ContentItem, error)

	// ContentByIDs returns the items with the given ids regardless of status.
	// Unknown ids are absent from the map.
	ContentByIDs(ctx context.Context, ids []string) (map[string]models.ContentItem, error)

	// PublishedByReleaseYear returns up to limit published items, newest
	// release year first, ties in catalog order.
	PublishedByReleaseYear(ctx context.Context, limit int) ([]models.ContentItem, error)

	// ProgressForUser returns the user's progress rows ordered by content id.
	ProgressForUser(ctx context.Context, userID string) ([]models.WatchProgress, error)

	// ProgressForContents returns every progress row for the given items,
	// ordered by user id then content id.
	ProgressForContents(ctx context.Context, contentIDs []string) ([]models.WatchProgress, error)

	// PlayCountsSince aggregates play events at or after since, ordered by content id.
	PlayCountsSince(ctx context.Context, since time.Time) ([]PlayCount, error)

	// RatingsForUser returns the user's ratings and comments ordered by
	// timestamp then content id.
	RatingsForUser(ctx context.Context, userID string) ([]models.RatingOrComment, error)

	// AverageRatings returns the mean star rating per item over rated rows.
	// Items without ratings are absent from the map.
	AverageRatings(ctx context.Context, contentIDs []string) (map[string]float64, error)

	// WatchlistForUser returns the user's watchlist ordered by added time.
	WatchlistForUser(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
}

// Writer is the write side used by the playback recorder.
type Writer interface {
	// AppendWatchEvent appends to the playback log.
	AppendWatchEvent(ctx context.Context, event models.WatchEvent) error

	// UpsertWatchProgress inserts or updates the (user, content) row. The
	// stored Completed flag is OR-ed with the incoming one.
	UpsertWatchProgress(ctx context.Context, progress models.WatchProgress) error
}

// Store is a full read/write signal store.
type Store interface {
	Reader
	Writer
}

// ValidateContent returns ErrMalformedRecord wrapped with the failing item.
func ValidateContent(items ...models.ContentItem) error {
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return &RecordError{Record: "content_item", ID: items[i].ID, Err: err}
		}
	}
	return nil
}

// ValidateProgress returns ErrMalformedRecord wrapped with the failing row.
func ValidateProgress(rows ...models.WatchProgress) error {
	for i := range rows {
		if err := rows[i].Validate(); err != nil {
			return &RecordError{Record: "watch_progress", ID: rows[i].UserID + "/" + rows[i].ContentID, Err: err}
		}
	}
	return nil
}

// RecordError describes a malformed row. It matches ErrMalformedRecord with errors.Is.
type RecordError struct {
	Record string
	ID     string
	Err    error
}

func (e *RecordError) Error() string {
	return "malformed " + e.Record + " " + e.ID + ": " + e.Err.Error()
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Is reports ErrMalformedRecord.
func (e *RecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

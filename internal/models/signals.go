// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

import (
	"time"

	"github.com/tomtom215/marquee/internal/validation"
)

// EventKind is the playback action carried by a WatchEvent.
type EventKind string

const (
	EventPlay     EventKind = "play"
	EventPause    EventKind = "pause"
	EventResume   EventKind = "resume"
	EventSeek     EventKind = "seek"
	EventComplete EventKind = "complete"
)

// Valid reports whether k is one of the known kinds.
func (k EventKind) Valid() bool {
	switch k {
	case EventPlay, EventPause, EventResume, EventSeek, EventComplete:
		return true
	}
	return false
}

// WatchEvent is one append-only playback log entry.
// UserID is empty for anonymous viewers.
type WatchEvent struct {
	UserID         string    `json:"user_id,omitempty"`
	ContentID      string    `json:"content_id" validate:"notblank"`
	Kind           EventKind `json:"kind" validate:"oneof=play pause resume seek complete"`
	ElapsedSeconds int       `json:"elapsed_seconds" validate:"gte=0"`
	SessionID      string    `json:"session_id,omitempty"`
	Timestamp      time.Time `json:"timestamp" validate:"required"`
}

// Validate reports a malformed event.
func (e *WatchEvent) Validate() error {
	if err := validation.ValidateStruct(e); err != nil {
		return err
	}
	return nil
}

// WatchProgress is the per (user, content) resume point.
// Completed never flips back to false once set.
type WatchProgress struct {
	UserID         string    `json:"user_id" validate:"notblank"`
	ContentID      string    `json:"content_id" validate:"notblank"`
	ElapsedSeconds int       `json:"elapsed_seconds" validate:"gte=0"`
	TotalSeconds   int       `json:"total_seconds" validate:"gte=0"`
	Completed      bool      `json:"completed"`
	LastWatched    time.Time `json:"last_watched" validate:"required"`
}

// ProgressPercentage returns elapsed/total in [0,1], or 0 when total is unknown.
func (p *WatchProgress) ProgressPercentage() float64 {
	if p.TotalSeconds <= 0 {
		return 0
	}
	pct := float64(p.ElapsedSeconds) / float64(p.TotalSeconds)
	if pct > 1 {
		return 1
	}
	return pct
}

// Validate reports a malformed progress row.
func (p *WatchProgress) Validate() error {
	if err := validation.ValidateStruct(p); err != nil {
		return err
	}
	return nil
}

// RatingOrComment is a user's reaction to an item. Stars is nil for a plain
// comment; Text is empty for a plain rating.
type RatingOrComment struct {
	UserID    string    `json:"user_id" validate:"notblank"`
	ContentID string    `json:"content_id" validate:"notblank"`
	Stars     *int      `json:"stars,omitempty" validate:"omitempty,min=1,max=5"`
	Text      string    `json:"text,omitempty"`
	Likes     int       `json:"likes"`
	Timestamp time.Time `json:"timestamp"`
}

// HasRating reports whether a star rating was given.
func (r *RatingOrComment) HasRating() bool {
	return r.Stars != nil
}

// HasComment reports whether free text was given.
func (r *RatingOrComment) HasComment() bool {
	return r.Text != ""
}

// WatchlistEntry marks an item a user saved for later.
type WatchlistEntry struct {
	UserID    string    `json:"user_id" validate:"notblank"`
	ContentID string    `json:"content_id" validate:"notblank"`
	AddedAt   time.Time `json:"added_at"`
}

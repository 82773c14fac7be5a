// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recorder

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/marquee/internal/models"
	"github.com/tomtom215/marquee/internal/validation"
)

// SchemaVersion is the current PlaybackMessage layout.
const SchemaVersion = 1

// MessageType separates discrete playback actions from periodic position reports.
type MessageType string

const (
	// MessageEvent carries a play, pause, resume, seek or complete action.
	MessageEvent MessageType = "event"

	// MessageProgress carries a position report for the resume point.
	MessageProgress MessageType = "progress"
)

// PlaybackMessage is the payload published on the recorder topic.
type PlaybackMessage struct {
	SchemaVersion int         `json:"schema_version"`
	EventID       string      `json:"event_id" validate:"required,uuid"`
	Type          MessageType `json:"type" validate:"oneof=event progress"`

	UserID    string           `json:"user_id,omitempty"`
	ContentID string           `json:"content_id" validate:"notblank"`
	SessionID string           `json:"session_id,omitempty"`
	Kind      models.EventKind `json:"kind,omitempty"`

	ElapsedSeconds int  `json:"elapsed_seconds" validate:"gte=0"`
	TotalSeconds   int  `json:"total_seconds,omitempty" validate:"gte=0"`
	Completed      bool `json:"completed,omitempty"`

	Timestamp time.Time `json:"timestamp" validate:"required"`
}

// ProgressUpdate is a position report from a player.
type ProgressUpdate struct {
	UserID         string `json:"user_id" validate:"notblank"`
	ContentID      string `json:"content_id" validate:"notblank"`
	SessionID      string `json:"session_id,omitempty"`
	ElapsedSeconds int    `json:"elapsed_seconds" validate:"gte=0"`
	TotalSeconds   int    `json:"total_seconds" validate:"gte=0"`
	Completed      bool   `json:"completed,omitempty"`
}

func newMessage(typ MessageType, now time.Time) *PlaybackMessage {
	return &PlaybackMessage{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.New().String(),
		Type:          typ,
		Timestamp:     now.UTC(),
	}
}

// Validate checks the message shape. Event messages need a known kind;
// progress messages need a user.
func (m *PlaybackMessage) Validate() error {
	if err := validation.ValidateStruct(m); err != nil {
		fe := err.Errors()[0]
		return &ValidationError{Field: fe.Field, Message: fe.Message}
	}
	switch m.Type {
	case MessageEvent:
		if !m.Kind.Valid() {
			return &ValidationError{Field: "Kind", Message: "Kind must be one of: play pause resume seek complete"}
		}
	case MessageProgress:
		if strings.TrimSpace(m.UserID) == "" {
			return &ValidationError{Field: "UserID", Message: "UserID is required for progress"}
		}
	}
	return nil
}

// DedupeKey identifies repeats of the same report. Two messages with equal
// keys inside the dedupe window are the same report sent twice.
func (m *PlaybackMessage) DedupeKey() string {
	var b strings.Builder
	b.Grow(len(m.UserID) + len(m.ContentID) + len(m.SessionID) + 32)
	b.WriteString(string(m.Type))
	b.WriteByte('|')
	b.WriteString(m.UserID)
	b.WriteByte('|')
	b.WriteString(m.ContentID)
	b.WriteByte('|')
	b.WriteString(string(m.Kind))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(m.ElapsedSeconds))
	b.WriteByte('|')
	b.WriteString(m.SessionID)
	return b.String()
}

// IsCompletion reports whether the message marks the title as finished.
func (m *PlaybackMessage) IsCompletion() bool {
	if m.Kind == models.EventComplete || m.Completed {
		return true
	}
	return m.TotalSeconds > 0 && m.ElapsedSeconds >= m.TotalSeconds
}

// WatchEvent converts an event message to a log entry.
func (m *PlaybackMessage) WatchEvent() models.WatchEvent {
	return models.WatchEvent{
		UserID:         m.UserID,
		ContentID:      m.ContentID,
		Kind:           m.Kind,
		ElapsedSeconds: m.ElapsedSeconds,
		SessionID:      m.SessionID,
		Timestamp:      m.Timestamp,
	}
}

// Progress returns the resume point the message implies and whether there is one.
// Anonymous messages and events without a known duration carry none, except
// complete, which always does.
func (m *PlaybackMessage) Progress() (models.WatchProgress, bool) {
	if strings.TrimSpace(m.UserID) == "" {
		return models.WatchProgress{}, false
	}
	if m.Type == MessageEvent && m.TotalSeconds <= 0 && m.Kind != models.EventComplete {
		return models.WatchProgress{}, false
	}
	return models.WatchProgress{
		UserID:         m.UserID,
		ContentID:      m.ContentID,
		ElapsedSeconds: m.ElapsedSeconds,
		TotalSeconds:   m.TotalSeconds,
		Completed:      m.IsCompletion(),
		LastWatched:    m.Timestamp,
	}, true
}

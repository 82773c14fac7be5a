// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recorder

import "errors"

var (
	// ErrRecorderClosed is returned for submissions after Close.
	ErrRecorderClosed = errors.New("recorder is closed")

	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("publisher is closed")

	// ErrNATSNotEnabled is returned when the nats backend is selected in a
	// binary built without the nats tag.
	ErrNATSNotEnabled = errors.New("NATS transport not enabled (build with -tags nats)")

	// ErrUnknownBackend is returned for an unrecognized transport name.
	ErrUnknownBackend = errors.New("unknown recorder backend")
)

// ValidationError describes a rejected playback message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

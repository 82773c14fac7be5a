// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/engagement"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/recorder"
)

// DefaultRequestTimeout bounds the work behind a single API request.
const DefaultRequestTimeout = 10 * time.Second

// PlaybackRecorder accepts playback reports from players.
// *recorder.Recorder implements it.
type PlaybackRecorder interface {
	RecordEvent(ctx context.Context, report recorder.EventReport) recorder.Outcome
	UpdateProgress(ctx context.Context, update recorder.ProgressUpdate) recorder.Outcome
}

// Dependencies are the services the handlers expose. Engine is required;
// the others are optional and their endpoints answer 503 when unset.
type Dependencies struct {
	Engine     *recommend.Engine
	Calculator *engagement.Calculator
	Churn      *engagement.ChurnClassifier
	Recorder   PlaybackRecorder

	// RequestTimeout defaults to DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response and parameter helpers
//   - handlers_health.go: liveness
//   - handlers_recommend.go: recommendation endpoints
//   - handlers_insights.go: engagement, churn and similarity
//   - handlers_playback.go: playback event and progress intake
type Handler struct {
	engine    *recommend.Engine
	calc      *engagement.Calculator
	churn     *engagement.ChurnClassifier
	recorder  PlaybackRecorder
	timeout   time.Duration
	startTime time.Time
}

// NewHandler creates the API handler.
//
//nolint:gocritic // hugeParam: dependencies are passed once at startup
func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Engine == nil {
		return nil, errors.New("recommendation engine is required")
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Handler{
		engine:    deps.Engine,
		calc:      deps.Calculator,
		churn:     deps.Churn,
		recorder:  deps.Recorder,
		timeout:   timeout,
		startTime: time.Now(),
	}, nil
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

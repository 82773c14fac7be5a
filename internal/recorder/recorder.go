// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/cache"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/models"
)

// Outcome is what the recorder did with a submission.
type Outcome string

const (
	OutcomeAccepted  Outcome = "accepted"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeThrottled Outcome = "throttled"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeFailed    Outcome = "failed"
	OutcomeClosed    Outcome = "closed"
)

// EventReport is a discrete playback action from a player. TotalSeconds is
// optional; when set, the consumer also updates the resume point.
type EventReport struct {
	UserID         string           `json:"user_id,omitempty"`
	ContentID      string           `json:"content_id" validate:"notblank"`
	Kind           models.EventKind `json:"kind" validate:"oneof=play pause resume seek complete"`
	ElapsedSeconds int              `json:"elapsed_seconds" validate:"gte=0"`
	TotalSeconds   int              `json:"total_seconds,omitempty" validate:"gte=0"`
	SessionID      string           `json:"session_id,omitempty"`
}

// Recorder accepts playback reports and publishes them for the consumer.
// Reporting is fire-and-forget: a report that is invalid, repeated,
// throttled or cannot be published is dropped, counted and logged, and the
// caller only learns the Outcome.
type Recorder struct {
	cfg       Config
	publisher *Publisher
	dedupe    *cache.LRU
	throttle  *progressThrottle
	logger    zerolog.Logger

	mu  sync.RWMutex
	now func() time.Time

	closed      atomic.Bool
	submissions atomic.Uint64
}

// New creates a recorder publishing through publisher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *Config, publisher *Publisher, logger zerolog.Logger) (*Recorder, error) {
	if publisher == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("recorder topic is required")
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultConfig().PublishTimeout
	}

	return &Recorder{
		cfg:       *cfg,
		publisher: publisher,
		dedupe:    cache.NewLRU(cfg.DedupCapacity, cfg.DedupWindow),
		throttle:  newProgressThrottle(cfg.ProgressInterval),
		logger:    logger.With().Str("component", "recorder").Logger(),
		now:       time.Now,
	}, nil
}

// SetClock overrides the time source for timestamps, dedupe and throttling.
func (r *Recorder) SetClock(now func() time.Time) {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
	r.dedupe.SetClock(now)
}

func (r *Recorder) clock() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.now()
}

// Record reports a playback action. userID may be empty for anonymous viewers.
func (r *Recorder) Record(ctx context.Context, userID, contentID string, kind models.EventKind, elapsedSeconds int, sessionID string) Outcome {
	return r.RecordEvent(ctx, EventReport{
		UserID:         userID,
		ContentID:      contentID,
		Kind:           kind,
		ElapsedSeconds: elapsedSeconds,
		SessionID:      sessionID,
	})
}

// RecordEvent reports a playback action with an optional duration.
//
//nolint:gocritic // hugeParam: report passed by value for call-site convenience
func (r *Recorder) RecordEvent(ctx context.Context, report EventReport) Outcome {
	m := newMessage(MessageEvent, r.clock())
	m.UserID = report.UserID
	m.ContentID = report.ContentID
	m.Kind = report.Kind
	m.ElapsedSeconds = report.ElapsedSeconds
	m.TotalSeconds = report.TotalSeconds
	m.SessionID = report.SessionID

	outcome, _ := r.Submit(ctx, m)
	return outcome
}

// UpdateProgress reports a playback position. Reports for the same
// (user, content) closer together than the progress interval are dropped
// unless they mark the title complete.
//
//nolint:gocritic // hugeParam: update passed by value for call-site convenience
func (r *Recorder) UpdateProgress(ctx context.Context, update ProgressUpdate) Outcome {
	m := newMessage(MessageProgress, r.clock())
	m.UserID = update.UserID
	m.ContentID = update.ContentID
	m.SessionID = update.SessionID
	m.ElapsedSeconds = update.ElapsedSeconds
	m.TotalSeconds = update.TotalSeconds
	m.Completed = update.Completed

	outcome, _ := r.Submit(ctx, m)
	return outcome
}

// Submit runs a message through validation, dedupe and throttling and
// publishes it. The error explains any outcome other than accepted,
// duplicate or throttled.
func (r *Recorder) Submit(ctx context.Context, m *PlaybackMessage) (Outcome, error) {
	label := metricLabel(m)

	if r.submissions.Add(1)%sweepEvery == 0 {
		r.sweepDedupe()
	}

	if r.closed.Load() {
		metrics.RecordRecorderEvent(label, string(OutcomeClosed))
		return OutcomeClosed, ErrRecorderClosed
	}

	if err := m.Validate(); err != nil {
		metrics.RecordRecorderEvent(label, string(OutcomeInvalid))
		r.logger.Debug().Err(err).Str("content_id", m.ContentID).Msg("dropping invalid playback report")
		return OutcomeInvalid, err
	}

	key := m.DedupeKey()
	if r.dedupe.Seen(key) {
		metrics.RecordRecorderEvent(label, string(OutcomeDuplicate))
		return OutcomeDuplicate, nil
	}

	throttleKey := m.UserID + "|" + m.ContentID
	limited := m.Type == MessageProgress && !m.IsCompletion()
	if limited && !r.throttle.Allow(throttleKey, r.clock()) {
		metrics.RecordRecorderEvent(label, string(OutcomeThrottled))
		return OutcomeThrottled, nil
	}

	if err := r.publish(ctx, m); err != nil {
		// Let a client retry of the same report through.
		r.dedupe.Forget(key)
		if limited {
			r.throttle.Forget(throttleKey)
		}
		metrics.RecordRecorderEvent(label, string(OutcomeFailed))
		r.logger.Warn().
			Err(err).
			Str("content_id", m.ContentID).
			Str("type", string(m.Type)).
			Msg("failed to publish playback report")
		return OutcomeFailed, err
	}

	metrics.RecordRecorderEvent(label, string(OutcomeAccepted))
	return OutcomeAccepted, nil
}

// sweepDedupe drops expired dedupe keys and reports the window size.
func (r *Recorder) sweepDedupe() {
	removed := r.dedupe.CleanupExpired()
	metrics.RecorderDedupeExpired.Add(float64(removed))
	metrics.RecorderDedupeKeys.Set(float64(r.dedupe.Len()))
}

func (r *Recorder) publish(ctx context.Context, m *PlaybackMessage) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}

	msg := message.NewMessage(m.EventID, data)
	msg.Metadata.Set("type", string(m.Type))
	msg.Metadata.Set("content_id", m.ContentID)
	if m.UserID != "" {
		msg.Metadata.Set("user_id", m.UserID)
	}

	// The caller going away must not cancel a report it already handed over.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.PublishTimeout)
	defer cancel()
	return r.publisher.Publish(pubCtx, r.cfg.Topic, msg)
}

// Close stops accepting reports and closes the publisher.
func (r *Recorder) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return ErrRecorderClosed
	}
	if err := r.publisher.Close(); err != nil && !errors.Is(err, ErrPublisherClosed) {
		return fmt.Errorf("close publisher: %w", err)
	}
	return nil
}

func metricLabel(m *PlaybackMessage) string {
	if m.Type == MessageEvent && m.Kind.Valid() {
		return string(m.Kind)
	}
	if m.Type == MessageProgress {
		return string(MessageProgress)
	}
	return "unknown"
}

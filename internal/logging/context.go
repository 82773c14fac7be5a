// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const (
	keyCorrelationID ctxKey = iota
	keyRequestID
	keyLogger
)

// GenerateCorrelationID returns a short id for tying related log lines together.
func GenerateCorrelationID() string {
	return uuid.NewString()[:8]
}

// GenerateRequestID returns a full UUID for an inbound request.
func GenerateRequestID() string {
	return uuid.NewString()
}

// ContextWithCorrelationID stores id on ctx.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyCorrelationID, id)
}

// ContextWithNewCorrelationID stores a freshly generated correlation id on ctx.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// ContextWithRequestID stores the request id on ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func stringValue(ctx context.Context, key ctxKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}

// CorrelationIDFromContext returns the correlation id or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, keyCorrelationID)
}

// RequestIDFromContext returns the request id or "".
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, keyRequestID)
}

// ContextWithLogger pins logger to ctx; Ctx prefers it over the global one.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, keyLogger, logger)
}

// Ctx returns a logger carrying the correlation and request ids found on ctx.
//
//	logging.Ctx(ctx).Info().Str("user_id", id).Msg("Recommendations served")
func Ctx(ctx context.Context) *zerolog.Logger {
	base, ok := ctx.Value(keyLogger).(zerolog.Logger)
	if !ok {
		base = Logger()
	}

	l := base.With().Fields(idFields(ctx)).Logger()
	return &l
}

func idFields(ctx context.Context) map[string]interface{} {
	fields := make(map[string]interface{}, 2)
	if id := CorrelationIDFromContext(ctx); id != "" {
		fields["correlation_id"] = id
	}
	if id := RequestIDFromContext(ctx); id != "" {
		fields["request_id"] = id
	}
	return fields
}

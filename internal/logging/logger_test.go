// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{" Trace ", zerolog.TraceLevel},
		{"disabled", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCtx_AddsIDs(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithCorrelationID(ctx, "abc12345")
	ctx = ContextWithRequestID(ctx, "req-1")

	Ctx(ctx).Info().Msg("hello")

	out := buf.String()
	for _, want := range []string{`"correlation_id":"abc12345"`, `"request_id":"req-1"`, `"hello"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %s", out, want)
		}
	}
}

func TestContextIDs_Empty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	if CorrelationIDFromContext(ctx) != "" || RequestIDFromContext(ctx) != "" {
		t.Error("expected empty ids on bare context")
	}
	if got := len(GenerateCorrelationID()); got != 8 {
		t.Errorf("correlation id length = %d, want 8", got)
	}
}

func TestSlogHandler_WritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	h := NewSlogHandlerWithLogger(NewTestLogger(&buf))
	logger := slog.New(h).WithGroup("supervisor")

	logger.Warn("service restarted", slog.String("service", "http-server"), slog.Int("attempt", 2))

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"supervisor.service":"http-server"`, `"supervisor.attempt":2`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %s", out, want)
		}
	}
}

func TestSlogHandler_WithAttrsKeepsGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewSlogHandlerWithLogger(NewTestLogger(&buf))).
		With(slog.String("tree", "marquee")).
		WithGroup("event").
		With(slog.String("layer", "api-layer"))

	logger.Error("backoff", slog.Group("restart", slog.Int("n", 3)))

	out := buf.String()
	for _, want := range []string{`"tree":"marquee"`, `"event.layer":"api-layer"`, `"event.restart.n":3`, `"level":"error"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %s", out, want)
		}
	}
}

func TestInit_ServiceField(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Output = &buf
	cfg.Level = "debug"
	Init(cfg)
	defer Init(DefaultConfig())

	l := WithComponent("recorder")
	l.Debug().Msg("ready")

	out := buf.String()
	for _, want := range []string{`"service":"marquee"`, `"component":"recorder"`, `"level":"debug"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %s", out, want)
		}
	}
}

func TestWatermillAdapter(t *testing.T) {
	var buf bytes.Buffer
	a := NewWatermillAdapter(NewTestLogger(&buf)).With(watermill.LogFields{"topic": "playback"})

	a.Error("handler failed", errors.New("boom"), watermill.LogFields{"attempt": 3})

	out := buf.String()
	for _, want := range []string{`"topic":"playback"`, `"attempt":3`, `"error":"boom"`, `"handler failed"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %s", out, want)
		}
	}
}

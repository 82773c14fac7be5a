// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/middleware"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/signalstore"
)

func mustEngine(t *testing.T) *recommend.Engine {
	t.Helper()
	e, err := recommend.NewEngine(signalstore.NewMemoryStore(), recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestHealthLive(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, fixtureStore(t))
	rec, env := srv.get(t, "/api/v1/health/live")
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("status = %d/%s", rec.Code, env.Status)
	}
	id := rec.Header().Get(middleware.RequestIDHeader)
	if id == "" {
		t.Error("missing X-Request-ID")
	}
	if env.Metadata.RequestID != id {
		t.Errorf("metadata request_id = %q, want %q", env.Metadata.RequestID, id)
	}
	if !strings.Contains(string(env.Data), `"alive":true`) {
		t.Errorf("data = %s", env.Data)
	}
}

func TestRouter_NotFoundAndMethod(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, fixtureStore(t))

	rec, env := srv.get(t, "/api/v1/nope")
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("unknown path: %d %+v", rec.Code, env.Error)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/recommendations/trending", nil)
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d, want 405", rec.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, fixtureStore(t))
	srv.get(t, "/api/v1/recommendations/trending")

	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "marquee_http_requests_total") {
		t.Error("metrics output is missing marquee_http_requests_total")
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(Dependencies{Engine: mustEngine(t)})
	if err != nil {
		t.Fatal(err)
	}
	mw := NewChiMiddlewareFromConfig(&config.ServerConfig{RateLimitRequests: 2, RateLimitWindow: time.Minute})
	router := NewRouter(h, mw).SetupChi()

	do := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "203.0.113.7:5000"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do("/api/v1/recommendations/trending"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	rec := do("/api/v1/recommendations/trending")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != "TOO_MANY_REQUESTS" {
		t.Errorf("error = %+v", env.Error)
	}

	// Probes are never limited.
	if rec := do("/api/v1/health/live"); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestNewChiMiddlewareFromConfig_Disabled(t *testing.T) {
	t.Parallel()

	mw := NewChiMiddlewareFromConfig(&config.ServerConfig{})
	if !mw.config.RateLimitDisabled {
		t.Error("zero budget should disable rate limiting")
	}
	if NewChiMiddlewareFromConfig(nil).config.RateLimitDisabled {
		t.Error("nil server config should keep the default limit")
	}
}

func TestCORS_Preflight(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(Dependencies{Engine: mustEngine(t)})
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://player.example.com"}
	router := NewRouter(h, NewChiMiddleware(cfg)).SetupChi()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/playback/events", nil)
	req.Header.Set("Origin", "https://player.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://player.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/marquee/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to ALL routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	// Health checks skip rate limiting so probes never see 429.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(chimiddleware.Compress(5))

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/users/{userID}", router.handler.UserRecommendations)
			r.Get("/users/{userID}/collaborative", router.handler.CollaborativeRecommendations)
			r.Get("/users/{userID}/personalized", router.handler.PersonalizedRecommendations)
			r.Get("/content/{contentID}/similar", router.handler.SimilarContent)
			r.Get("/trending", router.handler.Trending)
			r.Get("/cold-start", router.handler.ColdStart)
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/users/{userID}/engagement", router.handler.UserEngagement)
			r.Get("/users/{userID}/churn", router.handler.UserChurn)
			r.Get("/similarity", router.handler.UserSimilarity)
		})

		r.Route("/playback", func(r chi.Router) {
			r.Use(chimiddleware.AllowContentType("application/json"))
			r.Post("/events", router.handler.PlaybackEvent)
			r.Post("/progress", router.handler.PlaybackProgress)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

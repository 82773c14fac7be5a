// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package api provides the HTTP serving layer for Marquee.

It exposes the recommendation engine, the engagement insights and the
playback recorder as JSON endpoints under /api/v1. Every response uses the
models.APIResponse envelope with status "success" or "error".

Endpoints:

	GET  /api/v1/health/live
	GET  /api/v1/recommendations/users/{userID}                 hybrid, cold-start fallback
	GET  /api/v1/recommendations/users/{userID}/collaborative
	GET  /api/v1/recommendations/users/{userID}/personalized
	GET  /api/v1/recommendations/content/{contentID}/similar    ?user_id=&limit=
	GET  /api/v1/recommendations/trending                       ?days=&limit=
	GET  /api/v1/recommendations/cold-start                     ?limit=
	GET  /api/v1/insights/users/{userID}/engagement
	GET  /api/v1/insights/users/{userID}/churn
	GET  /api/v1/insights/similarity                            ?a=&b=
	POST /api/v1/playback/events                                202 Accepted
	POST /api/v1/playback/progress                              202 Accepted
	GET  /metrics

Endpoints never fail because of the signal store: the engine degrades to an
empty list and insight endpoints return a zero result marked degraded.

Middleware stack (all routes): request ID with logging context, RealIP,
Recoverer, CORS. API routes are additionally rate limited per client IP
with go-chi/httprate and instrumented with Prometheus metrics.

Example:

	handler, err := api.NewHandler(api.Dependencies{Engine: engine, Calculator: calc, Churn: churn, Recorder: rec})
	if err != nil {
	    return err
	}
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Server))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api

// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package middleware provides HTTP middleware shared by the serving API.

  - RequestID: reuses or generates an X-Request-ID and seeds the logging
    context with request and correlation IDs.
  - PrometheusMetrics: counts requests and observes latency per chi route
    pattern, so path parameters such as user IDs never become label values.

Both follow the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	})
*/
package middleware

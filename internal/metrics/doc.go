// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package metrics holds the Prometheus collectors for Marquee.

Collectors are registered on the default registry through promauto and
exposed by the serving layer at /metrics:

	curl http://localhost:8480/metrics

Families:

  - marquee_scorer_*: per-algorithm request outcomes, latency and result sizes
  - marquee_hybrid_*: combiner source failures
  - marquee_store_*: signal store read latency, errors and circuit breaker state
  - marquee_recorder_*: playback events accepted, dropped, deduplicated and persisted
  - marquee_http_*: serving API requests
*/
package metrics

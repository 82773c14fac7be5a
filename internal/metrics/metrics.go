// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scorer outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeFailed   = "failed"
	OutcomeNoScorer = "no_scorer"
)

var (
	// Scorer metrics
	ScorerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_scorer_requests_total",
			Help: "Scorer invocations by source algorithm and outcome",
		},
		[]string{"source", "outcome"},
	)

	ScorerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_scorer_duration_seconds",
			Help:    "Scorer latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"source"},
	)

	ScorerCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_scorer_candidates",
			Help:    "Number of candidates returned per call",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
		[]string{"source"},
	)

	HybridSourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_hybrid_source_failures_total",
			Help: "Hybrid sub-calls that degraded to an empty list",
		},
		[]string{"source"},
	)

	ColdStartFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_cold_start_fallbacks_total",
			Help: "User requests served from cold-start because the hybrid list was empty",
		},
	)

	// Signal store metrics
	StoreReadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_store_read_duration_seconds",
			Help:    "Signal store read latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreReadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_store_read_errors_total",
			Help: "Signal store read failures",
		},
		[]string{"operation"},
	)

	StoreBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marquee_store_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Recorder metrics
	RecorderEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_recorder_events_total",
			Help: "Playback messages handled by the recorder, by kind and result",
		},
		[]string{"kind", "result"},
	)

	RecorderPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_recorder_publish_failures_total",
			Help: "Playback messages that could not be published",
		},
	)

	RecorderPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_recorder_persisted_total",
			Help: "Records written to the signal store by the consumer",
		},
		[]string{"record"},
	)

	RecorderConsumeErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_recorder_consume_errors_total",
			Help: "Consumer handler failures",
		},
	)

	RecorderDedupeKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "marquee_recorder_dedupe_keys",
			Help: "Keys held in the recorder dedupe window after the last sweep",
		},
	)

	RecorderDedupeExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marquee_recorder_dedupe_expired_total",
			Help: "Expired dedupe keys removed by sweeps",
		},
	)

	// Insights metrics
	ChurnClassifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_churn_classifications_total",
			Help: "Churn risk classifications by tier",
		},
		[]string{"tier"},
	)

	InsightErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_insight_errors_total",
			Help: "Failed engagement, similarity and churn computations",
		},
		[]string{"insight"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marquee_http_requests_total",
			Help: "Serving API requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marquee_http_request_duration_seconds",
			Help:    "Serving API latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordScorer records one scorer invocation.
func RecordScorer(source, outcome string, duration time.Duration, candidates int) {
	ScorerRequests.WithLabelValues(source, outcome).Inc()
	ScorerDuration.WithLabelValues(source).Observe(duration.Seconds())
	ScorerCandidates.WithLabelValues(source).Observe(float64(candidates))
}

// RecordStoreRead records one signal store read.
func RecordStoreRead(operation string, duration time.Duration, err error) {
	StoreReadDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreReadErrors.WithLabelValues(operation).Inc()
	}
}

// SetBreakerState publishes a breaker state as 0 closed, 1 half-open, 2 open.
func SetBreakerState(name string, state int) {
	StoreBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordRecorderEvent counts one recorder decision (accepted, duplicate, throttled, invalid, closed).
func RecordRecorderEvent(kind, result string) {
	RecorderEvents.WithLabelValues(kind, result).Inc()
}

// RecordHTTPRequest records one API request.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

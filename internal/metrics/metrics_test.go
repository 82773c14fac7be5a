// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordScorer(t *testing.T) {
	before := testutil.ToFloat64(ScorerRequests.WithLabelValues("trending", OutcomeOK))
	RecordScorer("trending", OutcomeOK, 3*time.Millisecond, 10)
	after := testutil.ToFloat64(ScorerRequests.WithLabelValues("trending", OutcomeOK))

	if after-before != 1 {
		t.Errorf("scorer counter delta = %v, want 1", after-before)
	}
}

func TestRecordStoreRead(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantDelta float64
	}{
		{"success", nil, 0},
		{"failure", errors.New("connection refused"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := "test_" + tt.name
			before := testutil.ToFloat64(StoreReadErrors.WithLabelValues(op))
			RecordStoreRead(op, time.Millisecond, tt.err)
			after := testutil.ToFloat64(StoreReadErrors.WithLabelValues(op))
			if after-before != tt.wantDelta {
				t.Errorf("error delta = %v, want %v", after-before, tt.wantDelta)
			}
		})
	}
}

func TestSetBreakerState(t *testing.T) {
	SetBreakerState("signal-store-test", 2)
	if got := testutil.ToFloat64(StoreBreakerState.WithLabelValues("signal-store-test")); got != 2 {
		t.Errorf("breaker gauge = %v, want 2", got)
	}
}

func TestRecordRecorderEvent(t *testing.T) {
	before := testutil.ToFloat64(RecorderEvents.WithLabelValues("play", "duplicate"))
	RecordRecorderEvent("play", "duplicate")
	RecordRecorderEvent("play", "duplicate")
	after := testutil.ToFloat64(RecorderEvents.WithLabelValues("play", "duplicate"))
	if after-before != 2 {
		t.Errorf("recorder counter delta = %v, want 2", after-before)
	}
}

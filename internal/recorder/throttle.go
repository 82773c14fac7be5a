// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recorder

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// sweepEvery is how many calls pass between sweeps of idle limiters and
// expired dedupe keys.
const sweepEvery = 1024

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// progressThrottle spaces progress reports per key with a token bucket of
// one token refilled every interval. Limiters idle for longer than ten
// intervals are dropped.
type progressThrottle struct {
	interval time.Duration

	mu       sync.Mutex
	limiters map[string]*limiterEntry
	calls    int
}

func newProgressThrottle(interval time.Duration) *progressThrottle {
	return &progressThrottle{
		interval: interval,
		limiters: make(map[string]*limiterEntry),
	}
}

// Allow reports whether a report for key may pass at now.
func (t *progressThrottle) Allow(key string, now time.Time) bool {
	if t.interval <= 0 {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++
	if t.calls%sweepEvery == 0 {
		t.sweep(now)
	}

	e, ok := t.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(t.interval), 1)}
		t.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Forget drops the limiter for key, so the next report passes.
func (t *progressThrottle) Forget(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.limiters, key)
}

func (t *progressThrottle) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.limiters)
}

func (t *progressThrottle) sweep(now time.Time) {
	idle := 10 * t.interval
	for k, e := range t.limiters {
		if now.Sub(e.lastSeen) > idle {
			delete(t.limiters, k)
		}
	}
}

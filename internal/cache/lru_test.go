// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestLRU(capacity int, ttl time.Duration) (*LRU, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRU(capacity, ttl)
	c.SetClock(clock.Now)
	return c, clock
}

// contains reports whether key is held and unexpired without touching it.
func contains(c *LRU, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	return ok && c.now().Before(e.expiresAt)
}

func TestLRU_Seen(t *testing.T) {
	t.Parallel()

	c, _ := newTestLRU(10, time.Second)
	if c.Seen("a") {
		t.Error("first Seen(a) should miss")
	}
	if !c.Seen("a") {
		t.Error("second Seen(a) should hit")
	}
	if c.Seen("b") {
		t.Error("Seen(b) should miss")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLRU_Expiry(t *testing.T) {
	t.Parallel()

	c, clock := newTestLRU(10, 5*time.Second)
	c.Seen("k")

	clock.Advance(4 * time.Second)
	if !c.Seen("k") {
		t.Error("key should still be inside the window")
	}

	// A hit does not extend the window.
	clock.Advance(time.Second)
	if contains(c, "k") {
		t.Error("key should expire at exactly ttl")
	}
	if c.Seen("k") {
		t.Error("expired key should miss")
	}
	if !contains(c, "k") {
		t.Error("miss should record the key again")
	}
}

func TestLRU_Eviction(t *testing.T) {
	t.Parallel()

	c, _ := newTestLRU(3, time.Minute)
	c.Seen("a")
	c.Seen("b")
	c.Seen("c")
	c.Seen("a") // a is now most recent, b least
	c.Seen("d")

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if contains(c, "b") {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if !contains(c, k) {
			t.Errorf("%s should be present", k)
		}
	}
}

func TestLRU_ForgetAndCleanup(t *testing.T) {
	t.Parallel()

	c, clock := newTestLRU(10, time.Second)
	c.Seen("a")
	if !c.Forget("a") || c.Forget("a") {
		t.Error("Forget should report presence once")
	}

	c.Seen("x")
	c.Seen("y")
	clock.Advance(500 * time.Millisecond)
	c.Seen("z")
	clock.Advance(600 * time.Millisecond)

	if n := c.CleanupExpired(); n != 2 {
		t.Errorf("CleanupExpired() = %d, want 2", n)
	}
	if c.Len() != 1 || !contains(c, "z") {
		t.Errorf("only z should remain, Len() = %d", c.Len())
	}
}

func TestLRU_Defaults(t *testing.T) {
	t.Parallel()

	c := NewLRU(0, 0)
	if c.capacity != defaultCapacity || c.ttl != defaultTTL {
		t.Errorf("defaults = %d/%v", c.capacity, c.ttl)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	c, _ := newTestLRU(100, time.Minute)
	var wg sync.WaitGroup
	var mu sync.Mutex
	misses := 0
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if !c.Seen(fmt.Sprintf("k%d", i)) {
					mu.Lock()
					misses++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	// Every key misses exactly once no matter which goroutine got there first.
	if misses != 50 {
		t.Errorf("misses = %d, want 50", misses)
	}
}

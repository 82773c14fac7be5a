// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package cache provides the bounded, expiring key window used by the playback
recorder to drop repeated events.

LRU is a doubly linked list plus a map: Seen, Forget and eviction are O(1).
Entries expire lazily after the configured TTL; CleanupExpired sweeps them
eagerly and the recorder calls it periodically. When the window is full the least recently seen key is evicted, so
memory stays bounded no matter how many sessions are reporting.

	window := cache.NewLRU(10000, 5*time.Second)
	if window.Seen(key) {
		return // duplicate inside the window
	}

The clock can be replaced for tests with SetClock.
*/
package cache

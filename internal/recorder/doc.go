// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package recorder is the write side of the engine: it takes playback reports
from players, publishes them on a Watermill topic and persists them into the
signal store from a consumer.

# Flow

	Record / RecordEvent / UpdateProgress
	  -> validate          (invalid reports are dropped)
	  -> dedupe window     (identical report inside DedupWindow is dropped)
	  -> progress throttle (one progress report per ProgressInterval per title)
	  -> publish           (circuit breaker, bounded by PublishTimeout)
	  ~~ topic ~~
	Consumer (message.Router: PoisonQueue, Recoverer, Retry)
	  -> AppendWatchEvent      for action reports
	  -> UpsertWatchProgress   when the report carries a duration, is a
	                           progress report, or is a completion

Completions are never throttled. The recorder never blocks the caller beyond
one bounded publish, and the engine never waits for the consumer: a report
becomes visible to recommendations once the consumer has stored it.

# Transports

The default backend is Watermill's in-process gochannel. Building with
-tags nats and setting backend to "nats" switches to NATS JetStream with a
durable consumer bound to a provisioned stream.

# Errors

Submit returns ErrRecorderClosed after Close, a *ValidationError for a
malformed report, or the wrapped publish error. Record, RecordEvent and
UpdateProgress only return the Outcome.
*/
package recorder

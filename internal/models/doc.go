// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package models defines the signal records the engine reads and the API envelope
it writes.

Signal records:

  - ContentItem: catalog entry with genres, director, cast, studio, release year and status
  - WatchEvent: append-only playback log entry (play, pause, resume, seek, complete)
  - WatchProgress: one resume point per user and item; Completed is monotonic
  - RatingOrComment: optional 1-5 stars and/or free text
  - WatchlistEntry: saved-for-later marker

Each record carries validator tags; Validate reports rows that are missing a
required field so readers can treat them as malformed.
*/
package models

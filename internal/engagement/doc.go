// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package engagement computes per-user insight figures from the signal store:
pairwise user similarity, an additive engagement score and a churn risk tier.

# Similarity

Similarity is the Jaccard index of two users' watched sets, where a title is
watched when the user has any progress row for it:

	similarity(A, B) = |A ∩ B| / |A ∪ B|

It is 0 when either set is empty.

# Engagement

	score = completion_rate*30 + comments*10 + ratings*15 + watchlist*5

A row with both a star rating and text counts once as a rating and once as a
comment. completion_rate is 0 for users without progress rows.

# Churn Risk

The classifier adds points for low engagement, long inactivity and a low
completion rate, then buckets the total:

	score >= 60  high
	score >= 30  medium
	otherwise    low

Users without any progress rows are high risk without further scoring.
Every rule that was evaluated is reported as a Factor, including rules that
contributed zero points, so a classification can be audited from its output.

Like the recommendation engine, nothing here returns store errors. A failed
read is logged and counted, and the method returns a zero result with
Degraded set.
*/
package engagement

// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

// Request structs carry validated path and query parameters. A zero Limit
// means the engine default.

// UserRecommendationsRequest is used by the per-user recommendation endpoints.
type UserRecommendationsRequest struct {
	UserID string `validate:"notblank,max=256"`
	Limit  int    `validate:"min=0,max=100"`
}

// SimilarContentRequest is used by /recommendations/content/{contentID}/similar.
type SimilarContentRequest struct {
	ContentID string `validate:"notblank,max=256"`
	UserID    string `validate:"omitempty,max=256"`
	Limit     int    `validate:"min=0,max=100"`
}

// TrendingRequest is used by /recommendations/trending. Days 0 uses the
// configured window.
type TrendingRequest struct {
	Days  int `validate:"min=0,max=3650"`
	Limit int `validate:"min=0,max=100"`
}

// ColdStartRequest is used by /recommendations/cold-start.
type ColdStartRequest struct {
	Limit int `validate:"min=0,max=100"`
}

// UserInsightRequest is used by the per-user insight endpoints.
type UserInsightRequest struct {
	UserID string `validate:"notblank,max=256"`
}

// SimilarityRequest is used by /insights/similarity.
type SimilarityRequest struct {
	A string `validate:"notblank,max=256"`
	B string `validate:"notblank,max=256"`
}

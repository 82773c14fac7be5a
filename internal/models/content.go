// Marquee - Recommendation and Engagement Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package models

import (
	"github.com/tomtom215/marquee/internal/validation"
)

// ContentStatus is the publication state of a catalog item.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
	StatusArchived  ContentStatus = "archived"
)

// ContentItem is one entry of the content catalog.
// Only items in StatusPublished are ever recommended.
type ContentItem struct {
	ID          string        `json:"id" validate:"notblank"`
	Title       string        `json:"title,omitempty"`
	Genres      []string      `json:"genres"`
	Director    string        `json:"director,omitempty"`
	Cast        []string      `json:"cast,omitempty"`
	Studio      string        `json:"studio,omitempty"`
	ReleaseYear int           `json:"release_year" validate:"gte=0,lte=9999"`
	Status      ContentStatus `json:"status" validate:"oneof=draft published archived"`
}

// IsPublished reports whether the item may be recommended.
func (c *ContentItem) IsPublished() bool {
	return c.Status == StatusPublished
}

// Validate reports a malformed catalog row.
func (c *ContentItem) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	return nil
}

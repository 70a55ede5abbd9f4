// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is the brand purple applied when no color is given.
const DefaultCategoryColor = "#5b21b6"

// Category classifies posts. Slug is globally unique across categories.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// PostCount is computed on read, never stored.
	PostCount int `json:"postCount"`
}

// CategoryPatch is a partial update for a category.
type CategoryPatch struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// Tag is a free-form label attached to posts. Slug is unique across tags.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`

	PostCount int `json:"postCount"`
}

// TagPatch is a partial update for a tag.
type TagPatch struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the editorial state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPending   PostStatus = "pending"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
)

// ValidPostStatus reports whether s is one of the four known statuses.
func ValidPostStatus(s PostStatus) bool {
	switch s {
	case PostStatusDraft, PostStatusPending, PostStatusScheduled, PostStatusPublished:
		return true
	}
	return false
}

// DefaultAuthor is used when a post is created without an explicit author.
const DefaultAuthor = "Waqas Riaz"

// Post represents a blog post. Content is an HTML string produced by the
// rich-text editor. Categories and tags are loaded alongside the post.
type Post struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Excerpt          string     `json:"excerpt"`
	Content          string     `json:"content,omitempty"`
	FeaturedImage    *string    `json:"featuredImage,omitempty"`
	FeaturedImageAlt *string    `json:"featuredImageAlt,omitempty"`
	Categories       []Category `json:"categories"`
	Tags             []Tag      `json:"tags"`
	Author           string     `json:"author"`
	Status           PostStatus `json:"status"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
	ScheduledFor     *time.Time `json:"scheduledFor,omitempty"`
	MetaTitle        *string    `json:"metaTitle,omitempty"`
	MetaDescription  *string    `json:"metaDescription,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// VisibleAt reports whether the post is publicly visible at the given
// instant. Status alone is not sufficient: a published post with a future
// publish timestamp stays hidden until that instant passes.
func (p *Post) VisibleAt(t time.Time) bool {
	return p.Status == PostStatusPublished && p.PublishedAt != nil && !p.PublishedAt.After(t)
}

// CategoryIDs returns the IDs of the post's categories.
func (p *Post) CategoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// PostInput carries the validated fields for creating a post.
type PostInput struct {
	Title            string      `json:"title"`
	Slug             string      `json:"slug"`
	Excerpt          string      `json:"excerpt"`
	Content          string      `json:"content"`
	FeaturedImage    *string     `json:"featuredImage"`
	FeaturedImageAlt *string     `json:"featuredImageAlt"`
	Categories       []uuid.UUID `json:"categories"`
	Tags             []uuid.UUID `json:"tags"`
	Author           string      `json:"author"`
	Status           PostStatus  `json:"status"`
	ScheduledFor     *time.Time  `json:"scheduledFor"`
	MetaTitle        *string     `json:"metaTitle"`
	MetaDescription  *string     `json:"metaDescription"`
}

// PostPatch is a partial update. Only non-nil fields are applied; absent
// fields leave the stored value untouched.
type PostPatch struct {
	Title            *string      `json:"title"`
	Slug             *string      `json:"slug"`
	Excerpt          *string      `json:"excerpt"`
	Content          *string      `json:"content"`
	FeaturedImage    *string      `json:"featuredImage"`
	FeaturedImageAlt *string      `json:"featuredImageAlt"`
	Categories       *[]uuid.UUID `json:"categories"`
	Tags             *[]uuid.UUID `json:"tags"`
	Status           *PostStatus  `json:"status"`
	ScheduledFor     *time.Time   `json:"scheduledFor"`
	MetaTitle        *string      `json:"metaTitle"`
	MetaDescription  *string      `json:"metaDescription"`
}

// Pagination is the metadata returned alongside every paged listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes totalPages as ceil(total/limit).
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"leadpress/internal/models"
)

// Validation limits for post and intake fields.
const (
	maxTitleLen   = 300
	maxSlugLen    = 300
	maxContentLen = 200_000
	maxExcerptLen = 1_000
	maxNameLen    = 200
	maxMessageLen = 10_000
	minMessageLen = 10
	minNameLen    = 2
	minProblemLen = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validEmail reports whether s looks like a deliverable address.
func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// validatePost checks post create/update inputs and returns the first
// error found, or "".
func validatePost(title, slug, excerpt, content string, status models.PostStatus) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if strings.TrimSpace(excerpt) == "" {
		return "Excerpt is required."
	}
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	if strings.TrimSpace(content) == "" {
		return "Content is required."
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 200,000 characters)."
	}
	if status != "" && !models.ValidPostStatus(status) {
		return "Invalid status."
	}
	return ""
}

// validateContact checks contact form fields and returns the first error
// found, or "".
func validateContact(in *models.LeadInput) string {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	if utf8.RuneCountInString(in.Name) < minNameLen {
		return "Name must be at least 2 characters."
	}
	if utf8.RuneCountInString(in.Name) > maxNameLen {
		return "Name is too long."
	}
	if !validEmail(in.Email) {
		return "A valid email address is required."
	}
	if utf8.RuneCountInString(in.Message) < minMessageLen {
		return "Message must be at least 10 characters."
	}
	if utf8.RuneCountInString(in.Message) > maxMessageLen {
		return "Message is too long."
	}
	return ""
}

// validateApplication checks consulting application fields. The budget is
// only mandatory when the applicant doesn't know which service they need,
// and an existing website is required for an audit.
func validateApplication(in *models.ApplicationInput) string {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Problem = strings.TrimSpace(in.Problem)

	if utf8.RuneCountInString(in.FullName) < minNameLen {
		return "Full name must be at least 2 characters."
	}
	if !validEmail(in.Email) {
		return "A valid email address is required."
	}
	if in.UsingHouzez == "" {
		return "Please tell us whether you are using Houzez."
	}
	if in.ServiceType == "" {
		return "Service type is required."
	}
	if in.TargetMarket == "" {
		return "Target market is required."
	}
	if in.Timeline == "" {
		return "Timeline is required."
	}
	if utf8.RuneCountInString(in.Problem) < minProblemLen {
		return "Please describe your problem in at least 10 characters."
	}
	if in.ServiceType == "not-sure" && (in.Budget == nil || strings.TrimSpace(*in.Budget) == "") {
		return "Budget is required when you are not sure which service you need."
	}
	if in.ServiceType == "audit" && (in.Website == nil || strings.TrimSpace(*in.Website) == "") {
		return "Website URL is required for an audit."
	}
	return ""
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"leadpress/internal/apperr"
	"leadpress/internal/cache"
	"leadpress/internal/mailer"
	"leadpress/internal/models"
	"leadpress/internal/store"
)

const (
	// defaultPublicLimit is the blog grid page size.
	defaultPublicLimit = 9

	// relatedLimit is how many related posts accompany a post detail.
	relatedLimit = 3

	// sidebarTagLimit caps the popular-tags sidebar widget.
	sidebarTagLimit = 15

	// mailTimeout bounds each best-effort notification send.
	mailTimeout = 30 * time.Second
)

// Public groups the unauthenticated API handlers: blog reads and intake
// form submissions.
type Public struct {
	posts        *store.PostStore
	categories   *store.CategoryStore
	tags         *store.TagStore
	leads        *store.LeadStore
	applications *store.ApplicationStore
	mail         mailer.Sender
	respCache    *cache.ResponseCache
}

// NewPublic creates the public handler group. mail and respCache may be
// nil; intake submissions are then persisted without notification and the
// sidebar is computed on every request.
func NewPublic(
	posts *store.PostStore,
	categories *store.CategoryStore,
	tags *store.TagStore,
	leads *store.LeadStore,
	applications *store.ApplicationStore,
	mail mailer.Sender,
	respCache *cache.ResponseCache,
) *Public {
	return &Public{
		posts:        posts,
		categories:   categories,
		tags:         tags,
		leads:        leads,
		applications: applications,
		mail:         mail,
		respCache:    respCache,
	}
}

// ListPosts returns a page of visible posts, optionally filtered by
// category slug and a title/excerpt search term.
func (p *Public) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, defaultPublicLimit, 50)
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")

	posts, total, err := p.posts.ListPublic(page, limit, category, search)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"posts":      posts,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// GetPost returns a single visible post by slug together with up to three
// related posts sharing a category.
func (p *Public) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := p.posts.FindPublicBySlug(slug)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if post == nil {
		respondError(w, r, apperr.NotFound("Post"))
		return
	}

	related, err := p.posts.Related(post.Slug, post.CategoryIDs(), relatedLimit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if related == nil {
		related = []models.Post{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"post":         post,
		"relatedPosts": related,
	})
}

// SearchPosts searches visible posts over title, excerpt, and content.
func (p *Public) SearchPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, r, apperr.Validation("Search query is required"))
		return
	}
	page, limit := pageParams(r, defaultPublicLimit, 50)

	posts, total, err := p.posts.SearchPublic(query, page, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"posts":      posts,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// Sidebar returns the blog sidebar data: categories with at least one
// visible post and the most popular tags. The payload is cached in
// Valkey and invalidated on content and taxonomy writes.
func (p *Public) Sidebar(w http.ResponseWriter, r *http.Request) {
	if p.respCache != nil {
		if payload, ok := p.respCache.Get(r.Context(), cache.SidebarKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(payload)
			return
		}
	}

	categories, err := p.categories.Sidebar()
	if err != nil {
		respondError(w, r, err)
		return
	}
	tags, err := p.tags.Sidebar(sidebarTagLimit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	if tags == nil {
		tags = []models.Tag{}
	}

	body := map[string]any{
		"categories": categories,
		"tags":       tags,
	}
	if p.respCache != nil {
		if payload, err := json.Marshal(body); err == nil {
			p.respCache.Set(r.Context(), cache.SidebarKey, payload)
		}
	}
	respondJSON(w, http.StatusOK, body)
}

// Contact accepts a contact form submission. The lead is persisted first;
// the notification email is attempted once in the background and its
// failure never surfaces to the visitor.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	var in models.LeadInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := validateContact(&in); msg != "" {
		respondError(w, r, apperr.Validation(msg))
		return
	}
	in.WhatsApp = trimPtr(in.WhatsApp)
	in.Service = trimPtr(in.Service)
	in.Budget = trimPtr(in.Budget)

	lead, err := p.leads.Create(&in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if p.mail != nil {
		go p.notifyContact(lead)
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Thank you for reaching out. I'll get back to you soon.",
	})
}

// Apply accepts a consulting application. Same persistence-first contract
// as Contact, with an extra confirmation email to the applicant.
func (p *Public) Apply(w http.ResponseWriter, r *http.Request) {
	var in models.ApplicationInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	if msg := validateApplication(&in); msg != "" {
		respondError(w, r, apperr.Validation(msg))
		return
	}
	in.WhatsApp = trimPtr(in.WhatsApp)
	in.Company = trimPtr(in.Company)
	in.Website = trimPtr(in.Website)
	in.Budget = trimPtr(in.Budget)
	in.OtherFeature = trimPtr(in.OtherFeature)
	in.Notes = trimPtr(in.Notes)

	app, err := p.applications.Create(&in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if p.mail != nil {
		go p.notifyApplication(app)
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Application received. You'll hear back within 24-48 hours.",
	})
}

// notifyContact sends the admin notification for a lead and flags the row
// on success. Runs detached from the request.
func (p *Public) notifyContact(lead *models.Lead) {
	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()

	if err := p.mail.ContactNotification(ctx, lead); err != nil {
		slog.Warn("contact notification failed", "lead", lead.ID, "error", err)
		return
	}
	if err := p.leads.MarkEmailSent(lead.ID); err != nil {
		slog.Warn("mark lead email sent failed", "lead", lead.ID, "error", err)
	}
}

// notifyApplication sends the admin notification and the applicant
// confirmation. The email_sent flag tracks the admin notification only.
func (p *Public) notifyApplication(app *models.Application) {
	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()

	if err := p.mail.ApplicationNotification(ctx, app); err != nil {
		slog.Warn("application notification failed", "application", app.ID, "error", err)
	} else if err := p.applications.MarkEmailSent(app.ID); err != nil {
		slog.Warn("mark application email sent failed", "application", app.ID, "error", err)
	}

	if err := p.mail.ApplicationConfirmation(ctx, app); err != nil {
		slog.Warn("application confirmation failed", "application", app.ID, "error", err)
	}
}

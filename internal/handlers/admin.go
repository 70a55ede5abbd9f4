// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"leadpress/internal/apperr"
	"leadpress/internal/cache"
	"leadpress/internal/models"
	"leadpress/internal/slug"
	"leadpress/internal/storage"
	"leadpress/internal/store"
)

// defaultAdminLimit is the admin table page size.
const defaultAdminLimit = 20

// Admin groups the session-gated admin panel handlers.
type Admin struct {
	posts         *store.PostStore
	categories    *store.CategoryStore
	tags          *store.TagStore
	leads         *store.LeadStore
	applications  *store.ApplicationStore
	storageClient *storage.Client
	respCache     *cache.ResponseCache
}

// NewAdmin creates the admin handler group. storageClient and respCache
// may be nil when object storage or Valkey caching is not configured.
func NewAdmin(
	posts *store.PostStore,
	categories *store.CategoryStore,
	tags *store.TagStore,
	leads *store.LeadStore,
	applications *store.ApplicationStore,
	storageClient *storage.Client,
	respCache *cache.ResponseCache,
) *Admin {
	return &Admin{
		posts:         posts,
		categories:    categories,
		tags:          tags,
		leads:         leads,
		applications:  applications,
		storageClient: storageClient,
		respCache:     respCache,
	}
}

// invalidateSidebar drops the cached public sidebar after a write that
// can change category or tag counts.
func (a *Admin) invalidateSidebar(ctx context.Context) {
	if a.respCache != nil {
		a.respCache.Invalidate(ctx, cache.SidebarKey)
	}
}

// ---- Posts ----

// ListPosts returns a page of posts in any status for the admin table.
func (a *Admin) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, defaultAdminLimit, 100)
	status := models.PostStatus(r.URL.Query().Get("status"))
	search := r.URL.Query().Get("search")

	posts, total, err := a.posts.ListAdmin(page, limit, status, search)
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

// GetPost returns a post by ID regardless of status.
func (a *Admin) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	post, err := a.posts.FindByID(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if post == nil {
		respondError(w, r, apperr.NotFound("Post"))
		return
	}
	respondJSON(w, http.StatusOK, post)
}

// CreatePost creates a post. A missing slug is generated from the title;
// a missing status defaults to draft.
func (a *Admin) CreatePost(w http.ResponseWriter, r *http.Request) {
	var in models.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	if in.Slug == "" {
		in.Slug = slug.Generate(in.Title)
	}
	if in.Status == "" {
		in.Status = models.PostStatusDraft
	}
	if in.Author == "" {
		in.Author = models.DefaultAuthor
	}
	if msg := validatePost(in.Title, in.Slug, in.Excerpt, in.Content, in.Status); msg != "" {
		respondError(w, r, apperr.Validation(msg))
		return
	}
	if !slug.IsValid(in.Slug) {
		respondError(w, r, apperr.Validation("Slug may only contain lowercase letters, numbers, and hyphens."))
		return
	}

	post, err := a.posts.Create(&in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	a.invalidateSidebar(r.Context())
	respondJSON(w, http.StatusCreated, post)
}

// UpdatePost applies a partial update. Absent fields keep their stored
// values; publishing stamps publishedAt only on the first transition.
func (a *Admin) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var patch models.PostPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		respondError(w, r, apperr.Validation("Title is required."))
		return
	}
	if patch.Excerpt != nil && strings.TrimSpace(*patch.Excerpt) == "" {
		respondError(w, r, apperr.Validation("Excerpt is required."))
		return
	}
	if patch.Content != nil && strings.TrimSpace(*patch.Content) == "" {
		respondError(w, r, apperr.Validation("Content is required."))
		return
	}
	if patch.Status != nil && !models.ValidPostStatus(*patch.Status) {
		respondError(w, r, apperr.Validation("Invalid status."))
		return
	}
	if patch.Slug != nil && !slug.IsValid(*patch.Slug) {
		respondError(w, r, apperr.Validation("Slug may only contain lowercase letters, numbers, and hyphens."))
		return
	}

	post, err := a.posts.Update(id, &patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	a.invalidateSidebar(r.Context())
	respondJSON(w, http.StatusOK, post)
}

// DeletePost removes a post and its taxonomy associations.
func (a *Admin) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := a.posts.Delete(id); err != nil {
		respondError(w, r, err)
		return
	}
	a.invalidateSidebar(r.Context())
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DuplicatePost clones a post as a draft with a derived unique slug.
func (a *Admin) DuplicatePost(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	post, err := a.posts.Duplicate(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

// ---- Categories ----

type categoryInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
}

// ListCategories returns all categories with live post counts.
func (a *Admin) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List()
	if err != nil {
		respondError(w, r, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// CreateCategory creates a category. A missing slug is generated from the
// name; a missing color falls back to the brand default.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		respondError(w, r, apperr.Validation("Name is required."))
		return
	}
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Name)
	}
	if !slug.IsValid(in.Slug) {
		respondError(w, r, apperr.Validation("Slug may only contain lowercase letters, numbers, and hyphens."))
		return
	}

	category, err := a.categories.Create(in.Name, in.Slug, trimPtr(in.Description), in.Color)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

// UpdateCategory applies a partial update to a category.
func (a *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var patch models.CategoryPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		respondError(w, r, apperr.Validation("Name is required."))
		return
	}
	if patch.Slug != nil && !slug.IsValid(*patch.Slug) {
		respondError(w, r, apperr.Validation("Slug may only contain lowercase letters, numbers, and hyphens."))
		return
	}

	category, err := a.categories.Update(id, &patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	a.invalidateSidebar(r.Context())
	respondJSON(w, http.StatusOK, category)
}

// DeleteCategory removes a category unless posts still reference it.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := a.categories.Delete(id); err != nil {
		respondError(w, r, err)
		return
	}
	a.invalidateSidebar(r.Context())
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ---- Tags ----

type tagInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type tagBulkInput struct {
	// Names is the raw comma-separated value from the post editor's
	// tag field, e.g. "wordpress, houzez, seo".
	Names string `json:"names"`
}

// ListTags returns all tags with live post counts.
func (a *Admin) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := a.tags.List()
	if err != nil {
		respondError(w, r, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

// CreateTag creates a single tag.
func (a *Admin) CreateTag(w http.ResponseWriter, r *http.Request) {
	var in tagInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		respondError(w, r, apperr.Validation("Name is required."))
		return
	}
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Name)
	}
	if !slug.IsValid(in.Slug) {
		respondError(w, r, apperr.Validation("Slug may only contain lowercase letters, numbers, and hyphens."))
		return
	}

	tag, err := a.tags.Create(in.Name, in.Slug)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tag)
}

// CreateTagsBulk creates tags from a comma-separated list, skipping names
// whose slug already exists. Returns the tags actually created.
func (a *Admin) CreateTagsBulk(w http.ResponseWriter, r *http.Request) {
	var in tagBulkInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	var names []string
	for _, name := range strings.Split(in.Names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		respondError(w, r, apperr.Validation("At least one tag name is required."))
		return
	}

	created, err := a.tags.CreateBulk(names)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if created == nil {
		created = []models.Tag{}
	}
	respondJSON(w, http.StatusCreated, map[string]any{"tags": created})
}

// UpdateTag applies a partial update to a tag.
func (a *Admin) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var patch models.TagPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		respondError(w, r, apperr.Validation("Name is required."))
		return
	}
	if patch.Slug != nil && !slug.IsValid(*patch.Slug) {
		respondError(w, r, apperr.Validation("Slug may only contain lowercase letters, numbers, and hyphens."))
		return
	}

	tag, err := a.tags.Update(id, &patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	a.invalidateSidebar(r.Context())
	respondJSON(w, http.StatusOK, tag)
}

// DeleteTag removes a tag unless posts still reference it.
func (a *Admin) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := a.tags.Delete(id); err != nil {
		respondError(w, r, err)
		return
	}
	a.invalidateSidebar(r.Context())
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ---- Leads ----

// ListLeads returns a page of contact leads.
func (a *Admin) ListLeads(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, defaultAdminLimit, 100)
	status := models.LeadStatus(r.URL.Query().Get("status"))
	search := r.URL.Query().Get("search")

	leads, total, err := a.leads.List(page, limit, status, search)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"leads":      leads,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// GetLead returns a single lead by ID.
func (a *Admin) GetLead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	lead, err := a.leads.FindByID(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if lead == nil {
		respondError(w, r, apperr.NotFound("Lead"))
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

// UpdateLead applies a status and/or notes update to a lead.
func (a *Admin) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var patch models.LeadPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	if patch.Status != nil && !models.ValidLeadStatus(*patch.Status) {
		respondError(w, r, apperr.Validation("Invalid status."))
		return
	}

	lead, err := a.leads.Update(id, &patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

// DeleteLead removes a lead.
func (a *Admin) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := a.leads.Delete(id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ---- Applications ----

// ListApplications returns a page of consulting applications.
func (a *Admin) ListApplications(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, defaultAdminLimit, 100)
	status := models.ApplicationStatus(r.URL.Query().Get("status"))
	search := r.URL.Query().Get("search")

	apps, total, err := a.applications.List(page, limit, status, search)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"pagination":   models.NewPagination(page, limit, total),
	})
}

// GetApplication returns a single application by ID.
func (a *Admin) GetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	app, err := a.applications.FindByID(id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if app == nil {
		respondError(w, r, apperr.NotFound("Application"))
		return
	}
	respondJSON(w, http.StatusOK, app)
}

// UpdateApplication applies a status and/or admin-notes update.
func (a *Admin) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var patch models.ApplicationPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respondError(w, r, err)
		return
	}
	if patch.Status != nil && !models.ValidApplicationStatus(*patch.Status) {
		respondError(w, r, apperr.Validation("Invalid status."))
		return
	}

	app, err := a.applications.Update(id, &patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, app)
}

// DeleteApplication removes an application.
func (a *Admin) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := a.applications.Delete(id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ---- Dashboard ----

// Stats returns the dashboard summary: totals, 7-day intake counts, and
// the five most recent leads and applications.
func (a *Admin) Stats(w http.ResponseWriter, r *http.Request) {
	postCount, err := a.posts.Count()
	if err != nil {
		respondError(w, r, err)
		return
	}
	categoryCount, err := a.categories.Count()
	if err != nil {
		respondError(w, r, err)
		return
	}
	tagCount, err := a.tags.Count()
	if err != nil {
		respondError(w, r, err)
		return
	}
	leadCount, err := a.leads.Count()
	if err != nil {
		respondError(w, r, err)
		return
	}
	appCount, err := a.applications.Count()
	if err != nil {
		respondError(w, r, err)
		return
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	leadsThisWeek, err := a.leads.CountSince(weekAgo)
	if err != nil {
		respondError(w, r, err)
		return
	}
	appsThisWeek, err := a.applications.CountSince(weekAgo)
	if err != nil {
		respondError(w, r, err)
		return
	}

	recentLeads, err := a.leads.Recent(5)
	if err != nil {
		respondError(w, r, err)
		return
	}
	recentApps, err := a.applications.Recent(5)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if recentLeads == nil {
		recentLeads = []models.Lead{}
	}
	if recentApps == nil {
		recentApps = []models.Application{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"totals": map[string]int{
			"posts":        postCount,
			"categories":   categoryCount,
			"tags":         tagCount,
			"leads":        leadCount,
			"applications": appCount,
		},
		"thisWeek": map[string]int{
			"leads":        leadsThisWeek,
			"applications": appsThisWeek,
		},
		"recentLeads":        recentLeads,
		"recentApplications": recentApps,
	})
}

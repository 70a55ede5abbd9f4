// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all LeadPress
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadpress/internal/apperr"
	"leadpress/internal/models"
)

// PostStore handles all blog post database operations, both the admin
// CRUD surface and the public visibility-filtered queries.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// visiblePredicate is the public visibility condition. Status alone is not
// enough: a published post with a future timestamp stays hidden until the
// instant passes. There is no background job flipping scheduled posts —
// visibility is computed here, per query.
const visiblePredicate = `p.status = 'published' AND p.published_at <= NOW()`

const postColumns = `p.id, p.title, p.slug, p.excerpt, p.content,
	p.featured_image, p.featured_image_alt, p.author, p.status,
	p.published_at, p.scheduled_for, p.meta_title, p.meta_description,
	p.created_at, p.updated_at`

// postSummaryColumns omits the body for listing endpoints.
const postSummaryColumns = `p.id, p.title, p.slug, p.excerpt, ''::text,
	p.featured_image, p.featured_image_alt, p.author, p.status,
	p.published_at, p.scheduled_for, p.meta_title, p.meta_description,
	p.created_at, p.updated_at`

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content,
		&p.FeaturedImage, &p.FeaturedImageAlt, &p.Author, &p.Status,
		&p.PublishedAt, &p.ScheduledFor, &p.MetaTitle, &p.MetaDescription,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// slugTaken reports whether another post already uses the given slug.
// exclude skips the post's own row on update.
func (s *PostStore) slugTaken(slug string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM posts WHERE slug = $1 AND id <> $2
		)
	`, slug, exclude).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check post slug: %w", err)
	}
	return taken, nil
}

// errPostSlugExists is the conflict returned for a duplicate post slug,
// both from the pre-check and from the unique index (see isUniqueViolation).
func errPostSlugExists() error {
	return apperr.Conflict("A post with this slug already exists")
}

// Create inserts a new post with its category and tag associations.
// If the post is created directly in published status, published_at is
// stamped now.
func (s *PostStore) Create(in *models.PostInput) (*models.Post, error) {
	taken, err := s.slugTaken(in.Slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errPostSlugExists()
	}

	author := in.Author
	if author == "" {
		author = models.DefaultAuthor
	}

	var publishedAt *time.Time
	if in.Status == models.PostStatusPublished {
		now := time.Now()
		publishedAt = &now
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO posts (title, slug, excerpt, content, featured_image,
		                   featured_image_alt, author, status, published_at,
		                   scheduled_for, meta_title, meta_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+strings.ReplaceAll(postColumns, "p.", ""),
		in.Title, in.Slug, in.Excerpt, in.Content, in.FeaturedImage,
		in.FeaturedImageAlt, author, in.Status, publishedAt,
		in.ScheduledFor, in.MetaTitle, in.MetaDescription,
	)
	p, err := scanPost(row)
	if err != nil {
		// The unique index closes the check-then-insert race under
		// concurrent identical-slug submissions.
		if isUniqueViolation(err) {
			return nil, errPostSlugExists()
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := replaceAssociations(tx, p.ID, in.Categories, in.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create post: %w", err)
	}

	if err := s.loadTaxonomy(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies a partial update. Only fields present in the patch are
// changed; everything else keeps its stored value.
//
// published_at is stamped exactly once: when the patch moves the post into
// published from any other stored status. Re-saving an already-published
// post leaves the original timestamp untouched.
func (s *PostStore) Update(id uuid.UUID, patch *models.PostPatch) (*models.Post, error) {
	current, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("Post")
	}

	if patch.Slug != nil && *patch.Slug != current.Slug {
		taken, err := s.slugTaken(*patch.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errPostSlugExists()
		}
		current.Slug = *patch.Slug
	}

	if patch.Title != nil {
		current.Title = *patch.Title
	}
	if patch.Excerpt != nil {
		current.Excerpt = *patch.Excerpt
	}
	if patch.Content != nil {
		current.Content = *patch.Content
	}
	if patch.FeaturedImage != nil {
		current.FeaturedImage = patch.FeaturedImage
	}
	if patch.FeaturedImageAlt != nil {
		current.FeaturedImageAlt = patch.FeaturedImageAlt
	}
	if patch.ScheduledFor != nil {
		current.ScheduledFor = patch.ScheduledFor
	}
	if patch.MetaTitle != nil {
		current.MetaTitle = patch.MetaTitle
	}
	if patch.MetaDescription != nil {
		current.MetaDescription = patch.MetaDescription
	}
	if patch.Status != nil {
		if *patch.Status == models.PostStatusPublished && current.Status != models.PostStatusPublished {
			now := time.Now()
			current.PublishedAt = &now
		}
		current.Status = *patch.Status
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE posts SET
			title = $1, slug = $2, excerpt = $3, content = $4,
			featured_image = $5, featured_image_alt = $6, status = $7,
			published_at = $8, scheduled_for = $9, meta_title = $10,
			meta_description = $11, updated_at = NOW()
		WHERE id = $12
	`, current.Title, current.Slug, current.Excerpt, current.Content,
		current.FeaturedImage, current.FeaturedImageAlt, current.Status,
		current.PublishedAt, current.ScheduledFor, current.MetaTitle,
		current.MetaDescription, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errPostSlugExists()
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	if patch.Categories != nil || patch.Tags != nil {
		cats := current.CategoryIDs()
		if patch.Categories != nil {
			cats = *patch.Categories
		}
		tagIDs := make([]uuid.UUID, 0, len(current.Tags))
		for _, t := range current.Tags {
			tagIDs = append(tagIDs, t.ID)
		}
		if patch.Tags != nil {
			tagIDs = *patch.Tags
		}
		if err := clearAssociations(tx, id); err != nil {
			return nil, err
		}
		if err := replaceAssociations(tx, id, cats, tagIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update post: %w", err)
	}

	return s.FindByID(id)
}

// Delete removes a post unconditionally. Unlike categories and tags there
// is no reference guard; the join rows cascade away with the post.
func (s *PostStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post rows: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("Post")
	}
	return nil
}

// Duplicate clones a post as a new draft. The title gains a " (Copy)"
// suffix and the slug is disambiguated by linear probing: -copy, -copy-2,
// -copy-3, ... until free. The clone starts unpublished regardless of the
// source status; published_at and scheduled_for are not copied.
func (s *PostStore) Duplicate(id uuid.UUID) (*models.Post, error) {
	src, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, apperr.NotFound("Post")
	}

	newSlug := src.Slug + "-copy"
	for counter := 2; ; counter++ {
		taken, err := s.slugTaken(newSlug, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
		newSlug = fmt.Sprintf("%s-copy-%d", src.Slug, counter)
	}

	tagIDs := make([]uuid.UUID, 0, len(src.Tags))
	for _, t := range src.Tags {
		tagIDs = append(tagIDs, t.ID)
	}

	return s.Create(&models.PostInput{
		Title:            src.Title + " (Copy)",
		Slug:             newSlug,
		Excerpt:          src.Excerpt,
		Content:          src.Content,
		FeaturedImage:    src.FeaturedImage,
		FeaturedImageAlt: src.FeaturedImageAlt,
		Categories:       src.CategoryIDs(),
		Tags:             tagIDs,
		Author:           src.Author,
		Status:           models.PostStatusDraft,
		MetaTitle:        src.MetaTitle,
		MetaDescription:  src.MetaDescription,
	})
}

// FindByID retrieves a post by ID with its taxonomy, regardless of status.
// Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	if err := s.loadTaxonomy(p); err != nil {
		return nil, err
	}
	return p, nil
}

// FindPublicBySlug retrieves a publicly visible post by slug. A post that
// exists but is not yet visible is indistinguishable from a missing one.
func (s *PostStore) FindPublicBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+` FROM posts p
		WHERE p.slug = $1 AND `+visiblePredicate,
		slug,
	)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find public post by slug: %w", err)
	}
	if err := s.loadTaxonomy(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPublic returns a page of publicly visible posts, most recently
// published first, optionally scoped to a category slug and filtered by a
// case-insensitive substring match over title or excerpt.
func (s *PostStore) ListPublic(page, limit int, categorySlug, search string) ([]models.Post, int, error) {
	where := []string{visiblePredicate}
	var args []any

	if categorySlug != "" {
		args = append(args, categorySlug)
		where = append(where, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM post_categories pc
			JOIN categories c ON c.id = pc.category_id
			WHERE pc.post_id = p.id AND c.slug = $%d
		)`, len(args)))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf(`(p.title ILIKE $%d OR p.excerpt ILIKE $%d)`, len(args), len(args)))
	}

	return s.listPosts(postSummaryColumns, where, args, `p.published_at DESC`, page, limit)
}

// SearchPublic is the dedicated search endpoint: like ListPublic but the
// match also covers the post body.
func (s *PostStore) SearchPublic(query string, page, limit int) ([]models.Post, int, error) {
	where := []string{visiblePredicate}
	args := []any{"%" + query + "%"}
	where = append(where, `(p.title ILIKE $1 OR p.excerpt ILIKE $1 OR p.content ILIKE $1)`)

	return s.listPosts(postSummaryColumns, where, args, `p.published_at DESC`, page, limit)
}

// ListAdmin returns a page of posts across all statuses, newest first,
// with an optional exact-status filter and title/excerpt search.
func (s *PostStore) ListAdmin(page, limit int, status models.PostStatus, search string) ([]models.Post, int, error) {
	where := []string{`TRUE`}
	var args []any

	if status != "" && status != "all" {
		args = append(args, status)
		where = append(where, fmt.Sprintf(`p.status = $%d`, len(args)))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf(`(p.title ILIKE $%d OR p.excerpt ILIKE $%d)`, len(args), len(args)))
	}

	return s.listPosts(postColumns, where, args, `p.created_at DESC`, page, limit)
}

// Related returns up to limit visible posts related to the given slug.
// Posts sharing a category come first (most recent first); if that tier
// falls short, the most recent remaining visible posts back-fill the list.
func (s *PostStore) Related(currentSlug string, categoryIDs []uuid.UUID, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = 3
	}

	var posts []models.Post
	if len(categoryIDs) > 0 {
		rows, err := s.db.Query(`
			SELECT `+postSummaryColumns+` FROM posts p
			WHERE `+visiblePredicate+` AND p.slug <> $1 AND EXISTS (
				SELECT 1 FROM post_categories pc
				WHERE pc.post_id = p.id AND pc.category_id = ANY($2::uuid[])
			)
			ORDER BY p.published_at DESC
			LIMIT $3
		`, currentSlug, uuidStrings(categoryIDs), limit)
		if err != nil {
			return nil, fmt.Errorf("related posts: %w", err)
		}
		posts, err = collectPosts(rows)
		if err != nil {
			return nil, err
		}
	}

	if len(posts) < limit {
		seen := make([]string, 0, len(posts))
		for _, p := range posts {
			seen = append(seen, p.ID.String())
		}
		rows, err := s.db.Query(`
			SELECT `+postSummaryColumns+` FROM posts p
			WHERE `+visiblePredicate+` AND p.slug <> $1 AND NOT (p.id = ANY($2::uuid[]))
			ORDER BY p.published_at DESC
			LIMIT $3
		`, currentSlug, seen, limit-len(posts))
		if err != nil {
			return nil, fmt.Errorf("related backfill: %w", err)
		}
		more, err := collectPosts(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, more...)
	}

	for i := range posts {
		if err := s.loadTaxonomy(&posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// Count returns the total number of posts across all statuses.
func (s *PostStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// listPosts runs a paged listing with the given columns, predicates, and
// ordering, and a matching COUNT for the pagination metadata.
func (s *PostStore) listPosts(columns string, where []string, args []any, order string, page, limit int) ([]models.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM posts p WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := s.db.Query(fmt.Sprintf(
		`SELECT %s FROM posts p WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		columns, cond, order, len(args)-1, len(args),
	), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	for i := range posts {
		if err := s.loadTaxonomy(&posts[i]); err != nil {
			return nil, 0, err
		}
	}
	return posts, total, nil
}

// collectPosts drains rows into a slice.
func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()
	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// loadTaxonomy attaches the post's categories and tags.
func (s *PostStore) loadTaxonomy(p *models.Post) error {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.color, c.created_at, c.updated_at
		FROM categories c
		JOIN post_categories pc ON pc.category_id = c.id
		WHERE pc.post_id = $1
		ORDER BY c.name
	`, p.ID)
	if err != nil {
		return fmt.Errorf("load post categories: %w", err)
	}
	defer rows.Close()

	p.Categories = []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("scan post category: %w", err)
		}
		p.Categories = append(p.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	tagRows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`, p.ID)
	if err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}
	defer tagRows.Close()

	p.Tags = []models.Tag{}
	for tagRows.Next() {
		var t models.Tag
		if err := tagRows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan post tag: %w", err)
		}
		p.Tags = append(p.Tags, t)
	}
	return tagRows.Err()
}

// clearAssociations removes all category and tag joins for a post.
func clearAssociations(tx *sql.Tx, postID uuid.UUID) error {
	if _, err := tx.Exec(`DELETE FROM post_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post categories: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM post_tags WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	return nil
}

// replaceAssociations inserts category and tag joins for a post.
func replaceAssociations(tx *sql.Tx, postID uuid.UUID, categories, tags []uuid.UUID) error {
	for _, cid := range categories {
		if _, err := tx.Exec(`
			INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, cid); err != nil {
			return fmt.Errorf("insert post category: %w", err)
		}
	}
	for _, tid := range tags {
		if _, err := tx.Exec(`
			INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, tid); err != nil {
			return fmt.Errorf("insert post tag: %w", err)
		}
	}
	return nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"leadpress/internal/apperr"
	"leadpress/internal/models"
	"leadpress/internal/slug"
)

// TagStore manages tags in the database. It mirrors CategoryStore's
// contract minus color and description.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// List returns all tags sorted by name with live post counts.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.created_at,
		       COUNT(pt.post_id) AS post_count
		FROM tags t
		LEFT JOIN post_tags pt ON pt.tag_id = t.id
		GROUP BY t.id
		ORDER BY t.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.PostCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// FindByID retrieves a tag by ID. Returns nil if not found.
func (s *TagStore) FindByID(id uuid.UUID) (*models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRow(`
		SELECT id, name, slug, created_at FROM tags WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return &t, nil
}

// Create inserts a new tag. The slug must be unused.
func (s *TagStore) Create(name, tagSlug string) (*models.Tag, error) {
	taken, err := s.slugTaken(tagSlug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("A tag with this slug already exists")
	}

	var t models.Tag
	err = s.db.QueryRow(`
		INSERT INTO tags (name, slug) VALUES ($1, $2)
		RETURNING id, name, slug, created_at
	`, name, tagSlug).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("A tag with this slug already exists")
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &t, nil
}

// CreateBulk creates tags from a list of names, generating slugs and
// silently skipping names whose slug already exists. Used by the post
// editor's comma-separated tag input.
func (s *TagStore) CreateBulk(names []string) ([]models.Tag, error) {
	var created []models.Tag
	for _, name := range names {
		tagSlug := slug.Generate(name)
		if tagSlug == "" {
			continue
		}
		taken, err := s.slugTaken(tagSlug, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}
		t, err := s.Create(name, tagSlug)
		if err != nil {
			// A concurrent create of the same slug is a skip, not a failure.
			if apperr.As(err) != nil {
				continue
			}
			return nil, err
		}
		created = append(created, *t)
	}
	return created, nil
}

// Update applies a partial update. A changed slug is re-checked for
// uniqueness excluding the tag's own row.
func (s *TagStore) Update(id uuid.UUID, patch *models.TagPatch) (*models.Tag, error) {
	current, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("Tag")
	}

	if patch.Slug != nil && *patch.Slug != current.Slug {
		taken, err := s.slugTaken(*patch.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("A tag with this slug already exists")
		}
		current.Slug = *patch.Slug
	}
	if patch.Name != nil {
		current.Name = *patch.Name
	}

	var t models.Tag
	err = s.db.QueryRow(`
		UPDATE tags SET name = $1, slug = $2 WHERE id = $3
		RETURNING id, name, slug, created_at
	`, current.Name, current.Slug, id).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("A tag with this slug already exists")
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return &t, nil
}

// Delete removes a tag. It is rejected while any post still references it.
func (s *TagStore) Delete(id uuid.UUID) error {
	var refs int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM post_tags WHERE tag_id = $1`, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count tag refs: %w", err)
	}
	if refs > 0 {
		return apperr.Conflictf("Cannot delete tag. %d post(s) are using this tag.", refs)
	}

	res, err := s.db.Exec(`DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperr.Conflict("Cannot delete tag. Posts are using this tag.")
		}
		return fmt.Errorf("delete tag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tag rows: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("Tag")
	}
	return nil
}

// Count returns the total number of tags.
func (s *TagStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tags`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return count, nil
}

// Sidebar returns the most popular tags by visible-post count, filtered to
// those with at least one visible post, capped at limit.
func (s *TagStore) Sidebar(limit int) ([]models.Tag, error) {
	if limit <= 0 {
		limit = 15
	}
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.created_at,
		       COUNT(p.id) AS post_count
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		JOIN posts p ON p.id = pt.post_id AND p.status = 'published' AND p.published_at <= NOW()
		GROUP BY t.id
		HAVING COUNT(p.id) > 0
		ORDER BY post_count DESC, t.name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("sidebar tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.PostCount); err != nil {
			return nil, fmt.Errorf("scan sidebar tag: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// slugTaken reports whether another tag already uses the given slug.
func (s *TagStore) slugTaken(tagSlug string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM tags WHERE slug = $1 AND id <> $2
		)
	`, tagSlug, exclude).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check tag slug: %w", err)
	}
	return taken, nil
}

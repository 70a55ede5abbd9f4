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
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, color, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories sorted by name, each annotated with its live
// post count. Counts are computed here, not stored, so they can never drift.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.color, c.created_at, c.updated_at,
		       COUNT(pc.post_id) AS post_count
		FROM categories c
		LEFT JOIN post_categories pc ON pc.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color,
			&c.CreatedAt, &c.UpdatedAt, &c.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(slug string) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it. The slug must be unused.
func (s *CategoryStore) Create(name, slug string, description *string, color string) (*models.Category, error) {
	taken, err := s.slugTaken(slug, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("A category with this slug already exists")
	}

	if color == "" {
		color = models.DefaultCategoryColor
	}

	row := s.db.QueryRow(`
		INSERT INTO categories (name, slug, description, color)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		name, slug, description, color,
	)
	c, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("A category with this slug already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Update applies a partial update. A changed slug is re-checked for
// uniqueness excluding the category's own row.
func (s *CategoryStore) Update(id uuid.UUID, patch *models.CategoryPatch) (*models.Category, error) {
	current, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("Category")
	}

	if patch.Slug != nil && *patch.Slug != current.Slug {
		taken, err := s.slugTaken(*patch.Slug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperr.Conflict("A category with this slug already exists")
		}
		current.Slug = *patch.Slug
	}
	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.Description != nil {
		current.Description = patch.Description
	}
	if patch.Color != nil {
		current.Color = *patch.Color
	}

	row := s.db.QueryRow(`
		UPDATE categories SET
			name = $1, slug = $2, description = $3, color = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING `+categoryColumns,
		current.Name, current.Slug, current.Description, current.Color, id,
	)
	c, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflict("A category with this slug already exists")
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// Delete removes a category. It is rejected while any post still
// references the category; the error reports the exact count.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	var refs int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM post_categories WHERE category_id = $1`, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count category refs: %w", err)
	}
	if refs > 0 {
		return apperr.Conflictf("Cannot delete category. %d post(s) are using this category.", refs)
	}

	res, err := s.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		// The RESTRICT constraint catches a post associated between the
		// count and the delete.
		if isForeignKeyViolation(err) {
			return apperr.Conflict("Cannot delete category. Posts are using this category.")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category rows: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("Category")
	}
	return nil
}

// Count returns the total number of categories.
func (s *CategoryStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}

// Sidebar returns categories annotated with their count of publicly
// visible posts, filtered to those with at least one.
func (s *CategoryStore) Sidebar() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.slug, c.description, c.color, c.created_at, c.updated_at,
		       COUNT(p.id) AS post_count
		FROM categories c
		JOIN post_categories pc ON pc.category_id = c.id
		JOIN posts p ON p.id = pc.post_id AND p.status = 'published' AND p.published_at <= NOW()
		GROUP BY c.id
		HAVING COUNT(p.id) > 0
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("sidebar categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color,
			&c.CreatedAt, &c.UpdatedAt, &c.PostCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sidebar category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// slugTaken reports whether another category already uses the given slug.
func (s *CategoryStore) slugTaken(slug string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM categories WHERE slug = $1 AND id <> $2
		)
	`, slug, exclude).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return taken, nil
}

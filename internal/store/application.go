// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

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

// ApplicationStore manages consulting application submissions.
type ApplicationStore struct {
	db *sql.DB
}

// NewApplicationStore returns a new ApplicationStore.
func NewApplicationStore(db *sql.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

const applicationColumns = `id, full_name, email, whatsapp, company, website,
	using_houzez, service_type, target_market, timeline, budget, features,
	other_feature, problem, notes, status, email_sent, admin_notes,
	created_at, updated_at`

// scanApplication scans a row into an Application struct.
func scanApplication(scanner interface{ Scan(...any) error }) (*models.Application, error) {
	var a models.Application
	err := scanner.Scan(
		&a.ID, &a.FullName, &a.Email, &a.WhatsApp, &a.Company, &a.Website,
		&a.UsingHouzez, &a.ServiceType, &a.TargetMarket, &a.Timeline, &a.Budget,
		pgTypeMap.SQLScanner(&a.Features), &a.OtherFeature, &a.Problem, &a.Notes, &a.Status,
		&a.EmailSent, &a.AdminNotes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.Features == nil {
		a.Features = []string{}
	}
	return &a, nil
}

// Create persists a new application in "new" status with the email flag
// unset. Notification dispatch happens afterwards, best-effort.
func (s *ApplicationStore) Create(in *models.ApplicationInput) (*models.Application, error) {
	features := in.Features
	if features == nil {
		features = []string{}
	}
	row := s.db.QueryRow(`
		INSERT INTO applications (full_name, email, whatsapp, company, website,
		                          using_houzez, service_type, target_market,
		                          timeline, budget, features, other_feature,
		                          problem, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+applicationColumns,
		in.FullName, in.Email, in.WhatsApp, in.Company, in.Website,
		in.UsingHouzez, in.ServiceType, in.TargetMarket,
		in.Timeline, in.Budget, features, in.OtherFeature,
		in.Problem, in.Notes,
	)
	a, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return a, nil
}

// FindByID retrieves an application by ID. Returns nil if not found.
func (s *ApplicationStore) FindByID(id uuid.UUID) (*models.Application, error) {
	row := s.db.QueryRow(`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find application by id: %w", err)
	}
	return a, nil
}

// List returns a page of applications, newest first, with optional
// exact-status filter and search over name, email, and problem statement.
func (s *ApplicationStore) List(page, limit int, status models.ApplicationStatus, search string) ([]models.Application, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	where := []string{`TRUE`}
	var args []any
	if status != "" && status != "all" {
		args = append(args, status)
		where = append(where, fmt.Sprintf(`status = $%d`, len(args)))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf(
			`(full_name ILIKE $%d OR email ILIKE $%d OR problem ILIKE $%d)`,
			len(args), len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM applications WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := s.db.Query(fmt.Sprintf(
		`SELECT %s FROM applications WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		applicationColumns, cond, len(args)-1, len(args),
	), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, total, rows.Err()
}

// Update applies a partial update (status and/or admin notes).
func (s *ApplicationStore) Update(id uuid.UUID, patch *models.ApplicationPatch) (*models.Application, error) {
	current, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("Application")
	}

	if patch.Status != nil {
		current.Status = *patch.Status
	}
	if patch.AdminNotes != nil {
		current.AdminNotes = patch.AdminNotes
	}

	row := s.db.QueryRow(`
		UPDATE applications SET status = $1, admin_notes = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+applicationColumns,
		current.Status, current.AdminNotes, id,
	)
	a, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	return a, nil
}

// Delete removes an application by ID.
func (s *ApplicationStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete application rows: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("Application")
	}
	return nil
}

// MarkEmailSent records a successful notification send.
func (s *ApplicationStore) MarkEmailSent(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE applications SET email_sent = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark application email sent: %w", err)
	}
	return nil
}

// Count returns the total number of applications.
func (s *ApplicationStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM applications`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return count, nil
}

// CountSince returns the number of applications created at or after t.
func (s *ApplicationStore) CountSince(t time.Time) (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM applications WHERE created_at >= $1`, t).Scan(&count); err != nil {
		return 0, fmt.Errorf("count recent applications: %w", err)
	}
	return count, nil
}

// Recent returns the most recently created applications, newest first.
func (s *ApplicationStore) Recent(limit int) ([]models.Application, error) {
	rows, err := s.db.Query(`
		SELECT `+applicationColumns+` FROM applications ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent applications: %w", err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

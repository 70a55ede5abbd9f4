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

// LeadStore manages contact form submissions.
type LeadStore struct {
	db *sql.DB
}

// NewLeadStore returns a new LeadStore.
func NewLeadStore(db *sql.DB) *LeadStore {
	return &LeadStore{db: db}
}

const leadColumns = `id, name, email, whatsapp, service, budget, message,
	status, email_sent, notes, created_at, updated_at`

// scanLead scans a row into a Lead struct.
func scanLead(scanner interface{ Scan(...any) error }) (*models.Lead, error) {
	var l models.Lead
	err := scanner.Scan(
		&l.ID, &l.Name, &l.Email, &l.WhatsApp, &l.Service, &l.Budget,
		&l.Message, &l.Status, &l.EmailSent, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create persists a new lead in "new" status with the email flag unset.
// The notification email is attempted afterwards; its failure never rolls
// this write back.
func (s *LeadStore) Create(in *models.LeadInput) (*models.Lead, error) {
	row := s.db.QueryRow(`
		INSERT INTO leads (name, email, whatsapp, service, budget, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+leadColumns,
		in.Name, in.Email, in.WhatsApp, in.Service, in.Budget, in.Message,
	)
	l, err := scanLead(row)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return l, nil
}

// FindByID retrieves a lead by ID. Returns nil if not found.
func (s *LeadStore) FindByID(id uuid.UUID) (*models.Lead, error) {
	row := s.db.QueryRow(`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	l, err := scanLead(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find lead by id: %w", err)
	}
	return l, nil
}

// List returns a page of leads, newest first, with optional exact-status
// filter and case-insensitive search over name, email, and message.
func (s *LeadStore) List(page, limit int, status models.LeadStatus, search string) ([]models.Lead, int, error) {
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
			`(name ILIKE $%d OR email ILIKE $%d OR message ILIKE $%d)`,
			len(args), len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM leads WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := s.db.Query(fmt.Sprintf(
		`SELECT %s FROM leads WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		leadColumns, cond, len(args)-1, len(args),
	), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	return leads, total, rows.Err()
}

// Update applies a partial update (status and/or admin notes). Every other
// field keeps its stored value.
func (s *LeadStore) Update(id uuid.UUID, patch *models.LeadPatch) (*models.Lead, error) {
	current, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("Lead")
	}

	if patch.Status != nil {
		current.Status = *patch.Status
	}
	if patch.Notes != nil {
		current.Notes = patch.Notes
	}

	row := s.db.QueryRow(`
		UPDATE leads SET status = $1, notes = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+leadColumns,
		current.Status, current.Notes, id,
	)
	l, err := scanLead(row)
	if err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return l, nil
}

// Delete removes a lead by ID.
func (s *LeadStore) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lead rows: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("Lead")
	}
	return nil
}

// MarkEmailSent records a successful notification send.
func (s *LeadStore) MarkEmailSent(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE leads SET email_sent = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark lead email sent: %w", err)
	}
	return nil
}

// Count returns the total number of leads.
func (s *LeadStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM leads`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return count, nil
}

// CountSince returns the number of leads created at or after t.
func (s *LeadStore) CountSince(t time.Time) (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM leads WHERE created_at >= $1`, t).Scan(&count); err != nil {
		return 0, fmt.Errorf("count recent leads: %w", err)
	}
	return count, nil
}

// Recent returns the most recently created leads, newest first.
func (s *LeadStore) Recent(limit int) ([]models.Lead, error) {
	rows, err := s.db.Query(`
		SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent leads: %w", err)
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"leadpress/internal/models"
)

// UserStore handles admin account database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, email, password_hash, display_name, totp_secret, totp_enabled, created_at, updated_at`

// FindByEmail retrieves a user by email address. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a new user with a bcrypt-hashed password.
func (s *UserStore) Create(email, password, displayName string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{}
	err = s.db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		email, string(hash), displayName,
	).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(userID uuid.UUID, secret string) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after code verification).
func (s *UserStore) EnableTOTP(userID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with the initial admin account if no users
// exist yet. The password comes from ADMIN_PASSWORD; the development
// fallback is "admin".
func Seed(db *sql.DB, adminEmail, adminPassword string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	if adminPassword == "" {
		adminPassword = "admin"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// 2FA is not enabled — the admin may set it up after first login.
	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, totp_enabled)
		VALUES ($1, $2, $3, $4)
	`, adminEmail, string(hash), "Admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with admin user", "email", adminEmail)
	return nil
}

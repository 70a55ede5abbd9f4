// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"leadpress/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "leadpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "leadpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanPosts removes test posts by slug. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM posts WHERE slug = $1 OR slug LIKE $2", slug, slug+"-copy%")
	}
}

// cleanCategories removes test categories by slug. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", slug)
	}
}

// cleanTags removes test tags by slug. Call in t.Cleanup().
func cleanTags(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM tags WHERE slug = $1", slug)
	}
}

// cleanLeads removes test leads by email. Call in t.Cleanup().
func cleanLeads(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM leads WHERE email = $1", email)
	}
}

// cleanApplications removes test applications by email. Call in t.Cleanup().
func cleanApplications(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM applications WHERE email = $1", email)
	}
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

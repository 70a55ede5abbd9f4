package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed only inserts when the users table is empty, so it is safe to
	// call twice against a shared test database.
	if err := Seed(db, "admin@leadpress.local", "test-seed-password"); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db, "admin@leadpress.local", "test-seed-password"); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var userCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount < 1 {
		t.Errorf("expected at least 1 user after seeding, got %d", userCount)
	}
}

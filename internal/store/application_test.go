package store

import (
	"testing"

	"github.com/google/uuid"

	"leadpress/internal/models"
)

func testApplicationInput(email string) *models.ApplicationInput {
	budget := "$5,000 - $10,000"
	return &models.ApplicationInput{
		FullName:     "Test Applicant",
		Email:        email,
		UsingHouzez:  "yes",
		ServiceType:  "customization",
		TargetMarket: "Dubai",
		Timeline:     "1-2 months",
		Budget:       &budget,
		Features:     []string{"crm-integration", "payment-gateway"},
		Problem:      "Our portal needs custom search filters.",
	}
}

func TestApplicationStoreCreateWithFeatures(t *testing.T) {
	db := testDB(t)
	s := NewApplicationStore(db)

	email := "app-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanApplications(t, db, email) })

	created, err := s.Create(testApplicationInput(email))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.ApplicationStatusNew {
		t.Errorf("status: got %q, want new", created.Status)
	}
	if len(created.Features) != 2 || created.Features[0] != "crm-integration" {
		t.Errorf("features: got %v", created.Features)
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(found.Features) != 2 {
		t.Errorf("features after round-trip: got %v", found.Features)
	}
}

func TestApplicationStoreEmptyFeatures(t *testing.T) {
	db := testDB(t)
	s := NewApplicationStore(db)

	email := "app-nofeat-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanApplications(t, db, email) })

	in := testApplicationInput(email)
	in.Features = nil

	created, err := s.Create(in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Features must come back as an empty slice, never nil, so the JSON
	// field is [] instead of null.
	if created.Features == nil {
		t.Error("features: got nil, want empty slice")
	}
	if len(created.Features) != 0 {
		t.Errorf("features: got %v, want empty", created.Features)
	}
}

func TestApplicationStoreStatusWorkflow(t *testing.T) {
	db := testDB(t)
	s := NewApplicationStore(db)

	email := "app-flow-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanApplications(t, db, email) })

	created, err := s.Create(testApplicationInput(email))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, status := range []models.ApplicationStatus{
		models.ApplicationStatusReviewing,
		models.ApplicationStatusQualified,
		models.ApplicationStatusCallScheduled,
		models.ApplicationStatusProposalSent,
		models.ApplicationStatusClosed,
	} {
		updated, err := s.Update(created.ID, &models.ApplicationPatch{Status: &status})
		if err != nil {
			t.Fatalf("Update to %s: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("status: got %q, want %q", updated.Status, status)
		}
	}
}

func TestApplicationStoreSearchByProblem(t *testing.T) {
	db := testDB(t)
	s := NewApplicationStore(db)

	marker := uuid.NewString()[:8]
	email := "app-search-" + marker + "@example.com"
	t.Cleanup(func() { cleanApplications(t, db, email) })

	in := testApplicationInput(email)
	in.Problem = "Unique marker " + marker + " in the problem statement."
	if _, err := s.Create(in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	apps, total, err := s.List(1, 20, "", marker)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(apps) != 1 {
		t.Fatalf("search: got total=%d len=%d, want 1", total, len(apps))
	}
}

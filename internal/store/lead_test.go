package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"leadpress/internal/apperr"
	"leadpress/internal/models"
)

func testLeadInput(email string) *models.LeadInput {
	service := "web-development"
	return &models.LeadInput{
		Name:    "Test Visitor",
		Email:   email,
		Service: &service,
		Message: "I need a website for my business.",
	}
}

func TestLeadStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewLeadStore(db)

	email := "lead-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanLeads(t, db, email) })

	created, err := s.Create(testLeadInput(email))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != models.LeadStatusNew {
		t.Errorf("status: got %q, want new", created.Status)
	}
	if created.EmailSent {
		t.Error("email_sent must start false")
	}
	if created.WhatsApp != nil {
		t.Errorf("whatsapp: got %v, want nil", created.WhatsApp)
	}
}

func TestLeadStoreMarkEmailSent(t *testing.T) {
	db := testDB(t)
	s := NewLeadStore(db)

	email := "lead-mail-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanLeads(t, db, email) })

	created, err := s.Create(testLeadInput(email))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.MarkEmailSent(created.ID); err != nil {
		t.Fatalf("MarkEmailSent: %v", err)
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !found.EmailSent {
		t.Error("expected email_sent = true")
	}
}

func TestLeadStoreUpdateStatusAndNotes(t *testing.T) {
	db := testDB(t)
	s := NewLeadStore(db)

	email := "lead-patch-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanLeads(t, db, email) })

	created, err := s.Create(testLeadInput(email))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	replied := models.LeadStatusReplied
	notes := "Sent a proposal."
	updated, err := s.Update(created.ID, &models.LeadPatch{Status: &replied, Notes: &notes})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != replied {
		t.Errorf("status: got %q, want replied", updated.Status)
	}
	if updated.Notes == nil || *updated.Notes != notes {
		t.Errorf("notes: got %v, want %q", updated.Notes, notes)
	}
	// The message must be untouched by a status/notes patch.
	if updated.Message != created.Message {
		t.Errorf("message changed: %q", updated.Message)
	}
}

func TestLeadStoreListFilters(t *testing.T) {
	db := testDB(t)
	s := NewLeadStore(db)

	marker := uuid.NewString()[:8]
	email := "lead-list-" + marker + "@example.com"
	t.Cleanup(func() { cleanLeads(t, db, email) })

	created, err := s.Create(testLeadInput(email))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Search by the unique email fragment.
	leads, total, err := s.List(1, 20, "", marker)
	if err != nil {
		t.Fatalf("List (search): %v", err)
	}
	if total != 1 || len(leads) != 1 || leads[0].ID != created.ID {
		t.Fatalf("search: got total=%d len=%d", total, len(leads))
	}

	// A non-matching status filter excludes it.
	_, total, err = s.List(1, 20, models.LeadStatusReplied, marker)
	if err != nil {
		t.Fatalf("List (status): %v", err)
	}
	if total != 0 {
		t.Errorf("status filter: got total=%d, want 0", total)
	}
}

func TestLeadStoreCountSince(t *testing.T) {
	db := testDB(t)
	s := NewLeadStore(db)

	email := "lead-count-" + uuid.NewString()[:8] + "@example.com"
	t.Cleanup(func() { cleanLeads(t, db, email) })

	before, err := s.CountSince(time.Now().AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("CountSince: %v", err)
	}
	if _, err := s.Create(testLeadInput(email)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	after, err := s.CountSince(time.Now().AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("CountSince: %v", err)
	}
	if after != before+1 {
		t.Errorf("count: got %d, want %d", after, before+1)
	}
}

func TestLeadStoreDeleteNotFound(t *testing.T) {
	db := testDB(t)
	s := NewLeadStore(db)

	err := s.Delete(uuid.New())
	ae := apperr.As(err)
	if ae == nil || ae.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

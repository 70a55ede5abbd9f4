// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus tracks how far a contact submission has been processed.
type LeadStatus string

const (
	LeadStatusNew     LeadStatus = "new"
	LeadStatusRead    LeadStatus = "read"
	LeadStatusReplied LeadStatus = "replied"
)

// ValidLeadStatus reports whether s is a known lead status.
func ValidLeadStatus(s LeadStatus) bool {
	switch s {
	case LeadStatusNew, LeadStatusRead, LeadStatusReplied:
		return true
	}
	return false
}

// Lead is a contact form submission. EmailSent records whether the
// notification email went out; a failed send never loses the lead.
type Lead struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	WhatsApp  *string    `json:"whatsapp,omitempty"`
	Service   *string    `json:"service,omitempty"`
	Budget    *string    `json:"budget,omitempty"`
	Message   string     `json:"message"`
	Status    LeadStatus `json:"status"`
	EmailSent bool       `json:"emailSent"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// LeadPatch is a partial update applied from the admin panel.
type LeadPatch struct {
	Status *LeadStatus `json:"status"`
	Notes  *string     `json:"notes"`
}

// LeadInput carries the validated contact form fields.
type LeadInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	WhatsApp *string `json:"whatsapp"`
	Service  *string `json:"service"`
	Budget   *string `json:"budget"`
	Message  string  `json:"message"`
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus tracks a consulting application through qualification.
type ApplicationStatus string

const (
	ApplicationStatusNew           ApplicationStatus = "new"
	ApplicationStatusReviewing     ApplicationStatus = "reviewing"
	ApplicationStatusQualified     ApplicationStatus = "qualified"
	ApplicationStatusCallScheduled ApplicationStatus = "call-scheduled"
	ApplicationStatusProposalSent  ApplicationStatus = "proposal-sent"
	ApplicationStatusClosed        ApplicationStatus = "closed"
)

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusNew, ApplicationStatusReviewing, ApplicationStatusQualified,
		ApplicationStatusCallScheduled, ApplicationStatusProposalSent, ApplicationStatusClosed:
		return true
	}
	return false
}

// Application is a Houzez consulting qualification form submission.
type Application struct {
	ID           uuid.UUID         `json:"id"`
	FullName     string            `json:"fullName"`
	Email        string            `json:"email"`
	WhatsApp     *string           `json:"whatsapp,omitempty"`
	Company      *string           `json:"company,omitempty"`
	Website      *string           `json:"website,omitempty"`
	UsingHouzez  string            `json:"usingHouzez"`
	ServiceType  string            `json:"serviceType"`
	TargetMarket string            `json:"targetMarket"`
	Timeline     string            `json:"timeline"`
	Budget       *string           `json:"budget,omitempty"`
	Features     []string          `json:"features"`
	OtherFeature *string           `json:"otherFeature,omitempty"`
	Problem      string            `json:"problem"`
	Notes        *string           `json:"notes,omitempty"`
	Status       ApplicationStatus `json:"status"`
	EmailSent    bool              `json:"emailSent"`
	AdminNotes   *string           `json:"adminNotes,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// ApplicationPatch is a partial update applied from the admin panel.
type ApplicationPatch struct {
	Status     *ApplicationStatus `json:"status"`
	AdminNotes *string            `json:"adminNotes"`
}

// ApplicationInput carries the validated application form fields.
type ApplicationInput struct {
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	WhatsApp     *string  `json:"whatsapp"`
	Company      *string  `json:"company"`
	Website      *string  `json:"website"`
	UsingHouzez  string   `json:"usingHouzez"`
	ServiceType  string   `json:"serviceType"`
	TargetMarket string   `json:"targetMarket"`
	Timeline     string   `json:"timeline"`
	Budget       *string  `json:"budget"`
	Features     []string `json:"features"`
	OtherFeature *string  `json:"otherFeature"`
	Problem      string   `json:"problem"`
	Notes        *string  `json:"notes"`
}

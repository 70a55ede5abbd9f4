// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mailer sends intake notification emails over SMTP. Sends are
// best-effort: the caller persists the submission first and only flags
// it on success, so a mail outage never loses a lead.
package mailer

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"leadpress/internal/models"
)

// Sender delivers intake notification emails.
type Sender interface {
	// ContactNotification informs the site owner about a new contact lead.
	ContactNotification(ctx context.Context, lead *models.Lead) error
	// ApplicationNotification informs the site owner about a new
	// consulting application.
	ApplicationNotification(ctx context.Context, app *models.Application) error
	// ApplicationConfirmation acknowledges the application to the applicant.
	ApplicationConfirmation(ctx context.Context, app *models.Application) error
}

// SMTP is the production Sender backed by an SMTP relay.
type SMTP struct {
	client     *gomail.Client
	from       string
	adminEmail string
}

// New builds an SMTP sender. Returns (nil, nil) when host is empty so the
// app can run without outbound mail (intake endpoints still persist).
func New(host string, port int, user, password, from, adminEmail string) (*SMTP, error) {
	if host == "" {
		return nil, nil
	}

	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(user),
			gomail.WithPassword(password),
		)
	}

	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTP{
		client:     client,
		from:       from,
		adminEmail: adminEmail,
	}, nil
}

// ContactNotification sends the contact form notification to the admin.
func (m *SMTP) ContactNotification(ctx context.Context, lead *models.Lead) error {
	subject := "New Contact: General Inquiry"
	if lead.Service != nil {
		subject = "New Contact: " + ServiceLabel(*lead.Service)
	}
	return m.send(ctx, m.adminEmail, subject, contactNotificationHTML(lead))
}

// ApplicationNotification sends the application notification to the admin.
func (m *SMTP) ApplicationNotification(ctx context.Context, app *models.Application) error {
	return m.send(ctx, m.adminEmail, "New Houzez Application: "+app.FullName,
		applicationNotificationHTML(app))
}

// ApplicationConfirmation sends the acknowledgement to the applicant.
func (m *SMTP) ApplicationConfirmation(ctx context.Context, app *models.Application) error {
	return m.send(ctx, app.Email, "Application Received - Houzez Consulting",
		applicationConfirmationHTML(app))
}

func (m *SMTP) send(ctx context.Context, to, subject, html string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, html)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

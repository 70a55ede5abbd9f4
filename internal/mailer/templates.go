// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"

	"leadpress/internal/models"
)

// serviceLabels maps contact form service slugs to display names.
var serviceLabels = map[string]string{
	"web-development": "Web Development",
	"mobile-apps":     "Mobile Apps (iOS & Android)",
	"wordpress":       "WordPress Development",
	"consulting":      "Technical Consulting",
	"other":           "Other",
}

// ServiceLabel returns the display name for a service slug, falling back
// to the raw value for unknown slugs.
func ServiceLabel(service string) string {
	if label, ok := serviceLabels[service]; ok {
		return label
	}
	return service
}

func contactNotificationHTML(lead *models.Lead) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h2 style="color: #5b21b6;">New Contact Form Submission</h2>`)
	b.WriteString(`<hr style="border: 1px solid #e2e8f0;" />`)
	field(&b, "Name", lead.Name)
	field(&b, "Email", lead.Email)
	optField(&b, "WhatsApp", lead.WhatsApp)
	if lead.Service != nil {
		field(&b, "Service", ServiceLabel(*lead.Service))
	}
	optField(&b, "Budget", lead.Budget)
	b.WriteString(`<h3 style="color: #334155;">Message</h3>`)
	fmt.Fprintf(&b, `<p>%s</p>`, html.EscapeString(lead.Message))
	footer(&b)
	b.WriteString(`</div>`)
	return b.String()
}

func applicationNotificationHTML(app *models.Application) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h2 style="color: #5b21b6;">New Houzez Application</h2>`)
	b.WriteString(`<hr style="border: 1px solid #e2e8f0;" />`)

	b.WriteString(`<h3 style="color: #334155;">Basic Information</h3>`)
	field(&b, "Name", app.FullName)
	field(&b, "Email", app.Email)
	optField(&b, "WhatsApp", app.WhatsApp)
	optField(&b, "Company", app.Company)
	optField(&b, "Website", app.Website)

	b.WriteString(`<h3 style="color: #334155;">Project Details</h3>`)
	field(&b, "Using Houzez", app.UsingHouzez)
	field(&b, "Service Type", app.ServiceType)
	field(&b, "Target Market", app.TargetMarket)
	field(&b, "Timeline", app.Timeline)
	optField(&b, "Budget", app.Budget)
	if len(app.Features) > 0 {
		field(&b, "Features", strings.Join(app.Features, ", "))
	}

	b.WriteString(`<h3 style="color: #334155;">Problem Statement</h3>`)
	fmt.Fprintf(&b, `<p>%s</p>`, html.EscapeString(app.Problem))

	if app.Notes != nil && *app.Notes != "" {
		b.WriteString(`<h3 style="color: #334155;">Additional Notes</h3>`)
		fmt.Fprintf(&b, `<p>%s</p>`, html.EscapeString(*app.Notes))
	}

	footer(&b)
	b.WriteString(`</div>`)
	return b.String()
}

func applicationConfirmationHTML(app *models.Application) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	b.WriteString(`<h2 style="color: #5b21b6;">Thank You for Your Application</h2>`)
	fmt.Fprintf(&b, `<p>Hi %s,</p>`, html.EscapeString(app.FullName))
	b.WriteString(`<p>I've received your application and will review it within 24-48 hours.</p>`)
	b.WriteString(`<p>Here's what happens next:</p><ul>`)
	b.WriteString(`<li>I'll review your project requirements and determine if we're a good fit</li>`)
	b.WriteString(`<li>If we're aligned, you'll receive a link to schedule a 30-minute founder call</li>`)
	b.WriteString(`<li>On the call, we'll discuss your project in detail and I'll recommend the best approach</li>`)
	b.WriteString(`</ul>`)
	b.WriteString(`<p>In the meantime, feel free to explore:</p><ul>`)
	b.WriteString(`<li><a href="https://houzez.co" style="color: #5b21b6;">Houzez Theme Documentation</a></li>`)
	b.WriteString(`<li><a href="https://waqasriaz.com/houzez" style="color: #5b21b6;">Consulting Packages</a></li>`)
	b.WriteString(`</ul>`)
	b.WriteString(`<p>Best regards,<br /><strong>Waqas Riaz</strong><br />Founder, Houzez</p>`)
	b.WriteString(`</div>`)
	return b.String()
}

func field(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, `<p><strong>%s:</strong> %s</p>`, label, html.EscapeString(value))
}

func optField(b *strings.Builder, label string, value *string) {
	if value != nil && *value != "" {
		field(b, label, *value)
	}
}

func footer(b *strings.Builder) {
	b.WriteString(`<hr style="border: 1px solid #e2e8f0;" />`)
	fmt.Fprintf(b, `<p style="color: #64748b; font-size: 12px;">Received at: %s</p>`,
		time.Now().UTC().Format(time.RFC3339))
}

package service

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"github.com/yosssi/gohtml"

	"github.com/secunit/backend/internal/model"
	"github.com/secunit/backend/pkg/resend"
)

// NotificationConfig addresses the new-contact email.
type NotificationConfig struct {
	From string
	To   string
}

type notificationData struct {
	*model.ContactRecord
	MessageHTML htmltemplate.HTML
	SubmittedAt string
}

var notificationHTML = htmltemplate.Must(htmltemplate.New("html").Parse(`
<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
{{if .Company}}<p><strong>Company:</strong> {{.Company}}</p>{{end}}
{{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
<p><strong>Inquiry Type:</strong> {{.InquiryType}}</p>
<p><strong>Message:</strong></p>
<blockquote style="border-left: 3px solid #ccc; padding-left: 16px; margin-left: 0;">{{.MessageHTML}}</blockquote>
{{if .ReferralSource}}<p><strong>Referral Source:</strong> {{.ReferralSource}}</p>{{end}}
<hr>
<p style="color: #666; font-size: 12px;">Contact ID: {{.ID}}<br>Submitted: {{.SubmittedAt}}<br>IP: {{.IPAddress}}</p>
`))

var notificationText = template.Must(template.New("text").Parse(`New Contact Form Submission

Name: {{.Name}}
Email: {{.Email}}
{{if .Company}}Company: {{.Company}}
{{end}}{{if .Phone}}Phone: {{.Phone}}
{{end}}Inquiry Type: {{.InquiryType}}

Message:
{{.Message}}
{{if .ReferralSource}}
Referral Source: {{.ReferralSource}}
{{end}}
---
Contact ID: {{.ID}}
Submitted: {{.SubmittedAt}}
`))

// NotificationSubject is the subject line of the new-contact email.
func NotificationSubject(rec *model.ContactRecord) string {
	return fmt.Sprintf("New Contact: %s from %s", rec.InquiryType, rec.Name)
}

// composeNotification renders the email for a stored contact.
func composeNotification(cfg NotificationConfig, rec *model.ContactRecord, submittedAt time.Time) (resend.Email, error) {
	escaped := htmltemplate.HTMLEscapeString(rec.Message)
	data := notificationData{
		ContactRecord: rec,
		MessageHTML:   htmltemplate.HTML(strings.ReplaceAll(escaped, "\n", "<br>")),
		SubmittedAt:   model.FormatTimestamp(submittedAt),
	}

	var html, text bytes.Buffer
	if err := notificationHTML.Execute(&html, data); err != nil {
		return resend.Email{}, fmt.Errorf("rendering html body: %w", err)
	}
	if err := notificationText.Execute(&text, data); err != nil {
		return resend.Email{}, fmt.Errorf("rendering text body: %w", err)
	}

	return resend.Email{
		From:    cfg.From,
		To:      []string{cfg.To},
		Subject: NotificationSubject(rec),
		HTML:    gohtml.Format(html.String()),
		Text:    strings.TrimSpace(text.String()),
		ReplyTo: rec.Email,
	}, nil
}

package model

import "time"

// CRMBlob is the structured copy of a submission returned to the caller for
// downstream CRM import. Empty optional fields are reported as null.
type CRMBlob struct {
	Source      string      `json:"source"`
	SubmittedAt string      `json:"submitted_at"`
	ContactID   int64       `json:"contact_id"`
	Contact     CRMContact  `json:"contact"`
	Inquiry     CRMInquiry  `json:"inquiry"`
	Metadata    CRMMetadata `json:"metadata"`
}

type CRMContact struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Company *string `json:"company"`
	Phone   *string `json:"phone"`
}

type CRMInquiry struct {
	Type           string  `json:"type"`
	Message        string  `json:"message"`
	ReferralSource *string `json:"referral_source"`
}

type CRMMetadata struct {
	PageURL   string `json:"page_url"`
	UserAgent string `json:"user_agent"`
	IPAddress string `json:"ip_address"`
}

// CRMSource identifies contact form submissions in the CRM blob.
const CRMSource = "website_contact_form"

// SubmissionReceipt is the outcome of a persisted submission.
type SubmissionReceipt struct {
	ContactID int64
	EmailSent bool
	Blob      CRMBlob
}

// NullableString returns nil for an empty string.
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// TimestampLayout renders UTC times with millisecond precision and a Z
// suffix, e.g. 2024-05-01T12:00:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp formats t in UTC with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

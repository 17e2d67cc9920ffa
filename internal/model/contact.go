package model

import "time"

// Contact statuses. Rows created by the health probe use the test statuses
// and are hidden from listings.
const (
	ContactStatusNew         = "new"
	ContactStatusTest        = "test"
	ContactStatusTestUpdated = "test_updated"
)

// ContactSubmission is the JSON body of POST /api/contact.
type ContactSubmission struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Company        string `json:"company,omitempty"`
	Phone          string `json:"phone,omitempty"`
	InquiryType    string `json:"inquiry_type"`
	Message        string `json:"message"`
	ReferralSource string `json:"referral_source,omitempty"`
	Website        string `json:"website,omitempty"` // honeypot, must stay empty
}

// RequestMetadata is derived from request headers, never from the body.
// Missing values are empty strings.
type RequestMetadata struct {
	PageURL   string
	UserAgent string
	IPAddress string
}

// ContactRecord is a row of the contacts table.
type ContactRecord struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Company        string    `json:"company,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	InquiryType    string    `json:"inquiry_type"`
	Message        string    `json:"message"`
	ReferralSource string    `json:"referral_source,omitempty"`
	PageURL        string    `json:"page_url"`
	UserAgent      string    `json:"user_agent"`
	IPAddress      string    `json:"ip_address"`
	EmailSent      bool      `json:"email_sent"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewContactRecord builds the row to insert for an accepted submission.
func NewContactRecord(sub ContactSubmission, meta RequestMetadata) *ContactRecord {
	return &ContactRecord{
		Name:           sub.Name,
		Email:          sub.Email,
		Company:        sub.Company,
		Phone:          sub.Phone,
		InquiryType:    sub.InquiryType,
		Message:        sub.Message,
		ReferralSource: sub.ReferralSource,
		PageURL:        meta.PageURL,
		UserAgent:      meta.UserAgent,
		IPAddress:      meta.IPAddress,
		Status:         ContactStatusNew,
	}
}

// ContactListOptions carries filter and pagination parameters for listing contacts.
type ContactListOptions struct {
	// Status filters by status; "" and "all" return every non-test row.
	Status string
	Limit  int
	Offset int
}

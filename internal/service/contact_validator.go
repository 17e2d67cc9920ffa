package service

import (
	"regexp"
	"strings"

	"github.com/secunit/backend/internal/model"
)

// Verdict is the outcome of validating a contact submission.
type Verdict int

const (
	// VerdictAccept means the submission should be stored.
	VerdictAccept Verdict = iota
	// VerdictReject means the caller gets a 400 with the ValidationError reason.
	VerdictReject
	// VerdictDiscard means a bot filled the honeypot. The caller still sees
	// success and nothing is stored.
	VerdictDiscard
)

// Validation failure reasons.
const (
	ReasonMissingFields = "missing_fields"
	ReasonInvalidEmail  = "invalid_email"
)

// ValidationError reports why a submission was rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonMissingFields:
		return "Missing required fields"
	case ReasonInvalidEmail:
		return "Invalid email address"
	}
	return "Invalid submission"
}

// emailPattern accepts local@domain.tld with no whitespace anywhere.
// Whitespace includes \v, the Unicode separators and U+FEFF.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// ValidateSubmission classifies sub. The honeypot is checked before any
// required field.
func ValidateSubmission(sub model.ContactSubmission) (Verdict, error) {
	if sub.Website != "" {
		return VerdictDiscard, nil
	}

	for _, v := range []string{sub.Name, sub.Email, sub.InquiryType, sub.Message} {
		if strings.TrimSpace(v) == "" {
			return VerdictReject, &ValidationError{Reason: ReasonMissingFields}
		}
	}

	if !emailPattern.MatchString(sub.Email) {
		return VerdictReject, &ValidationError{Reason: ReasonInvalidEmail}
	}
	return VerdictAccept, nil
}

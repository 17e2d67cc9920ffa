package service

import (
	"context"

	"github.com/secunit/backend/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit stores an accepted submission, sends the best-effort
	// notification and returns the receipt for the caller. Only persistence
	// failures are returned as errors.
	Submit(ctx context.Context, sub model.ContactSubmission, meta model.RequestMetadata) (*model.SubmissionReceipt, error)

	// List returns contacts according to the given options.
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRecord, error)

	// UpdateStatus changes the status of a contact.
	UpdateStatus(ctx context.Context, id int64, status string) error
}

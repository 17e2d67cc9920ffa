package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/secunit/backend/internal/model"
	"github.com/secunit/backend/internal/repository"
	"github.com/secunit/backend/pkg/resend"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo   repository.ContactRepository
	mailer resend.Client
	notify NotificationConfig
	now    func() time.Time
}

// NewContactService creates a ContactService backed by the given repository.
// mailer may be nil, which disables notifications.
func NewContactService(repo repository.ContactRepository, mailer resend.Client, notify NotificationConfig) ContactService {
	return &contactServiceImpl{repo: repo, mailer: mailer, notify: notify, now: time.Now}
}

// Submit inserts the record, then notifies. The insert is the critical path;
// everything after it is logged on failure and never returned.
func (s *contactServiceImpl) Submit(ctx context.Context, sub model.ContactSubmission, meta model.RequestMetadata) (*model.SubmissionReceipt, error) {
	rec := model.NewContactRecord(sub, meta)
	id, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("persisting contact: %w", err)
	}

	submittedAt := s.now().UTC()
	sent := s.sendNotification(ctx, rec, submittedAt)

	return &model.SubmissionReceipt{
		ContactID: id,
		EmailSent: sent,
		Blob:      buildCRMBlob(rec, submittedAt),
	}, nil
}

// sendNotification reports whether the email was accepted by the provider.
func (s *contactServiceImpl) sendNotification(ctx context.Context, rec *model.ContactRecord, submittedAt time.Time) bool {
	if s.mailer == nil || !s.mailer.Configured() {
		return false
	}

	msg, err := composeNotification(s.notify, rec, submittedAt)
	if err != nil {
		slog.Error("failed to compose contact notification", "contact_id", rec.ID, "error", err)
		return false
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Error("failed to send contact notification", "contact_id", rec.ID, "error", err)
		return false
	}

	if err := s.repo.MarkEmailSent(ctx, rec.ID); err != nil {
		slog.Error("failed to mark contact email as sent", "contact_id", rec.ID, "error", err)
		return true
	}
	rec.EmailSent = true
	return true
}

func buildCRMBlob(rec *model.ContactRecord, submittedAt time.Time) model.CRMBlob {
	return model.CRMBlob{
		Source:      model.CRMSource,
		SubmittedAt: model.FormatTimestamp(submittedAt),
		ContactID:   rec.ID,
		Contact: model.CRMContact{
			Name:    rec.Name,
			Email:   rec.Email,
			Company: model.NullableString(rec.Company),
			Phone:   model.NullableString(rec.Phone),
		},
		Inquiry: model.CRMInquiry{
			Type:           rec.InquiryType,
			Message:        rec.Message,
			ReferralSource: model.NullableString(rec.ReferralSource),
		},
		Metadata: model.CRMMetadata{
			PageURL:   rec.PageURL,
			UserAgent: rec.UserAgent,
			IPAddress: rec.IPAddress,
		},
	}
}

// List returns contacts according to the given filter/pagination options.
func (s *contactServiceImpl) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRecord, error) {
	return s.repo.List(ctx, opts)
}

// UpdateStatus changes the status of a contact.
func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id int64, status string) error {
	return s.repo.UpdateStatus(ctx, id, status)
}

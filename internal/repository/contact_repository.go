package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/secunit/backend/internal/database"
	"github.com/secunit/backend/internal/model"
)

// ErrNoID is returned when an insert succeeded but the store reported no
// row identifier.
var ErrNoID = errors.New("insert returned no id")

// ContactRepository defines the persistence interface for contact records.
type ContactRepository interface {
	Create(ctx context.Context, rec *model.ContactRecord) (int64, error)
	FindByID(ctx context.Context, id int64) (*model.ContactRecord, error)
	MarkEmailSent(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRecord, error)
	Count(ctx context.Context) (int64, error)
}

// SQLContactRepository stores contacts through a database.Executor, so the
// same statements serve the D1, SQLite and PostgreSQL backends.
type SQLContactRepository struct {
	db database.Executor
}

// NewContactRepository creates a SQLContactRepository on db.
func NewContactRepository(db database.Executor) *SQLContactRepository {
	return &SQLContactRepository{db: db}
}

// Ensure SQLContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*SQLContactRepository)(nil)

const contactColumns = `id, name, email, company, phone, inquiry_type, message, referral_source,
	page_url, user_agent, ip_address, email_sent, status, created_at`

// Create inserts rec and sets rec.ID to the identifier assigned by the store.
// Empty optional fields are stored as NULL.
func (r *SQLContactRepository) Create(ctx context.Context, rec *model.ContactRecord) (int64, error) {
	status := rec.Status
	if status == "" {
		status = model.ContactStatusNew
	}
	res, err := r.db.Execute(ctx,
		`INSERT INTO contacts (
			name, email, company, phone, inquiry_type, message,
			referral_source, page_url, user_agent, ip_address, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		rec.Name, rec.Email, nullable(rec.Company), nullable(rec.Phone), rec.InquiryType, rec.Message,
		nullable(rec.ReferralSource), rec.PageURL, rec.UserAgent, rec.IPAddress, status,
	)
	if err != nil {
		return 0, err
	}
	id := res.LastInsertID()
	if id == 0 {
		return 0, ErrNoID
	}
	rec.ID = id
	rec.Status = status
	return id, nil
}

// FindByID returns the contact with the given id or ErrNotFound.
func (r *SQLContactRepository) FindByID(ctx context.Context, id int64) (*model.ContactRecord, error) {
	res, err := r.db.Execute(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(res.Rows) == 0 {
		return nil, ErrNotFound
	}
	return scanContact(res.Rows[0]), nil
}

// MarkEmailSent flags the notification for id as delivered.
func (r *SQLContactRepository) MarkEmailSent(ctx context.Context, id int64) error {
	_, err := r.db.Execute(ctx, `UPDATE contacts SET email_sent = TRUE WHERE id = ?`, id)
	return err
}

// UpdateStatus sets the status of one contact. It returns ErrNotFound when
// no row changed.
func (r *SQLContactRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.Execute(ctx, `UPDATE contacts SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	return expectOneChange(res)
}

// Delete removes one contact. It returns ErrNotFound when no row was removed.
func (r *SQLContactRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Execute(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneChange(res)
}

// List returns contacts newest first, filtered by status and paginated by
// limit/offset. Health probe rows are never listed.
func (r *SQLContactRepository) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactRecord, error) {
	conditions := []string{"status NOT IN (?, ?)"}
	args := []any{model.ContactStatusTest, model.ContactStatusTestUpdated}

	status := strings.TrimSpace(opts.Status)
	if status != "" && status != "all" {
		conditions = append(conditions, "status = ?")
		args = append(args, status)
	}
	args = append(args, opts.Limit, opts.Offset)

	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY id DESC
		LIMIT ? OFFSET ?`

	res, err := r.db.Execute(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	contacts := make([]*model.ContactRecord, 0, len(res.Rows))
	for _, row := range res.Rows {
		contacts = append(contacts, scanContact(row))
	}
	return contacts, nil
}

// Count returns the number of rows in the contacts table.
func (r *SQLContactRepository) Count(ctx context.Context) (int64, error) {
	res, err := r.db.Execute(ctx, `SELECT COUNT(*) AS n FROM contacts`)
	if err != nil {
		return 0, err
	}
	if len(res.Rows) == 0 {
		return 0, nil
	}
	n, ok := database.Int64(res.Rows[0]["n"])
	if !ok {
		return 0, fmt.Errorf("unexpected count value %v", res.Rows[0]["n"])
	}
	return n, nil
}

func expectOneChange(res *database.Result) error {
	switch res.Meta.Changes {
	case 1:
		return nil
	case 0:
		return ErrNotFound
	default:
		return fmt.Errorf("expected 1 changed row, got %d", res.Meta.Changes)
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanContact(row map[string]any) *model.ContactRecord {
	id, _ := database.Int64(row["id"])
	return &model.ContactRecord{
		ID:             id,
		Name:           database.String(row["name"]),
		Email:          database.String(row["email"]),
		Company:        database.String(row["company"]),
		Phone:          database.String(row["phone"]),
		InquiryType:    database.String(row["inquiry_type"]),
		Message:        database.String(row["message"]),
		ReferralSource: database.String(row["referral_source"]),
		PageURL:        database.String(row["page_url"]),
		UserAgent:      database.String(row["user_agent"]),
		IPAddress:      database.String(row["ip_address"]),
		EmailSent:      database.Bool(row["email_sent"]),
		Status:         database.String(row["status"]),
		CreatedAt:      database.Time(row["created_at"]),
	}
}

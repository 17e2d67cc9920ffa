package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/secunit/backend/internal/model"
	"github.com/secunit/backend/internal/repository"
	"github.com/secunit/backend/internal/service"
)

// ContactHandler handles contact form submission and the admin export.
type ContactHandler struct {
	contactService service.ContactService
	maxBodyBytes   int64
	exposeErrors   bool
}

// ContactConfig tunes ContactHandler.
type ContactConfig struct {
	MaxBodyBytes int64
	ExposeErrors bool
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService, cfg ContactConfig) *ContactHandler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 64 << 10
	}
	return &ContactHandler{
		contactService: contactService,
		maxBodyBytes:   cfg.MaxBodyBytes,
		exposeErrors:   cfg.ExposeErrors,
	}
}

// submitResponse is the 200 body of POST /api/contact.
type submitResponse struct {
	Success   bool           `json:"success"`
	ContactID int64          `json:"contact_id,omitempty"`
	JSONBlob  *model.CRMBlob `json:"json_blob,omitempty"`
}

// Submit handles POST /api/contact.
// Unparseable bodies are 500, validation failures 400, honeypot hits a
// bare {"success":true}.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	// A started submission runs to completion even if the client goes away.
	ctx := context.WithoutCancel(r.Context())

	var sub model.ContactSubmission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes)).Decode(&sub); err != nil {
		slog.Error("contact form error", "stage", "parse", "error", err)
		writeInternalError(w, r, err, h.exposeErrors)
		return
	}

	verdict, err := service.ValidateSubmission(sub)
	switch verdict {
	case service.VerdictDiscard:
		slog.Info("contact honeypot triggered", "ip", clientIP(r))
		writeJSON(w, r, http.StatusOK, submitResponse{Success: true})
		return
	case service.VerdictReject:
		var vErr *service.ValidationError
		if !errors.As(err, &vErr) {
			vErr = &service.ValidationError{}
		}
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: vErr.Error(), Code: vErr.Reason})
		return
	}

	receipt, err := h.contactService.Submit(ctx, sub, requestMetadata(r))
	if err != nil {
		slog.Error("contact form error", "stage", "persist", "error", err)
		writeInternalError(w, r, err, h.exposeErrors)
		return
	}

	slog.Info("contact stored", "contact_id", receipt.ContactID, "email_sent", receipt.EmailSent)
	writeJSON(w, r, http.StatusOK, submitResponse{
		Success:   true,
		ContactID: receipt.ContactID,
		JSONBlob:  &receipt.Blob,
	})
}

// adminListResponse is the JSON response for GET /api/admin/contacts.
type adminListResponse struct {
	Contacts []*model.ContactRecord `json:"contacts"`
}

// AdminList handles GET /api/admin/contacts.
// Supports query params: status, limit (1-100, default 20), offset.
func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	opts := model.ContactListOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  20,
		Offset: 0,
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	contacts, err := h.contactService.List(r.Context(), opts)
	if err != nil {
		slog.Error("list contacts failed", "error", err)
		writeInternalError(w, r, err, h.exposeErrors)
		return
	}

	// Return [] not null for empty lists
	if contacts == nil {
		contacts = []*model.ContactRecord{}
	}

	writeJSON(w, r, http.StatusOK, adminListResponse{Contacts: contacts})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/admin/contacts/{id}/status.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid_id"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid_json"})
		return
	}
	req.Status = strings.TrimSpace(req.Status)
	if req.Status == "" {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "status_required"})
		return
	}

	if err := h.contactService.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "not_found"})
			return
		}
		slog.Error("update contact status failed", "contact_id", id, "error", err)
		writeInternalError(w, r, err, h.exposeErrors)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

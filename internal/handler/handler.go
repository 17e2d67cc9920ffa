package handler

import (
	"net/http"
	"time"

	"github.com/secunit/backend/internal/model"
)

// Handler serves the framework-level endpoints (CORS, liveness).
type Handler struct {
	siteURL string
	now     func() time.Time
}

func New(siteURL string) *Handler {
	return &Handler{siteURL: siteURL, now: time.Now}
}

func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", h.siteURL)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type liveResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Live handles GET /api/live. It has no dependencies and always answers 200.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	noCache(w)
	writeJSON(w, r, http.StatusOK, liveResponse{
		Status:    "ok",
		Timestamp: model.FormatTimestamp(h.now()),
	})
}

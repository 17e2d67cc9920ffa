package handler

import (
	"net/http"

	"github.com/go-chi/render"
)

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// writeInternalError writes the generic 500 body. The error text is only
// included when expose is set.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error, expose bool) {
	msg := "Unknown error"
	if expose && err != nil {
		msg = err.Error()
	}
	writeJSON(w, r, http.StatusInternalServerError, errorResponse{
		Error:   "Internal server error",
		Message: msg,
	})
}

func noCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
}

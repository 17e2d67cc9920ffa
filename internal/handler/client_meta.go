package handler

import (
	"net/http"
	"strings"

	"github.com/secunit/backend/internal/model"
)

// clientIPHeaders are checked in order. Platform headers set by the edge
// win over the generic X-Forwarded-For.
var clientIPHeaders = []string{"CF-Connecting-IP", "Fly-Client-IP"}

// requestMetadata derives the stored metadata of a submission from its
// headers. Absent headers give empty strings.
func requestMetadata(r *http.Request) model.RequestMetadata {
	return model.RequestMetadata{
		PageURL:   r.Header.Get("Referer"),
		UserAgent: r.Header.Get("User-Agent"),
		IPAddress: clientIP(r),
	}
}

func clientIP(r *http.Request) string {
	for _, h := range clientIPHeaders {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
			return v
		}
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	return ""
}

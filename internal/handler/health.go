package handler

import (
	"context"
	"net/http"

	"github.com/secunit/backend/internal/model"
	"github.com/secunit/backend/internal/service"
)

// HealthHandler serves GET /api/health.
type HealthHandler struct {
	healthService service.HealthService
}

func NewHealthHandler(healthService service.HealthService) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// Health runs the database probe. Only an unhealthy result maps to 503;
// whether failures are unhealthy or degraded is the service's policy.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	// The probe row must be deleted even if the caller hangs up mid-check.
	res := h.healthService.Check(context.WithoutCancel(r.Context()))

	status := http.StatusOK
	if res.Status == model.HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}

	noCache(w)
	writeJSON(w, r, status, res)
}

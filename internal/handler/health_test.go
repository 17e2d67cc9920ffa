package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/secunit/backend/internal/config"
	"github.com/secunit/backend/internal/database"
	"github.com/secunit/backend/internal/model"
	"github.com/secunit/backend/internal/repository"
	"github.com/secunit/backend/internal/service"
)

type mockHealthService struct {
	result *model.HealthCheckResult
}

func (m *mockHealthService) Check(ctx context.Context) *model.HealthCheckResult {
	return m.result
}

func healthResult(status string) *model.HealthCheckResult {
	return &model.HealthCheckResult{
		Status:    status,
		Timestamp: "2024-05-01T12:00:00.000Z",
		Checks: model.HealthChecks{
			App: model.AppCheck{Status: model.CheckPass, Message: "Application is running"},
			Database: model.DatabaseCheck{
				Status:  model.CheckPass,
				Message: "All CRUD operations successful",
				CRUD: model.CRUDCheck{
					Create: model.CheckPass,
					Read:   model.CheckPass,
					Update: model.CheckPass,
					Delete: model.CheckPass,
				},
			},
		},
	}
}

func TestHealth_StatusCodes(t *testing.T) {
	tests := []struct {
		status string
		want   int
	}{
		{model.HealthHealthy, http.StatusOK},
		{model.HealthDegraded, http.StatusOK},
		{model.HealthUnhealthy, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			h := NewHealthHandler(&mockHealthService{result: healthResult(tt.status)})
			req := httptest.NewRequest("GET", "/api/health", nil)
			rec := httptest.NewRecorder()

			h.Health(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
			if got := rec.Header().Get("Cache-Control"); got != "no-cache, no-store, must-revalidate" {
				t.Errorf("unexpected Cache-Control %q", got)
			}
		})
	}
}

func TestHealth_BodyShape(t *testing.T) {
	h := NewHealthHandler(&mockHealthService{result: healthResult(model.HealthHealthy)})
	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected status=healthy, got %v", body["status"])
	}
	checks, ok := body["checks"].(map[string]any)
	if !ok {
		t.Fatalf("checks missing: %v", body)
	}
	db, ok := checks["d1"].(map[string]any)
	if !ok {
		t.Fatalf("checks.d1 missing: %v", checks)
	}
	crud, ok := db["crud"].(map[string]any)
	if !ok {
		t.Fatalf("checks.d1.crud missing: %v", db)
	}
	for _, op := range []string{"create", "read", "update", "delete"} {
		if crud[op] != "pass" {
			t.Errorf("crud.%s: expected pass, got %v", op, crud[op])
		}
	}
}

// cancelAfterCreate cancels the request context once the health row exists,
// as a client hanging up mid-check would.
type cancelAfterCreate struct {
	*repository.SQLContactRepository
	cancel context.CancelFunc
}

func (r *cancelAfterCreate) Create(ctx context.Context, rec *model.ContactRecord) (int64, error) {
	id, err := r.SQLContactRepository.Create(ctx, rec)
	if err == nil {
		r.cancel()
	}
	return id, err
}

func TestHealth_ClientCancellationStillDeletesRow(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "health.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	repo := repository.NewContactRepository(database.NewSQLExecutor(db))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wrapped := &cancelAfterCreate{SQLContactRepository: repo, cancel: cancel}
	h := NewHealthHandler(service.NewHealthService(wrapped, true, config.HealthPolicyDegraded))

	req := httptest.NewRequest("GET", "/api/health", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	var res model.HealthCheckResult
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Status != model.HealthHealthy {
		t.Errorf("expected healthy, got %q (%s)", res.Status, res.Checks.Database.Message)
	}
	if res.Checks.Database.CRUD.Delete != model.CheckPass {
		t.Errorf("expected delete=pass, got %q", res.Checks.Database.CRUD.Delete)
	}

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("health row left behind after client cancellation: %d rows", n)
	}
}

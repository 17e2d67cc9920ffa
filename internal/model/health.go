package model

// Overall health states.
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

// Check and CRUD step outcomes.
const (
	CheckPass = "pass"
	CheckFail = "fail"
	CheckSkip = "skip"
)

// HealthCheckResult is the body of GET /api/health.
type HealthCheckResult struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	Checks    HealthChecks `json:"checks"`
}

type HealthChecks struct {
	App      AppCheck      `json:"app"`
	Database DatabaseCheck `json:"d1"`
}

type AppCheck struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type DatabaseCheck struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	CRUD    CRUDCheck `json:"crud"`
}

// CRUDCheck records each step of the synthetic row probe.
type CRUDCheck struct {
	Create string `json:"create"`
	Read   string `json:"read"`
	Update string `json:"update"`
	Delete string `json:"delete"`
}

// Failed reports whether any attempted step failed.
func (c CRUDCheck) Failed() bool {
	return c.Create == CheckFail || c.Read == CheckFail || c.Update == CheckFail || c.Delete == CheckFail
}

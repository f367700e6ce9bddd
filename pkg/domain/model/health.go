package model

const (
	HealthStatusHealthy  = "healthy"
	HealthStatusDegraded = "degraded"
)

// HealthStatus is the body of the health endpoint. Checks maps each
// dependency check to "ok" or the error it returned.
type HealthStatus struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

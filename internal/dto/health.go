package dto

// HealthResponse represents the response structure for health checks.
// Checks holds "ok" or the error text per dependency on /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

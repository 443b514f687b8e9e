package health

import (
	"context"
	"time"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	// StatusUp indicates the component is healthy
	StatusUp HealthStatus = "UP"
	// StatusDown indicates the component is unhealthy
	StatusDown HealthStatus = "DOWN"
	// StatusDegraded indicates the component is partially healthy
	StatusDegraded HealthStatus = "DEGRADED"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Name      string                 `json:"name"`
	Status    HealthStatus           `json:"status"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CheckedAt time.Time              `json:"checked_at"`
	Error     string                 `json:"error,omitempty"`
}

// HealthProvider is the interface that all health check providers must implement
type HealthProvider interface {
	// Name returns the name of the provider
	Name() string
	// Check performs the health check and returns the result
	Check(ctx context.Context) HealthCheckResult
}

// HealthResponse is the JSON response for health check endpoint
type HealthResponse struct {
	Status    HealthStatus           `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    []HealthCheckResult    `json:"checks"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

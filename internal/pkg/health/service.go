package health

import (
	"context"
	"sync"
	"time"
)

// ServiceConfig configures the health service
type ServiceConfig struct {
	// DefaultTimeout bounds each provider check
	DefaultTimeout time.Duration
	// Details are static fields added to every response (service name, version)
	Details map[string]interface{}
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		DefaultTimeout: 5 * time.Second,
	}
}

// Service runs registered providers and aggregates their status.
// With no providers registered the service reports itself UP.
type Service struct {
	config    ServiceConfig
	providers []HealthProvider
	mu        sync.RWMutex
}

// NewService creates a new health service
func NewService(config ServiceConfig) *Service {
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = 5 * time.Second
	}
	return &Service{
		config:    config,
		providers: make([]HealthProvider, 0),
	}
}

// RegisterProvider registers a health provider
func (s *Service) RegisterProvider(p HealthProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers = append(s.providers, p)
}

// Check runs all health checks in parallel
func (s *Service) Check(ctx context.Context) ([]HealthCheckResult, HealthStatus) {
	s.mu.RLock()
	providers := s.providers
	s.mu.RUnlock()

	if len(providers) == 0 {
		return []HealthCheckResult{}, StatusUp
	}

	results := make([]HealthCheckResult, len(providers))
	var wg sync.WaitGroup

	for i, provider := range providers {
		wg.Add(1)
		go func(idx int, p HealthProvider) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, s.config.DefaultTimeout)
			defer cancel()

			resultCh := make(chan HealthCheckResult, 1)
			go func() {
				resultCh <- p.Check(checkCtx)
			}()

			select {
			case result := <-resultCh:
				results[idx] = result
			case <-checkCtx.Done():
				results[idx] = HealthCheckResult{
					Name:      p.Name(),
					Status:    StatusDown,
					Details:   map[string]interface{}{"error": "timeout"},
					CheckedAt: time.Now(),
					Error:     "health check timeout",
				}
			}
		}(i, provider)
	}

	wg.Wait()

	return results, aggregate(results)
}

// aggregate is DOWN if any check is down, DEGRADED if any is degraded, else UP
func aggregate(results []HealthCheckResult) HealthStatus {
	status := StatusUp
	for _, r := range results {
		switch r.Status {
		case StatusDown:
			return StatusDown
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}

// GetHealthResponse builds the endpoint response
func (s *Service) GetHealthResponse(ctx context.Context) HealthResponse {
	results, status := s.Check(ctx)

	var details map[string]interface{}
	if len(s.config.Details) > 0 {
		details = make(map[string]interface{}, len(s.config.Details))
		for k, v := range s.config.Details {
			details[k] = v
		}
	}

	return HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    results,
		Details:   details,
	}
}

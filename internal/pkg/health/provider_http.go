package health

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"crudgate/internal/pkg/errorsx"
	"crudgate/internal/pkg/retry"
)

// HTTPProvider checks HTTP endpoint health
type HTTPProvider struct {
	name             string
	url              string
	method           string
	expectedStatus   int
	timeout          time.Duration
	degradedMS       int64
	client           *http.Client
	headers          map[string]string
	validateResponse func([]byte) error
	retry            retry.Policy
}

// HTTPProviderConfig configures the HTTP health provider
type HTTPProviderConfig struct {
	Name             string
	URL              string
	Method           string             // Default: GET
	ExpectedStatus   int                // Default: 200
	Timeout          time.Duration      // Default: 5s
	DegradedMS       int64              // Latency threshold for degraded (default: 1000ms)
	Client           *http.Client       // Optional custom HTTP client
	Headers          map[string]string  // Optional headers
	ValidateResponse func([]byte) error // Optional response validator
	Retry            retry.Policy       // Transient failures are retried; zero value means one attempt
}

// NewHTTPProvider creates a new HTTP health provider
func NewHTTPProvider(config HTTPProviderConfig) *HTTPProvider {
	if config.Name == "" {
		config.Name = "http"
	}
	if config.Method == "" {
		config.Method = http.MethodGet
	}
	if config.ExpectedStatus == 0 {
		config.ExpectedStatus = http.StatusOK
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.DegradedMS == 0 {
		config.DegradedMS = 1000
	}
	if config.Client == nil {
		config.Client = &http.Client{
			Timeout: config.Timeout,
		}
	}

	return &HTTPProvider{
		name:             config.Name,
		url:              config.URL,
		method:           config.Method,
		expectedStatus:   config.ExpectedStatus,
		timeout:          config.Timeout,
		degradedMS:       config.DegradedMS,
		client:           config.Client,
		headers:          config.Headers,
		validateResponse: config.ValidateResponse,
		retry:            config.Retry,
	}
}

// Name returns the provider name
func (p *HTTPProvider) Name() string {
	return p.name
}

// Check performs the health check, retrying connection failures and
// retryable statuses according to the provider's policy
func (p *HTTPProvider) Check(ctx context.Context) HealthCheckResult {
	var result HealthCheckResult
	attempts := 0

	_ = retry.Do(ctx, p.retry, func(ctx context.Context) error {
		attempts++
		var err error
		result, err = p.probe(ctx)
		return err
	})

	if attempts == 0 {
		// Context ended before the first probe
		result = HealthCheckResult{
			Name:      p.name,
			Status:    StatusDown,
			CheckedAt: time.Now(),
			Details:   map[string]interface{}{"url": p.url},
			Error:     "health check cancelled",
		}
	}
	if attempts > 1 {
		result.Details["attempts"] = attempts
	}
	return result
}

// probe performs one request. The returned error classifies failures for retry.
func (p *HTTPProvider) probe(ctx context.Context) (HealthCheckResult, error) {
	result := HealthCheckResult{
		Name:      p.name,
		CheckedAt: time.Now(),
		Details:   make(map[string]interface{}),
	}

	result.Details["url"] = p.url
	result.Details["method"] = p.method

	req, err := http.NewRequestWithContext(ctx, p.method, p.url, nil)
	if err != nil {
		result.Status = StatusDown
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		result.Details["error"] = err.Error()
		return result, errorsx.WrapPermanent(err)
	}

	for key, value := range p.headers {
		req.Header.Set(key, value)
	}

	// Measure latency
	start := time.Now()
	resp, err := p.client.Do(req)
	latency := time.Since(start)

	result.Details["latency_ms"] = latency.Milliseconds()

	if err != nil {
		result.Status = StatusDown
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.Details["error"] = err.Error()
		return result, errorsx.WrapRetryable(err)
	}
	defer resp.Body.Close()

	result.Details["status_code"] = resp.StatusCode

	if resp.StatusCode != p.expectedStatus {
		result.Status = StatusDown
		result.Error = fmt.Sprintf("unexpected status code: got %d, expected %d", resp.StatusCode, p.expectedStatus)
		result.Details["expected_status"] = p.expectedStatus
		return result, errorsx.FromStatus(resp.StatusCode, errors.New(result.Error))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Status = StatusDegraded
		result.Error = fmt.Sprintf("failed to read response body: %v", err)
		result.Details["error"] = err.Error()
		return result, errorsx.WrapRetryable(err)
	}

	result.Details["response_size"] = len(body)

	if p.validateResponse != nil {
		if err := p.validateResponse(body); err != nil {
			result.Status = StatusDown
			result.Error = fmt.Sprintf("response validation failed: %v", err)
			result.Details["validation_error"] = err.Error()
			return result, errorsx.WrapPermanent(err)
		}
	}

	if latency.Milliseconds() > p.degradedMS {
		result.Status = StatusDegraded
		result.Details["message"] = "high latency detected"
		return result, nil
	}

	result.Status = StatusUp
	return result, nil
}

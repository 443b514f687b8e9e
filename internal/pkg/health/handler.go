package health

import (
	"encoding/json"
	"net/http"
)

// statusCode maps aggregate status to HTTP. Degraded still answers 200.
func statusCode(status HealthStatus) int {
	if status == StatusDown {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// HTTPHandler returns an HTTP handler for health checks
func HTTPHandler(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := service.GetHealthResponse(r.Context())

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode(response.Status))
		_ = json.NewEncoder(w).Encode(response)
	}
}

// LivenessHandler returns a liveness probe handler
// This should only check if the application is alive, not dependencies
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

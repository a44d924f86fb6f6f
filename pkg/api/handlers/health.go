package handlers

import (
	"net/http"
)

// HealthChecker reports provider liveness. Implemented by providers.Provider.
type HealthChecker interface {
	IsHealthy() bool
	GetName() string
}

// HealthHandler serves GET /health. It always returns 200 while the
// process is up; use /ready to gate traffic on provider health.
type HealthHandler struct{}

// NewHealthHandler creates the liveness handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler serves GET /ready. It returns 200 when the completion
// provider is healthy and 503 otherwise, so load balancers can hold
// traffic while the upstream is down.
type ReadyHandler struct {
	provider HealthChecker
}

// NewReadyHandler creates the readiness handler.
func NewReadyHandler(provider HealthChecker) *ReadyHandler {
	return &ReadyHandler{provider: provider}
}

// ServeHTTP implements http.Handler.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.provider != nil && !h.provider.IsHealthy() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"provider": h.provider.GetName(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

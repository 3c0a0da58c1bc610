// Package health provides health check endpoints for the forms backend.
package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// ServiceStatus represents the status of a single service
type ServiceStatus struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// HealthResponse represents the structured health check response
type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Services  map[string]ServiceStatus `json:"services"`
	Version   string                   `json:"version,omitempty"`
}

// ReadinessResponse represents the readiness probe response
type ReadinessResponse struct {
	Ready     bool   `json:"ready"`
	Timestamp string `json:"timestamp"`
}

// LivenessResponse represents the liveness probe response
type LivenessResponse struct {
	Alive     bool   `json:"alive"`
	Timestamp string `json:"timestamp"`
}

// Handler handles health check requests
type Handler struct {
	transportName string
	version       string
	ready         bool
	mu            sync.RWMutex
}

// Config holds health handler configuration
type Config struct {
	// TransportName is the delivery transport selected at startup; health
	// reports it so operators can confirm which backend is live.
	TransportName string
	Version       string
}

// NewHandler creates a new health check handler
func NewHandler(cfg Config) *Handler {
	return &Handler{
		transportName: cfg.TransportName,
		version:       cfg.Version,
		ready:         true,
	}
}

// SetReady sets the readiness state, flipped off during graceful shutdown
func (h *Handler) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

// IsReady returns the current readiness state
func (h *Handler) IsReady() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready
}

// Health handles the main health check endpoint. The service holds no
// connections between submissions, so health reports process state and
// the configured transport rather than probing anything remote.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	services := map[string]ServiceStatus{
		"mail_transport": {
			Status: "configured",
			Detail: h.transportName,
		},
	}

	status := "healthy"
	if !h.IsReady() {
		status = "shutting_down"
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
		Version:   h.version,
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response)
}

// Readiness handles the readiness probe endpoint
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	ready := h.IsReady()

	response := ReadinessResponse{
		Ready:     ready,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response)
}

// Liveness handles the liveness probe endpoint
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	response := LivenessResponse{
		Alive:     true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/varshiniml7/predictive-maintenance/internal/domain/model"
	"github.com/varshiniml7/predictive-maintenance/internal/domain/service"
)

const serviceName = "riskd"

// HealthHandler provides HTTP health check endpoints.
type HealthHandler struct {
	startTime time.Time
	baseline  *model.BaselineTable
	adapter   *service.ClassifierAdapter
	logger    *slog.Logger
}

// NewHealthHandler creates a new health check handler. The adapter may be nil.
func NewHealthHandler(baseline *model.BaselineTable, adapter *service.ClassifierAdapter, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		baseline:  baseline,
		adapter:   adapter,
		logger:    logger,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ClassifierState describes the optional classifier in readiness output.
type ClassifierState struct {
	Detail string `json:"detail"`
	Active bool   `json:"active"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status     string          `json:"status"`
	Service    string          `json:"service"`
	Features   []string        `json:"features"`
	Classifier ClassifierState `json:"classifier"`
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Uptime:  time.Since(h.startTime).String(),
	})
}

// Readyz reports the loaded baseline and whether a classifier contributes to
// scores. The service is ready as soon as the baseline is loaded; a missing
// classifier only degrades scoring.
func (h *HealthHandler) Readyz(w http.ResponseWriter, _ *http.Request) {
	if h.baseline == nil || h.baseline.Len() == 0 {
		writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not ready", Service: serviceName})
		return
	}

	writeJSON(w, http.StatusOK, ReadinessResponse{
		Status:   "ready",
		Service:  serviceName,
		Features: h.baseline.Features(),
		Classifier: ClassifierState{
			Active: h.adapter.Active(),
			Detail: h.adapter.Describe(),
		},
	})
}

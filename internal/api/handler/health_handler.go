package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/officina/workshop-system/internal/core/ports"
)

// HealthHandler handles GET /health, the liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Probe checks one dependency.
type Probe func(ctx context.Context) error

// HealthDependenciesHandler handles GET /health/ready, the readiness probe.
// The service is ready once every probe passes and the first snapshot is loaded.
type HealthDependenciesHandler struct {
	probes    map[string]Probe
	snapshots ports.SnapshotProvider
}

func NewHealthDependenciesHandler(probes map[string]Probe, snapshots ports.SnapshotProvider) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{probes: probes, snapshots: snapshots}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status          string                      `json:"status"`
	SnapshotVersion uint64                      `json:"snapshot_version"`
	Dependencies    map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.probes)+1)
	healthy := true

	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.probes[name](ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	var version uint64
	if snap, err := h.snapshots.Current(); err != nil {
		deps["snapshot"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		version = snap.Version()
		deps["snapshot"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:          status,
		SnapshotVersion: version,
		Dependencies:    deps,
	})
}

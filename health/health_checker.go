// Package health reports whether the catalog is loaded and its storage reachable.
package health

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/giygas/empirical-rx/interfaces"
)

// pingTimeout bounds the storage check so a hung backend can't stall /health
const pingTimeout = 2 * time.Second

// Compile-time check to ensure HealthCheckerImpl implements HealthChecker
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store interfaces.CatalogStore
	slot  interfaces.Slot
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(store interfaces.CatalogStore, slot interfaces.Slot) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		store: store,
		slot:  slot,
	}
}

// HealthCheck returns HTTP-specific health data.
// Unreachable storage is unhealthy; an empty catalog or a failed last write is degraded.
func (h *HealthCheckerImpl) HealthCheck(ctx context.Context) (status string, data map[string]any, httpStatus int) {
	conditions := h.store.Len()
	lastModified := h.store.LastModified()
	saveErr := h.store.LastSaveError()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	pingErr := h.slot.Ping(pingCtx)

	switch {
	case pingErr != nil:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case saveErr != nil:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	case conditions == 0:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	storage := map[string]any{
		"slot":      h.slot.Name(),
		"reachable": pingErr == nil,
	}
	if pingErr != nil {
		storage["error"] = pingErr.Error()
	}
	if saveErr != nil {
		storage["last_save_error"] = saveErr.Error()
	}

	data = map[string]any{
		"conditions":     conditions,
		"revision":       h.store.Revision(),
		"last_modified":  lastModified.Format(time.RFC3339),
		"data_age_hours": math.Round(time.Since(lastModified).Hours()*10) / 10,
		"storage":        storage,
	}

	return status, data, httpStatus
}

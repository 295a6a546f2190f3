package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is anything that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

// HealthHandler reports liveness of the process and its store.
type HealthHandler struct {
	store  Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// HandleHealth answers 200 {"status":"ok"} when the store responds and 503
// {"status":"unavailable"} otherwise.
//
// HTTP: GET /healthz
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "health check failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

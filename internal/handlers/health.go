package handlers

import (
	"context"
	"net/http"

	"github.com/s0-shady/Task-Manager-django/internal/logger"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthHandler struct {
	checker HealthChecker
}

func NewHealthHandler(checker HealthChecker) HealthHandler {
	return HealthHandler{checker: checker}
}

func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if h.checker != nil {
		if err := h.checker.HealthCheck(r.Context()); err != nil {
			responseWithJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unhealthy"})
			return
		}
	}

	responseWithJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

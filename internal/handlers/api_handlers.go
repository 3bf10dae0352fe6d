package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/s0-shady/Task-Manager-django/internal/handlers/dto"
	"github.com/s0-shady/Task-Manager-django/internal/logger"
	"github.com/s0-shady/Task-Manager-django/internal/service"
)

// GET /api/tasks/uncompleted?sort_by=&sort_order=
func (h *TaskHandler) GetSortedUncompleted(w http.ResponseWriter, r *http.Request) {
	h.sorted(w, r, false, "priority")
}

// GET /api/tasks/completed?sort_by=&sort_order=
func (h *TaskHandler) GetSortedCompleted(w http.ResponseWriter, r *http.Request) {
	h.sorted(w, r, true, "completion_date")
}

func (h *TaskHandler) sorted(w http.ResponseWriter, r *http.Request, completed bool, defaultSortBy string) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	sortBy := r.URL.Query().Get("sort_by")
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	sortOrder := r.URL.Query().Get("sort_order")
	if sortOrder == "" {
		sortOrder = "desc"
	}

	result, err := h.taskService.Sorted(r.Context(), completed, sortBy, sortOrder)
	if err != nil {
		// контракт API: неверный sort_by отдаётся как {"error": "..."}
		var businessErr *service.BusinessError
		if errors.As(err, &businessErr) && businessErr.Code == service.CodeValidationError {
			logger.Warn("HTTP: Недопустимый sort_by",
				zap.String("sort_by", sortBy),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, businessErr.Message)
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "sorted_tasks"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Сортированный список получен",
		zap.String("sort_by", result.SortBy),
		zap.String("sort_order", result.SortOrder),
		zap.Int("count", len(result.Tasks)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, dto.SortedTasksResponse{
		Tasks:     dto.FromTaskList(result.Tasks),
		SortBy:    result.SortBy,
		SortOrder: result.SortOrder,
	})
}

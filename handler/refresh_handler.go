package handler

import (
	"log/slog"
	"net/http"

	"page-pipeline/service"

	"github.com/labstack/echo/v4"
)

// RefreshHandler implementation.
type refreshHandler struct {
	scheduler service.RefreshSchedulerService
	jobs      JobScheduler
	logger    *slog.Logger
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(scheduler service.RefreshSchedulerService, jobs JobScheduler, logger *slog.Logger) RefreshHandler {
	return &refreshHandler{
		scheduler: scheduler,
		jobs:      jobs,
		logger:    logger,
	}
}

// RunBatch handles POST /api/v1/refresh/run. Individual item failures
// are reported in the summary; only a catastrophic batch failure maps
// to an error status.
func (h *refreshHandler) RunBatch(c echo.Context) error {
	result, err := h.scheduler.RunBatch(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// JobStatus handles GET /api/v1/jobs/:name/status.
func (h *refreshHandler) JobStatus(c echo.Context) error {
	status, err := h.jobs.GetJobStatus(c.Param("name"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, status)
}

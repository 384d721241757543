package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"page-pipeline/domain"
	"page-pipeline/repository"
	"page-pipeline/service"

	"github.com/labstack/echo/v4"
)

// PageHandler implementation.
type pageHandler struct {
	pipeline  service.PipelineService
	cache     service.CacheService
	pageRepo  repository.PageRepository
	scoreRepo repository.ScoreRepository
	logger    *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(
	pipeline service.PipelineService,
	cache service.CacheService,
	pageRepo repository.PageRepository,
	scoreRepo repository.ScoreRepository,
	logger *slog.Logger,
) PageHandler {
	return &pageHandler{
		pipeline:  pipeline,
		cache:     cache,
		pageRepo:  pageRepo,
		scoreRepo: scoreRepo,
		logger:    logger,
	}
}

type resolveRequest struct {
	Query string `json:"query"`
}

// Resolve handles POST /api/v1/pages/resolve.
func (h *pageHandler) Resolve(c echo.Context) error {
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()

	resolution, err := h.pipeline.Resolve(ctx, req.Query)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if resolution.IsNew {
		status = http.StatusCreated
	}

	return c.JSON(status, resolution)
}

// GetPage handles GET /api/v1/pages/:id.
func (h *pageHandler) GetPage(c echo.Context) error {
	pageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid page id")
	}

	page, err := h.pageRepo.FindByID(c.Request().Context(), pageID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, page)
}

// GetByTopic handles GET /api/v1/pages/by-topic/:topic. This is the
// cached serving path: the fast tier is probed first, a store hit
// repopulates it, and every access lands in the hit-rate statistics.
func (h *pageHandler) GetByTopic(c echo.Context) error {
	topic := service.NormalizeTopic(c.Param("topic"))
	if topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid topic")
	}

	snapshot, err := h.cache.Get(c.Request().Context(), topic)
	if err != nil {
		return err
	}

	if snapshot == nil {
		return domain.ErrPageNotFound
	}

	return c.JSON(http.StatusOK, snapshot)
}

// GetScore handles GET /api/v1/pages/:id/score.
func (h *pageHandler) GetScore(c echo.Context) error {
	pageID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid page id")
	}

	record, err := h.scoreRepo.Find(c.Request().Context(), pageID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

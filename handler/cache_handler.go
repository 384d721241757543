package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"page-pipeline/service"

	"github.com/labstack/echo/v4"
)

// CacheHandler implementation.
type cacheHandler struct {
	cache            service.CacheService
	defaultWarmLimit int
	logger           *slog.Logger
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(cache service.CacheService, defaultWarmLimit int, logger *slog.Logger) CacheHandler {
	return &cacheHandler{
		cache:            cache,
		defaultWarmLimit: defaultWarmLimit,
		logger:           logger,
	}
}

// Stats handles GET /api/v1/cache/stats.
func (h *cacheHandler) Stats(c echo.Context) error {
	stats, err := h.cache.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

// Warm handles POST /api/v1/cache/warm. The limit query parameter
// overrides the configured default.
func (h *cacheHandler) Warm(c echo.Context) error {
	limit := h.defaultWarmLimit

	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}

		limit = parsed
	}

	warmed, err := h.cache.Warm(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]int{"warmed": warmed})
}

// Invalidate handles DELETE /api/v1/cache/:topic.
func (h *cacheHandler) Invalidate(c echo.Context) error {
	topic := service.NormalizeTopic(c.Param("topic"))
	if topic == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid topic")
	}

	if err := h.cache.Invalidate(c.Request().Context(), topic); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

package bootstrap

import (
	"net/http"

	appmiddleware "page-pipeline/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPServer creates and configures the Echo HTTP server.
func NewHTTPServer(deps *Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.HTTPErrorHandler = appmiddleware.CustomHTTPErrorHandler(deps.Logger)

	e.Use(appmiddleware.RequestIDMiddleware())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/v1/health" || path == "/metrics"
		},
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			deps.Logger.InfoContext(ctx, "HTTP request completed",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"error", v.Error,
			)

			return nil
		},
	}))

	e.GET("/v1/health", func(c echo.Context) error {
		if err := deps.HealthHandler.CheckHealth(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "unhealthy")
		}

		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "page-pipeline"})
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	v1 := e.Group("/api/v1")
	v1.POST("/pages/resolve", deps.PageHandler.Resolve)
	v1.GET("/pages/:id", deps.PageHandler.GetPage)
	v1.GET("/pages/by-topic/:topic", deps.PageHandler.GetByTopic)
	v1.GET("/pages/:id/score", deps.PageHandler.GetScore)
	v1.GET("/cache/stats", deps.CacheHandler.Stats)
	v1.POST("/cache/warm", deps.CacheHandler.Warm)
	v1.DELETE("/cache/:topic", deps.CacheHandler.Invalidate)
	v1.POST("/refresh/run", deps.RefreshHandler.RunBatch)
	v1.GET("/jobs/:name/status", deps.RefreshHandler.JobStatus)

	return e
}

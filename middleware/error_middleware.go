// ABOUTME: Centralized error handling middleware for the Echo server
// ABOUTME: Maps domain sentinel errors to HTTP statuses, hides internal details
package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"page-pipeline/domain"
	"page-pipeline/utils/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// CustomHTTPErrorHandler converts errors to consistent HTTP responses.
// Domain sentinels map to their natural statuses; anything unrecognized
// becomes a generic 500 so internals never leak to clients.
func CustomHTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		requestID := logger.RequestIDFrom(ctx)

		status, message := classify(err)

		if status >= 500 {
			log.ErrorContext(ctx, "request failed",
				"request_id", requestID,
				"status", status,
				"error", err,
			)
		} else {
			log.WarnContext(ctx, "request rejected",
				"request_id", requestID,
				"status", status,
				"error", err,
			)
		}

		if writeErr := c.JSON(status, errorResponse{Error: message}); writeErr != nil {
			log.ErrorContext(ctx, "failed to write error response", "error", writeErr)
		}
	}
}

func classify(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := "request failed"
		if m, ok := httpErr.Message.(string); ok && httpErr.Code < 500 {
			message = m
		}

		return httpErr.Code, message
	}

	switch {
	case errors.Is(err, domain.ErrInvalidTopic):
		return http.StatusBadRequest, domain.ErrInvalidTopic.Error()
	case errors.Is(err, domain.ErrPageNotFound):
		return http.StatusNotFound, domain.ErrPageNotFound.Error()
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, domain.ErrTaskNotFound.Error()
	case errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound, domain.ErrJobNotFound.Error()
	case errors.Is(err, domain.ErrGenerationFailed):
		return http.StatusBadGateway, domain.ErrGenerationFailed.Error()
	default:
		return http.StatusInternalServerError, "an unexpected error occurred"
	}
}

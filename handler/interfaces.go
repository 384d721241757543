package handler

import (
	"context"

	"github.com/labstack/echo/v4"
)

// PageHandler serves topic resolution and page read requests.
type PageHandler interface {
	Resolve(c echo.Context) error
	GetPage(c echo.Context) error
	GetByTopic(c echo.Context) error
	GetScore(c echo.Context) error
}

// CacheHandler serves the cache statistics and warm-up surface.
type CacheHandler interface {
	Stats(c echo.Context) error
	Warm(c echo.Context) error
	Invalidate(c echo.Context) error
}

// RefreshHandler serves batch refresh triggers and job status.
type RefreshHandler interface {
	RunBatch(c echo.Context) error
	JobStatus(c echo.Context) error
}

// HealthHandler checks service health.
type HealthHandler interface {
	CheckHealth(ctx context.Context) error
}

// JobScheduler manages background job scheduling.
type JobScheduler interface {
	Schedule(ctx context.Context, jobName string, interval string, jobFunc func() error) error
	Stop(jobName string) error
	StopAll() error
	GetJobStatus(jobName string) (JobStatus, error)
}

// JobStatus is the status of a scheduled job.
type JobStatus struct {
	LastRun    *string `json:"last_run,omitempty"`
	NextRun    *string `json:"next_run,omitempty"`
	LastError  error   `json:"-"`
	Name       string  `json:"name"`
	ErrorCount int     `json:"error_count"`
	IsRunning  bool    `json:"is_running"`
}

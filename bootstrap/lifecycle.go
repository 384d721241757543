package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"page-pipeline/utils/logger"

	"golang.org/x/sync/errgroup"
)

const refreshJobName = "page-refresh"

// Run is the main application entry point. It builds dependencies,
// starts the HTTP server and background jobs, then waits for a shutdown
// signal.
func Run(ctx context.Context) error {
	log := logger.New("page-pipeline")

	log.Info("starting page-pipeline service")

	deps, cleanup, err := BuildDependencies(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer cleanup()

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := startJobs(signalCtx, deps, log); err != nil {
		return fmt.Errorf("failed to start jobs: %w", err)
	}

	e := NewHTTPServer(deps)

	group, groupCtx := errgroup.WithContext(signalCtx)

	group.Go(func() error {
		addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
		log.Info("starting HTTP server", "addr", addr)

		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		log.Info("shutting down")

		if err := deps.JobScheduler.StopAll(); err != nil {
			log.Error("failed to stop jobs", "error", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
		defer cancel()

		return e.Shutdown(shutdownCtx)
	})

	log.Info("page-pipeline service started", "port", deps.Config.Server.Port)

	return group.Wait()
}

func startJobs(ctx context.Context, deps *Dependencies, log *slog.Logger) error {
	if deps.Config.Cache.WarmOnStart {
		warmed, err := deps.Cache.Warm(ctx, deps.Config.Cache.WarmLimit)
		if err != nil {
			// Warm-up is an optimization; a cold cache is not fatal.
			log.Warn("cache warm-up failed", "error", err)
		} else {
			log.Info("cache warmed", "entries", warmed)
		}
	}

	if !deps.Config.Refresh.JobEnabled {
		log.Info("refresh job disabled")
		return nil
	}

	interval := deps.Config.Refresh.JobInterval.String()

	return deps.JobScheduler.Schedule(ctx, refreshJobName, interval, func() error {
		result, err := deps.Scheduler.RunBatch(context.Background())
		if err != nil {
			return err
		}

		log.Info("scheduled refresh batch finished",
			"updated", result.Updated,
			"failed", result.Failed,
			"message", result.Message,
		)

		return nil
	})
}

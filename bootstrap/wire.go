package bootstrap

import (
	"context"
	"log/slog"

	"page-pipeline/config"
	"page-pipeline/driver"
	"page-pipeline/handler"
	"page-pipeline/metrics"
	"page-pipeline/repository"
	"page-pipeline/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config      *config.Config
	DBPool      *pgxpool.Pool
	RedisClient *redis.Client
	Logger      *slog.Logger

	Pipeline  service.PipelineService
	Scorer    service.QualityScorerService
	Cache     service.CacheService
	Scheduler service.RefreshSchedulerService

	PageHandler    handler.PageHandler
	CacheHandler   handler.CacheHandler
	RefreshHandler handler.RefreshHandler
	HealthHandler  handler.HealthHandler
	JobScheduler   handler.JobScheduler

	Registry *prometheus.Registry
}

// BuildDependencies constructs all application dependencies. Returns a
// cleanup function that should be deferred.
func BuildDependencies(ctx context.Context, log *slog.Logger) (*Dependencies, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	dbPool, err := driver.Init(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	var redisClient *redis.Client

	if cfg.Redis.Enabled {
		redisClient, err = driver.InitRedis(ctx, cfg, log)
		if err != nil {
			// The fast tier is optional; run without it.
			log.Warn("redis unavailable, cache fast tier disabled", "error", err)
			redisClient = nil
		}
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	pageRepo := repository.NewPageRepository(dbPool, log)
	snippetRepo := repository.NewSnippetRepository(dbPool, log)
	taskRepo := repository.NewTaskRepository(dbPool, log)
	scoreRepo := repository.NewScoreRepository(dbPool, log)
	cacheLogRepo := repository.NewCacheLogRepository(dbPool, log)
	fastCacheRepo := repository.NewFastCacheRepository(redisClient, log)
	apiRepo := repository.NewExternalAPIRepository(cfg, log)

	scorer := service.NewQualityScorerService(pageRepo, snippetRepo, scoreRepo, cfg.Scoring, log)
	cache := service.NewCacheService(fastCacheRepo, pageRepo, cacheLogRepo, collector, cfg.Cache, log)
	scheduler := service.NewRefreshSchedulerService(pageRepo, snippetRepo, taskRepo, apiRepo, collector, cfg.Refresh, log)
	pipeline := service.NewPipelineService(pageRepo, snippetRepo, taskRepo, apiRepo, scorer, cache, collector, *cfg, log)

	jobScheduler := handler.NewJobScheduler(log)

	deps := &Dependencies{
		Config:      cfg,
		DBPool:      dbPool,
		RedisClient: redisClient,
		Logger:      log,

		Pipeline:  pipeline,
		Scorer:    scorer,
		Cache:     cache,
		Scheduler: scheduler,

		PageHandler:    handler.NewPageHandler(pipeline, cache, pageRepo, scoreRepo, log),
		CacheHandler:   handler.NewCacheHandler(cache, cfg.Cache.WarmLimit, log),
		RefreshHandler: handler.NewRefreshHandler(scheduler, jobScheduler, log),
		HealthHandler:  handler.NewHealthHandler(dbPool, log),
		JobScheduler:   jobScheduler,

		Registry: registry,
	}

	cleanup := func() {
		dbPool.Close()

		if redisClient != nil {
			_ = redisClient.Close()
		}
	}

	return deps, cleanup, nil
}

package handler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"page-pipeline/domain"
)

// JobScheduler implementation. Drives the periodic refresh batch and any
// other named background jobs on fixed intervals.
type jobScheduler struct {
	jobs   map[string]*scheduledJob
	logger *slog.Logger
	mutex  sync.RWMutex
}

type scheduledJob struct {
	ctx        context.Context
	lastError  error
	jobFunc    func() error
	ticker     *time.Ticker
	cancel     context.CancelFunc
	lastRun    *time.Time
	nextRun    *time.Time
	name       string
	interval   time.Duration
	errorCount int
	isRunning  bool
}

// NewJobScheduler creates a new job scheduler.
func NewJobScheduler(logger *slog.Logger) JobScheduler {
	return &jobScheduler{
		jobs:   make(map[string]*scheduledJob),
		logger: logger,
	}
}

// Schedule registers a job to run at the given interval. Scheduling a
// name again replaces the existing job.
func (s *jobScheduler) Schedule(ctx context.Context, jobName string, intervalStr string, jobFunc func() error) error {
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return fmt.Errorf("failed to parse interval %s: %w", intervalStr, err)
	}

	s.logger.Info("scheduling job", "name", jobName, "interval", interval)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if existing, exists := s.jobs[jobName]; exists {
		s.stopJobLocked(existing)
	}

	jobCtx, cancel := context.WithCancel(ctx)
	job := &scheduledJob{
		name:     jobName,
		interval: interval,
		jobFunc:  jobFunc,
		ticker:   time.NewTicker(interval),
		ctx:      jobCtx,
		cancel:   cancel,
	}

	nextRun := time.Now().Add(interval)
	job.nextRun = &nextRun

	s.jobs[jobName] = job

	go s.runJob(job)

	return nil
}

// Stop cancels a specific job.
func (s *jobScheduler) Stop(jobName string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobName]
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobName)
	}

	s.stopJobLocked(job)
	delete(s.jobs, jobName)

	s.logger.Info("job stopped", "name", jobName)

	return nil
}

// StopAll cancels every scheduled job.
func (s *jobScheduler) StopAll() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for name, job := range s.jobs {
		s.stopJobLocked(job)
		s.logger.Info("job stopped", "name", name)
	}

	s.jobs = make(map[string]*scheduledJob)

	return nil
}

// GetJobStatus returns the status of a job.
func (s *jobScheduler) GetJobStatus(jobName string) (JobStatus, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	job, exists := s.jobs[jobName]
	if !exists {
		return JobStatus{}, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobName)
	}

	var lastRunStr, nextRunStr *string

	if job.lastRun != nil {
		str := job.lastRun.Format(time.RFC3339)
		lastRunStr = &str
	}

	if job.nextRun != nil {
		str := job.nextRun.Format(time.RFC3339)
		nextRunStr = &str
	}

	return JobStatus{
		Name:       job.name,
		IsRunning:  job.isRunning,
		LastRun:    lastRunStr,
		NextRun:    nextRunStr,
		ErrorCount: job.errorCount,
		LastError:  job.lastError,
	}, nil
}

// stopJobLocked stops a job (must be called with mutex locked).
func (s *jobScheduler) stopJobLocked(job *scheduledJob) {
	if job.ticker != nil {
		job.ticker.Stop()
	}

	if job.cancel != nil {
		job.cancel()
	}

	job.isRunning = false
}

func (s *jobScheduler) runJob(job *scheduledJob) {
	s.logger.Info("job loop started", "name", job.name)
	defer s.logger.Info("job loop ended", "name", job.name)

	for {
		select {
		case <-job.ctx.Done():
			return
		case <-job.ticker.C:
			s.executeJob(job)
		}
	}
}

func (s *jobScheduler) executeJob(job *scheduledJob) {
	s.mutex.Lock()
	job.isRunning = true
	s.mutex.Unlock()

	start := time.Now()
	err := job.jobFunc()

	s.mutex.Lock()
	job.isRunning = false
	job.lastRun = &start
	nextRun := time.Now().Add(job.interval)
	job.nextRun = &nextRun

	if err != nil {
		job.errorCount++
		job.lastError = err
		s.logger.Error("job execution failed", "name", job.name, "error", err, "error_count", job.errorCount)
	} else {
		s.logger.Info("job execution completed", "name", job.name, "duration", time.Since(start))
	}
	s.mutex.Unlock()
}

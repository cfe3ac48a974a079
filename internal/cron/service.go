package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/blazetaller/taller-backend/pkg/logger"
	"github.com/blazetaller/taller-backend/pkg/metrics"
)

const defaultInterval = time.Hour

// ServiceParams configure the maintenance loop.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.JobMetrics
	Interval time.Duration
}

// Service runs the registered jobs on a fixed cadence. Only the instance
// holding the lock runs a cycle; the others skip it.
type Service struct {
	ServiceParams
}

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	case params.Lock == nil:
		return nil, fmt.Errorf("lock required")
	}
	if params.Registry == nil {
		params.Registry = &Registry{}
	}
	if params.Interval <= 0 {
		params.Interval = defaultInterval
	}
	return &Service{ServiceParams: params}, nil
}

// Run executes one cycle immediately, then one per interval until ctx is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.runCycle(ctx); err != nil {
		s.Logger.Error(ctx, "maintenance cycle failed", err)
	}
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info(ctx, "maintenance loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				s.Logger.Error(ctx, "maintenance cycle failed", err)
			}
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	locked, err := s.Lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.Logger.Info(ctx, "another maintenance instance holds the lock; skipping cycle")
		return nil
	}
	defer func() {
		if relErr := s.Lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			s.Logger.Error(ctx, "failed to release maintenance lock", relErr)
		}
	}()

	for _, job := range s.Registry.Jobs() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.runJob(ctx, job)
	}
	return nil
}

// runJob isolates job failures so one broken job does not starve the rest.
func (s *Service) runJob(ctx context.Context, job Job) {
	jobCtx := s.Logger.WithFields(ctx, map[string]any{
		"job":   job.Name(),
		"event": "maintenance.job",
	})
	start := time.Now()
	affected, err := job.Run(jobCtx)
	duration := time.Since(start)
	s.Metrics.ObserveDuration(job.Name(), duration)
	jobCtx = s.Logger.WithFields(jobCtx, map[string]any{
		"duration_ms": duration.Milliseconds(),
		"affected":    affected,
	})
	if err != nil {
		s.Logger.Error(jobCtx, "job failed", err)
		s.Metrics.IncFailure(job.Name())
		return
	}
	s.Metrics.AddAffected(job.Name(), affected)
	s.Metrics.IncSuccess(job.Name())
	s.Logger.Info(jobCtx, "job completed")
}

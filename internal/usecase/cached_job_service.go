package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/splitgate/vidsplit/internal/domain/model"
	"github.com/splitgate/vidsplit/internal/infrastructure/cache"
	"github.com/splitgate/vidsplit/internal/infrastructure/metrics"
	"golang.org/x/sync/singleflight"
)

// CachedJobServiceConfig holds configuration for CachedJobService.
type CachedJobServiceConfig struct {
	// CacheTTL is the TTL for cached job records.
	CacheTTL time.Duration
}

// DefaultCachedJobServiceConfig returns the default configuration.
func DefaultCachedJobServiceConfig() CachedJobServiceConfig {
	return CachedJobServiceConfig{
		CacheTTL: 30 * time.Second,
	}
}

// cachedJobService wraps JobService with caching capabilities.
// It implements the decorator pattern to add caching without modifying the original service.
type cachedJobService struct {
	delegate JobService
	cache    cache.JobCache
	sfGroup  singleflight.Group

	cacheTTL time.Duration
}

// NewCachedJobService creates a new CachedJobService wrapping the provided JobService.
func NewCachedJobService(
	delegate JobService,
	jobCache cache.JobCache,
	cfg CachedJobServiceConfig,
) JobService {
	return &cachedJobService{
		delegate: delegate,
		cache:    jobCache,
		cacheTTL: cfg.CacheTTL,
	}
}

// RequestSplit invalidates the cache and delegates to the underlying service.
// Invalidation happens before enqueueing so stale status is not served while
// the job transitions to processing.
func (s *cachedJobService) RequestSplit(ctx context.Context, jobID string, cfg model.SplitConfig) (*model.Job, error) {
	if err := s.cache.Delete(ctx, jobID); err != nil {
		// Cache invalidation failure is non-critical
		slog.Warn("failed to invalidate cache on split request",
			"job_id", jobID,
			"error", err,
		)
	}

	return s.delegate.RequestSplit(ctx, jobID, cfg)
}

// GetJobStatus retrieves job state with caching.
// Uses singleflight to prevent cache stampede on concurrent polls for the same job.
func (s *cachedJobService) GetJobStatus(ctx context.Context, jobID string) (*model.Job, error) {
	result, err, shared := s.sfGroup.Do(jobID, func() (any, error) {
		return s.getJobWithCache(ctx, jobID)
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		return nil, err
	}

	return result.(*model.Job), nil
}

// getJobWithCache implements the cache-aside pattern.
func (s *cachedJobService) getJobWithCache(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.cache.Get(ctx, jobID)
	if err != nil {
		slog.Warn("cache get failed, falling back to database",
			"job_id", jobID,
			"error", err,
		)
	}

	if job != nil {
		return job, nil // Cache hit
	}

	job, err = s.delegate.GetJobStatus(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// Terminal jobs never change again, so they can live longer in cache.
	ttl := s.cacheTTL
	if job.IsTerminal() {
		ttl = 10 * s.cacheTTL
	}
	if err := s.cache.Set(ctx, job, ttl); err != nil {
		slog.Warn("failed to cache job",
			"job_id", jobID,
			"error", err,
		)
	}

	return job, nil
}

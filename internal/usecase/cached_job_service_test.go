package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/splitgate/vidsplit/internal/domain/model"
	"github.com/splitgate/vidsplit/internal/domain/repository"
)

func TestCachedJobService_GetJobStatus(t *testing.T) {
	t.Run("cache hit skips delegate", func(t *testing.T) {
		cached := queuedJob()
		cached.Status = model.StatusProcessing
		cached.Progress = 55

		jobCache := &mockJobCache{
			getFn: func(ctx context.Context, jobID string) (*model.Job, error) {
				return cached, nil
			},
		}
		delegate := &mockJobService{
			getJobStatusFn: func(ctx context.Context, jobID string) (*model.Job, error) {
				t.Error("delegate should not be called on cache hit")
				return nil, nil
			},
		}

		svc := NewCachedJobService(delegate, jobCache, DefaultCachedJobServiceConfig())
		job, err := svc.GetJobStatus(context.Background(), testJobID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.Progress != 55 {
			t.Errorf("expected progress 55, got %d", job.Progress)
		}
	})

	t.Run("cache miss populates cache", func(t *testing.T) {
		var setJob *model.Job
		var setTTL time.Duration

		jobCache := &mockJobCache{
			setFn: func(ctx context.Context, job *model.Job, ttl time.Duration) error {
				setJob = job
				setTTL = ttl
				return nil
			},
		}
		delegate := &mockJobService{
			getJobStatusFn: func(ctx context.Context, jobID string) (*model.Job, error) {
				return queuedJob(), nil
			},
		}

		cfg := DefaultCachedJobServiceConfig()
		svc := NewCachedJobService(delegate, jobCache, cfg)
		if _, err := svc.GetJobStatus(context.Background(), testJobID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if setJob == nil {
			t.Fatal("expected job to be cached")
		}
		if setTTL != cfg.CacheTTL {
			t.Errorf("expected ttl %v, got %v", cfg.CacheTTL, setTTL)
		}
	})

	t.Run("terminal job cached with longer ttl", func(t *testing.T) {
		var setTTL time.Duration
		jobCache := &mockJobCache{
			setFn: func(ctx context.Context, job *model.Job, ttl time.Duration) error {
				setTTL = ttl
				return nil
			},
		}
		delegate := &mockJobService{
			getJobStatusFn: func(ctx context.Context, jobID string) (*model.Job, error) {
				job := queuedJob()
				job.Status = model.StatusCompleted
				return job, nil
			},
		}

		cfg := DefaultCachedJobServiceConfig()
		svc := NewCachedJobService(delegate, jobCache, cfg)
		if _, err := svc.GetJobStatus(context.Background(), testJobID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if setTTL <= cfg.CacheTTL {
			t.Errorf("expected ttl above %v for terminal job, got %v", cfg.CacheTTL, setTTL)
		}
	})

	t.Run("cache error falls back to delegate", func(t *testing.T) {
		jobCache := &mockJobCache{
			getFn: func(ctx context.Context, jobID string) (*model.Job, error) {
				return nil, errors.New("redis down")
			},
		}
		delegate := &mockJobService{
			getJobStatusFn: func(ctx context.Context, jobID string) (*model.Job, error) {
				return queuedJob(), nil
			},
		}

		svc := NewCachedJobService(delegate, jobCache, DefaultCachedJobServiceConfig())
		job, err := svc.GetJobStatus(context.Background(), testJobID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job == nil {
			t.Fatal("expected job from delegate")
		}
	})

	t.Run("delegate error propagates", func(t *testing.T) {
		delegate := &mockJobService{
			getJobStatusFn: func(ctx context.Context, jobID string) (*model.Job, error) {
				return nil, repository.ErrJobNotFound
			},
		}

		svc := NewCachedJobService(delegate, &mockJobCache{}, DefaultCachedJobServiceConfig())
		if _, err := svc.GetJobStatus(context.Background(), testJobID); !errors.Is(err, repository.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound, got %v", err)
		}
	})
}

func TestCachedJobService_RequestSplit(t *testing.T) {
	validConfig := model.SplitConfig{
		Method:           model.SplitMethodIntervals,
		IntervalDuration: 300,
	}

	t.Run("invalidates cache before delegating", func(t *testing.T) {
		var deleted bool
		var delegated bool

		jobCache := &mockJobCache{
			deleteFn: func(ctx context.Context, jobID string) error {
				if delegated {
					t.Error("cache must be invalidated before delegating")
				}
				deleted = true
				return nil
			},
		}
		delegate := &mockJobService{
			requestSplitFn: func(ctx context.Context, jobID string, cfg model.SplitConfig) (*model.Job, error) {
				delegated = true
				return queuedJob(), nil
			},
		}

		svc := NewCachedJobService(delegate, jobCache, DefaultCachedJobServiceConfig())
		if _, err := svc.RequestSplit(context.Background(), testJobID, validConfig); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !deleted {
			t.Error("expected cache delete")
		}
		if !delegated {
			t.Error("expected delegate call")
		}
	})

	t.Run("invalidation failure does not block request", func(t *testing.T) {
		jobCache := &mockJobCache{
			deleteFn: func(ctx context.Context, jobID string) error {
				return errors.New("redis down")
			},
		}
		delegate := &mockJobService{
			requestSplitFn: func(ctx context.Context, jobID string, cfg model.SplitConfig) (*model.Job, error) {
				return queuedJob(), nil
			},
		}

		svc := NewCachedJobService(delegate, jobCache, DefaultCachedJobServiceConfig())
		if _, err := svc.RequestSplit(context.Background(), testJobID, validConfig); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

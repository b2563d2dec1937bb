package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/splitgate/vidsplit/internal/domain/model"
	"github.com/splitgate/vidsplit/internal/domain/repository"
)

// ErrJobAlreadyFinished is returned when a split is requested for a job
// that has already reached a terminal status.
var ErrJobAlreadyFinished = errors.New("job already finished")

// JobService defines the interface for split-job lifecycle operations.
type JobService interface {
	// RequestSplit validates the config, attaches it to the job, and
	// enqueues a split task. Requeuing an in-flight job is a no-op that
	// returns the current job state.
	RequestSplit(ctx context.Context, jobID string, cfg model.SplitConfig) (*model.Job, error)

	// GetJobStatus returns the current state of a job.
	GetJobStatus(ctx context.Context, jobID string) (*model.Job, error)
}

type jobService struct {
	repo  repository.JobRepository
	queue repository.MessageQueue
}

// NewJobService creates a new JobService instance.
func NewJobService(repo repository.JobRepository, queue repository.MessageQueue) JobService {
	return &jobService{
		repo:  repo,
		queue: queue,
	}
}

func (s *jobService) RequestSplit(ctx context.Context, jobID string, cfg model.SplitConfig) (*model.Job, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	if job.IsTerminal() {
		return nil, ErrJobAlreadyFinished
	}
	if job.Status == model.StatusProcessing {
		slog.Info("split already in flight, skipping enqueue", "job_id", jobID)
		return job, nil
	}

	job.Config = &cfg
	if err := s.repo.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}

	task := repository.SplitTask{
		JobID:        job.ID,
		SourceKey:    job.SourceKey,
		OutputPrefix: job.OutputPrefix,
		Config:       cfg,
	}
	if err := s.queue.PublishSplitTask(ctx, task); err != nil {
		return nil, fmt.Errorf("publish split task: %w", err)
	}

	slog.Info("split task enqueued",
		"job_id", job.ID,
		"method", cfg.Method,
	)

	return job, nil
}

func (s *jobService) GetJobStatus(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/splitgate/vidsplit/internal/domain/model"
	"github.com/splitgate/vidsplit/internal/domain/repository"
	"github.com/splitgate/vidsplit/internal/infrastructure/cache"
	"github.com/splitgate/vidsplit/internal/infrastructure/metrics"
	"github.com/splitgate/vidsplit/internal/splitter"
)

const (
	// DefaultMaxRetries is the default maximum number of retry attempts before marking a job as failed.
	DefaultMaxRetries = 3

	// progressAfterDownload is the progress reported once the source file
	// is on local disk; the remaining span is spread across part uploads.
	progressAfterDownload = 10
)

// SplitWorkerServiceConfig holds configuration for SplitWorkerService.
type SplitWorkerServiceConfig struct {
	// TempDir is the base directory for temporary files during splitting.
	TempDir string
	// MaxRetries is the maximum number of retry attempts before marking the job as failed.
	MaxRetries int
}

// DefaultSplitWorkerServiceConfig returns the default configuration.
func DefaultSplitWorkerServiceConfig() SplitWorkerServiceConfig {
	return SplitWorkerServiceConfig{
		TempDir:    os.TempDir(),
		MaxRetries: DefaultMaxRetries,
	}
}

// SplitWorkerService defines the interface for processing split tasks.
type SplitWorkerService interface {
	// ProcessTask handles a split task from the message queue.
	// Returns nil on success or permanent failure (max retries exceeded).
	// Returns error for transient failures that should trigger a retry.
	ProcessTask(ctx context.Context, task repository.SplitTask) error
}

type splitWorkerService struct {
	repo     repository.JobRepository
	storage  repository.ObjectStorage
	splitter splitter.Splitter
	cache    cache.JobCache

	tempDir    string
	maxRetries int
}

// NewSplitWorkerService creates a new SplitWorkerService instance.
func NewSplitWorkerService(
	repo repository.JobRepository,
	storage repository.ObjectStorage,
	sp splitter.Splitter,
	jobCache cache.JobCache,
	cfg SplitWorkerServiceConfig,
) SplitWorkerService {
	return &splitWorkerService{
		repo:       repo,
		storage:    storage,
		splitter:   sp,
		cache:      jobCache,
		tempDir:    cfg.TempDir,
		maxRetries: cfg.MaxRetries,
	}
}

// ProcessTask downloads the source video, cuts it into parts, uploads the
// parts under the job's output prefix, and records the terminal status.
func (s *splitWorkerService) ProcessTask(ctx context.Context, task repository.SplitTask) error {
	// Max retries exceeded - mark as failed and return nil (ack the message)
	if task.RetryCount >= s.maxRetries {
		reason := fmt.Sprintf("split failed after %d attempts", task.RetryCount)
		if err := s.markJobFailed(ctx, task.JobID, reason); err != nil {
			slog.Error("failed to mark job as failed",
				"job_id", task.JobID,
				"retry_count", task.RetryCount,
				"error", err,
			)
			// Still return nil to ack the message
		}
		metrics.SplitJobsTotal.WithLabelValues(metrics.SplitOutcomeFailed).Inc()
		return nil
	}

	started := time.Now()
	if err := s.process(ctx, task); err != nil {
		metrics.SplitJobsTotal.WithLabelValues(metrics.SplitOutcomeRetried).Inc()
		return err
	}

	metrics.SplitDurationSeconds.Observe(time.Since(started).Seconds())
	metrics.SplitJobsTotal.WithLabelValues(metrics.SplitOutcomeCompleted).Inc()
	return nil
}

func (s *splitWorkerService) process(ctx context.Context, task repository.SplitTask) error {
	job, err := s.markJobProcessing(ctx, task.JobID)
	if err != nil {
		return fmt.Errorf("mark job processing: %w", err)
	}
	if job == nil {
		// Already finished, nothing to do
		return nil
	}

	workDir, err := s.createWorkDir(task.JobID)
	if err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}
	defer s.cleanup(workDir)

	inputPath, err := s.downloadSource(ctx, task.SourceKey, workDir)
	if err != nil {
		return fmt.Errorf("download source: %w", err)
	}
	s.reportProgress(ctx, task.JobID, progressAfterDownload)

	outputDir := filepath.Join(workDir, "parts")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	parts, err := s.splitter.Split(ctx, inputPath, outputDir, baseName, task.Config)
	if err != nil {
		return fmt.Errorf("split: %w", err)
	}

	splits, err := s.uploadParts(ctx, task, parts)
	if err != nil {
		return fmt.Errorf("upload parts: %w", err)
	}

	if err := s.markJobCompleted(ctx, task.JobID, splits); err != nil {
		return fmt.Errorf("mark job completed: %w", err)
	}

	slog.Info("split task completed",
		"job_id", task.JobID,
		"parts", len(splits),
	)
	return nil
}

// createWorkDir creates a temporary directory for processing a specific job.
func (s *splitWorkerService) createWorkDir(jobID string) (string, error) {
	workDir := filepath.Join(s.tempDir, "vidsplit", jobID)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	return workDir, nil
}

// cleanup removes the temporary working directory.
func (s *splitWorkerService) cleanup(workDir string) {
	_ = os.RemoveAll(workDir)
}

// downloadSource downloads the uploaded video from object storage to a local file.
func (s *splitWorkerService) downloadSource(ctx context.Context, key, workDir string) (string, error) {
	reader, err := s.storage.Download(ctx, key)
	if err != nil {
		return "", fmt.Errorf("storage download: %w", err)
	}
	defer func() { _ = reader.Close() }()

	filename := filepath.Base(key)
	if filename == "." || filename == "/" {
		filename = "source.mp4"
	}

	localPath := filepath.Join(workDir, filename)
	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create local file: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("copy to local file: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close local file: %w", err)
	}

	return localPath, nil
}

// uploadParts uploads the produced part files under the job's output prefix
// and reports progress after each part.
func (s *splitWorkerService) uploadParts(ctx context.Context, task repository.SplitTask, parts []splitter.Part) ([]model.SplitResult, error) {
	splits := make([]model.SplitResult, 0, len(parts))
	for i, part := range parts {
		filename := filepath.Base(part.Path)
		key := task.OutputPrefix + filename

		size, err := s.uploadFile(ctx, part.Path, key, contentTypeForFile(filename))
		if err != nil {
			return nil, fmt.Errorf("upload part %s: %w", filename, err)
		}

		splits = append(splits, model.SplitResult{
			File:     filename,
			Key:      key,
			Duration: part.Duration,
			Size:     size,
		})

		progress := progressAfterDownload + (i+1)*(100-progressAfterDownload)/len(parts)
		s.reportProgress(ctx, task.JobID, progress)
	}
	return splits, nil
}

// uploadFile uploads a single file to object storage and returns its size.
func (s *splitWorkerService) uploadFile(ctx context.Context, localPath, key, contentType string) (int64, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat file: %w", err)
	}

	if err := s.storage.Upload(ctx, key, file, contentType); err != nil {
		return 0, fmt.Errorf("storage upload: %w", err)
	}

	return info.Size(), nil
}

// reportProgress persists a progress tick. Failures are logged and
// swallowed; progress is advisory and the database guards monotonicity.
func (s *splitWorkerService) reportProgress(ctx context.Context, jobID string, progress int) {
	if progress > 100 {
		progress = 100
	}
	if err := s.repo.UpdateProgress(ctx, jobID, model.StatusProcessing, progress); err != nil {
		slog.Warn("failed to update progress",
			"job_id", jobID,
			"progress", progress,
			"error", err,
		)
	}
}

// markJobProcessing transitions a queued job to processing.
// Returns nil job when the task has already reached a terminal status.
func (s *splitWorkerService) markJobProcessing(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	if job.IsTerminal() {
		slog.Info("skipping task for finished job",
			"job_id", jobID,
			"status", job.Status,
		)
		return nil, nil
	}

	if job.Status == model.StatusQueued {
		if err := job.TransitionTo(model.StatusProcessing); err != nil {
			return nil, fmt.Errorf("transition to processing: %w", err)
		}
		if err := s.repo.Update(ctx, job); err != nil {
			return nil, fmt.Errorf("update job: %w", err)
		}
		s.invalidateCache(ctx, jobID)
	}

	return job, nil
}

// markJobCompleted records the split results and the terminal status.
func (s *splitWorkerService) markJobCompleted(ctx context.Context, jobID string, splits []model.SplitResult) error {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}

	if job.Status != model.StatusProcessing {
		// Job is not in the expected state - log but don't fail
		slog.Warn("job not in processing state at completion",
			"job_id", jobID,
			"status", job.Status,
		)
		return nil
	}

	if err := job.Complete(splits); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	s.invalidateCache(ctx, jobID)

	return nil
}

// markJobFailed records the terminal failed status.
func (s *splitWorkerService) markJobFailed(ctx context.Context, jobID, reason string) error {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}

	if job.IsTerminal() {
		return nil
	}

	// A job that never left the queue has to pass through processing
	// before it can fail.
	if job.Status == model.StatusQueued {
		if err := job.TransitionTo(model.StatusProcessing); err != nil {
			return fmt.Errorf("transition to processing: %w", err)
		}
	}

	if err := job.Fail(reason); err != nil {
		return fmt.Errorf("fail job: %w", err)
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	s.invalidateCache(ctx, jobID)

	return nil
}

// invalidateCache drops the cached job so status polls observe the new state.
func (s *splitWorkerService) invalidateCache(ctx context.Context, jobID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, jobID); err != nil {
		slog.Warn("failed to invalidate job cache",
			"job_id", jobID,
			"error", err,
		)
	}
}

// contentTypeForFile maps a part filename to its MIME type.
func contentTypeForFile(filename string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "mp4":
		return "video/mp4"
	case "mkv":
		return "video/x-matroska"
	case "webm":
		return "video/webm"
	case "mov":
		return "video/quicktime"
	case "avi":
		return "video/x-msvideo"
	default:
		return "application/octet-stream"
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/splitgate/vidsplit/internal/domain/model"
	"github.com/splitgate/vidsplit/internal/domain/repository"
)

// uploadCeilingSlack is added to the client-declared file size when
// constraining the presigned POST policy, leaving room for multipart
// form overhead and imprecise size reporting.
const uploadCeilingSlack = 1_000_000

// CreateUploadInput contains the parameters for starting an upload.
type CreateUploadInput struct {
	Filename string
	FileType string
	FileSize int64
}

// CreateUploadOutput contains the result of starting an upload.
type CreateUploadOutput struct {
	Job        *model.Job
	UploadURL  string
	UploadPost *repository.PresignedPost
	Bucket     string
}

// VideoInfoOutput contains the resolved object and its estimated metadata.
type VideoInfoOutput struct {
	JobID    string
	VideoKey string
	Metadata model.MediaMetadata
}

// VideoService defines the interface for upload and playback operations.
type VideoService interface {
	// CreateUpload mints a job and returns presigned upload credentials.
	CreateUpload(ctx context.Context, input CreateUploadInput) (*CreateUploadOutput, error)

	// GetVideoInfo resolves a job's uploaded object and estimates its metadata.
	// Returns repository.ErrObjectNotFound if nothing has been uploaded.
	GetVideoInfo(ctx context.Context, jobID string) (*VideoInfoOutput, error)

	// GetStreamURL returns a presigned GET URL for the job's uploaded object.
	// Returns repository.ErrObjectNotFound if nothing has been uploaded.
	GetStreamURL(ctx context.Context, jobID string) (string, error)

	// GetDownloadURL returns a presigned GET URL for one produced split part.
	GetDownloadURL(ctx context.Context, jobID, filename string) (string, error)
}

// VideoServiceConfig holds configuration for VideoService.
type VideoServiceConfig struct {
	PresignExpiry time.Duration
}

// DefaultVideoServiceConfig returns the default configuration.
func DefaultVideoServiceConfig() VideoServiceConfig {
	return VideoServiceConfig{
		PresignExpiry: time.Hour,
	}
}

type videoService struct {
	repo    repository.JobRepository
	storage repository.ObjectStorage

	presignExpiry time.Duration
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(
	repo repository.JobRepository,
	storage repository.ObjectStorage,
	cfg VideoServiceConfig,
) VideoService {
	return &videoService{
		repo:          repo,
		storage:       storage,
		presignExpiry: cfg.PresignExpiry,
	}
}

// CreateUpload mints a fresh job, persists it, and issues both a
// presigned PUT URL and a presigned POST policy scoped to the job's key.
func (s *videoService) CreateUpload(ctx context.Context, input CreateUploadInput) (*CreateUploadOutput, error) {
	job, err := model.NewJob(input.Filename, input.FileType)
	if err != nil {
		return nil, err
	}

	uploadURL, err := s.storage.GeneratePresignedUploadURL(ctx, job.SourceKey, s.presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("generate presigned upload URL: %w", err)
	}

	uploadPost, err := s.storage.GeneratePresignedPost(
		ctx,
		job.SourceKey,
		input.FileType,
		1,
		input.FileSize+uploadCeilingSlack,
		s.presignExpiry,
	)
	if err != nil {
		return nil, fmt.Errorf("generate presigned post policy: %w", err)
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	return &CreateUploadOutput{
		Job:        job,
		UploadURL:  uploadURL,
		UploadPost: uploadPost,
		Bucket:     s.storage.Bucket(),
	}, nil
}

// GetVideoInfo resolves the uploaded object and runs the metadata estimator.
// The object size is read via a head query; on failure the size collapses
// to zero, which the estimator maps to its five-minute default.
func (s *videoService) GetVideoInfo(ctx context.Context, jobID string) (*VideoInfoOutput, error) {
	key, err := s.resolveSourceKey(ctx, jobID)
	if err != nil {
		return nil, err
	}

	var size int64
	if info, err := s.storage.Stat(ctx, key); err != nil {
		slog.Warn("stat failed, estimating metadata from zero size",
			"job_id", jobID,
			"key", key,
			"error", err,
		)
	} else {
		size = info.Size
	}

	return &VideoInfoOutput{
		JobID:    jobID,
		VideoKey: key,
		Metadata: model.EstimateMetadata(path.Base(key), size),
	}, nil
}

// GetStreamURL resolves the uploaded object and presigns a GET URL.
// The URL is returned as data, not a redirect, so browser <video>
// elements can be pointed at it directly by the client.
func (s *videoService) GetStreamURL(ctx context.Context, jobID string) (string, error) {
	key, err := s.resolveSourceKey(ctx, jobID)
	if err != nil {
		return "", err
	}

	streamURL, err := s.storage.GeneratePresignedDownloadURL(ctx, key, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("generate presigned stream URL: %w", err)
	}

	return streamURL, nil
}

// GetDownloadURL presigns a GET URL for a produced split part.
func (s *videoService) GetDownloadURL(ctx context.Context, jobID, filename string) (string, error) {
	key := path.Join("outputs", jobID, filename)

	downloadURL, err := s.storage.GeneratePresignedDownloadURL(ctx, key, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("generate presigned download URL: %w", err)
	}

	return downloadURL, nil
}

// resolveSourceKey finds the object holding a job's uploaded video.
// The job record is authoritative when it exists and its object has
// been uploaded; prefix listing remains as a fallback for objects
// placed out-of-band, where the first key in lexical order is taken.
func (s *videoService) resolveSourceKey(ctx context.Context, jobID string) (string, error) {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil && !errors.Is(err, repository.ErrJobNotFound) {
		return "", fmt.Errorf("get job: %w", err)
	}

	if job != nil {
		exists, err := s.storage.Exists(ctx, job.SourceKey)
		if err != nil {
			return "", fmt.Errorf("check source object: %w", err)
		}
		if exists {
			return job.SourceKey, nil
		}
	}

	objects, err := s.storage.ListByPrefix(ctx, "videos/"+jobID+"/")
	if err != nil {
		return "", fmt.Errorf("list job objects: %w", err)
	}
	if len(objects) == 0 {
		return "", repository.ErrObjectNotFound
	}

	return objects[0].Key, nil
}

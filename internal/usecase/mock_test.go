package usecase

import (
	"context"
	"io"
	"time"

	"github.com/splitgate/vidsplit/internal/domain/model"
	"github.com/splitgate/vidsplit/internal/domain/repository"
	"github.com/splitgate/vidsplit/internal/splitter"
)

// mockJobRepository provides a configurable mock for JobRepository.
type mockJobRepository struct {
	createFn         func(ctx context.Context, job *model.Job) error
	getByIDFn        func(ctx context.Context, id string) (*model.Job, error)
	updateFn         func(ctx context.Context, job *model.Job) error
	updateProgressFn func(ctx context.Context, id string, status model.Status, progress int) error
}

func (m *mockJobRepository) Create(ctx context.Context, job *model.Job) error {
	if m.createFn != nil {
		return m.createFn(ctx, job)
	}
	return nil
}

func (m *mockJobRepository) GetByID(ctx context.Context, id string) (*model.Job, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrJobNotFound
}

func (m *mockJobRepository) Update(ctx context.Context, job *model.Job) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, job)
	}
	return nil
}

func (m *mockJobRepository) UpdateProgress(ctx context.Context, id string, status model.Status, progress int) error {
	if m.updateProgressFn != nil {
		return m.updateProgressFn(ctx, id, status, progress)
	}
	return nil
}

// mockObjectStorage provides a configurable mock for ObjectStorage.
type mockObjectStorage struct {
	generatePresignedUploadURLFn   func(ctx context.Context, key string, expiry time.Duration) (string, error)
	generatePresignedPostFn        func(ctx context.Context, key, contentType string, minSize, maxSize int64, expiry time.Duration) (*repository.PresignedPost, error)
	generatePresignedDownloadURLFn func(ctx context.Context, key string, expiry time.Duration) (string, error)
	listByPrefixFn                 func(ctx context.Context, prefix string) ([]repository.ObjectInfo, error)
	statFn                         func(ctx context.Context, key string) (*repository.ObjectInfo, error)
	uploadFn                       func(ctx context.Context, key string, reader io.Reader, contentType string) error
	downloadFn                     func(ctx context.Context, key string) (io.ReadCloser, error)
	deleteFn                       func(ctx context.Context, key string) error
	existsFn                       func(ctx context.Context, key string) (bool, error)
}

func (m *mockObjectStorage) GeneratePresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedUploadURLFn != nil {
		return m.generatePresignedUploadURLFn(ctx, key, expiry)
	}
	return "http://example.com/upload", nil
}

func (m *mockObjectStorage) GeneratePresignedPost(ctx context.Context, key, contentType string, minSize, maxSize int64, expiry time.Duration) (*repository.PresignedPost, error) {
	if m.generatePresignedPostFn != nil {
		return m.generatePresignedPostFn(ctx, key, contentType, minSize, maxSize, expiry)
	}
	return &repository.PresignedPost{
		URL:    "http://example.com/bucket",
		Fields: map[string]string{"key": key},
	}, nil
}

func (m *mockObjectStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if m.generatePresignedDownloadURLFn != nil {
		return m.generatePresignedDownloadURLFn(ctx, key, expiry)
	}
	return "http://example.com/download", nil
}

func (m *mockObjectStorage) ListByPrefix(ctx context.Context, prefix string) ([]repository.ObjectInfo, error) {
	if m.listByPrefixFn != nil {
		return m.listByPrefixFn(ctx, prefix)
	}
	return nil, nil
}

func (m *mockObjectStorage) Stat(ctx context.Context, key string) (*repository.ObjectInfo, error) {
	if m.statFn != nil {
		return m.statFn(ctx, key)
	}
	return nil, repository.ErrObjectNotFound
}

func (m *mockObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, reader, contentType)
	}
	return nil
}

func (m *mockObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, key)
	}
	return nil, nil
}

func (m *mockObjectStorage) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockObjectStorage) Bucket() string {
	return "video-splitter"
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	publishSplitTaskFn  func(ctx context.Context, task repository.SplitTask) error
	consumeSplitTasksFn func(ctx context.Context, handler func(task repository.SplitTask) error) error
}

func (m *mockMessageQueue) PublishSplitTask(ctx context.Context, task repository.SplitTask) error {
	if m.publishSplitTaskFn != nil {
		return m.publishSplitTaskFn(ctx, task)
	}
	return nil
}

func (m *mockMessageQueue) ConsumeSplitTasks(ctx context.Context, handler func(task repository.SplitTask) error) error {
	if m.consumeSplitTasksFn != nil {
		return m.consumeSplitTasksFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) Close() error {
	return nil
}

// mockSplitter provides a configurable mock for Splitter.
type mockSplitter struct {
	splitFn func(ctx context.Context, inputPath, outputDir, baseName string, cfg model.SplitConfig) ([]splitter.Part, error)
}

func (m *mockSplitter) Split(ctx context.Context, inputPath, outputDir, baseName string, cfg model.SplitConfig) ([]splitter.Part, error) {
	if m.splitFn != nil {
		return m.splitFn(ctx, inputPath, outputDir, baseName, cfg)
	}
	return nil, nil
}

// mockJobCache provides a configurable mock for JobCache.
type mockJobCache struct {
	getFn    func(ctx context.Context, jobID string) (*model.Job, error)
	setFn    func(ctx context.Context, job *model.Job, ttl time.Duration) error
	deleteFn func(ctx context.Context, jobID string) error
}

func (m *mockJobCache) Get(ctx context.Context, jobID string) (*model.Job, error) {
	if m.getFn != nil {
		return m.getFn(ctx, jobID)
	}
	return nil, nil
}

func (m *mockJobCache) Set(ctx context.Context, job *model.Job, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, job, ttl)
	}
	return nil
}

func (m *mockJobCache) Delete(ctx context.Context, jobID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, jobID)
	}
	return nil
}

// mockJobService provides a configurable mock for JobService.
type mockJobService struct {
	requestSplitFn func(ctx context.Context, jobID string, cfg model.SplitConfig) (*model.Job, error)
	getJobStatusFn func(ctx context.Context, jobID string) (*model.Job, error)
}

func (m *mockJobService) RequestSplit(ctx context.Context, jobID string, cfg model.SplitConfig) (*model.Job, error) {
	if m.requestSplitFn != nil {
		return m.requestSplitFn(ctx, jobID, cfg)
	}
	return nil, nil
}

func (m *mockJobService) GetJobStatus(ctx context.Context, jobID string) (*model.Job, error) {
	if m.getJobStatusFn != nil {
		return m.getJobStatusFn(ctx, jobID)
	}
	return nil, nil
}

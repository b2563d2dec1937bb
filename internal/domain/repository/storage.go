package repository

import (
	"context"
	"io"
	"time"
)

// PresignedPost is a presigned POST policy: the form endpoint plus the
// fields a client must include in a multipart upload.
type PresignedPost struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// ObjectStorage defines the interface for object storage operations.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type ObjectStorage interface {
	// GeneratePresignedUploadURL creates a presigned PUT URL for direct client upload.
	// The URL is valid for the specified duration.
	// key is the object path within the bucket (e.g., "videos/{job_id}/original.mp4").
	GeneratePresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// GeneratePresignedPost creates a presigned POST policy for browser form
	// uploads, constrained to [minSize, maxSize] bytes.
	GeneratePresignedPost(ctx context.Context, key, contentType string, minSize, maxSize int64, expiry time.Duration) (*PresignedPost, error)

	// GeneratePresignedDownloadURL creates a presigned GET URL for downloading an object.
	// The URL is valid for the specified duration.
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// ListByPrefix returns the objects whose keys start with prefix,
	// in lexical key order.
	ListByPrefix(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Stat returns metadata for a single object.
	// Returns ErrObjectNotFound if the object does not exist.
	Stat(ctx context.Context, key string) (*ObjectInfo, error)

	// Upload stores an object in the storage.
	// This is used by the worker service for uploading split parts.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Download retrieves an object from the storage.
	// Caller is responsible for closing the returned ReadCloser.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object from the storage.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists in the storage.
	Exists(ctx context.Context, key string) (bool, error)

	// Bucket returns the configured bucket name.
	Bucket() string
}

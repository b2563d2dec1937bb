package repository

import (
	"context"

	"github.com/splitgate/vidsplit/internal/domain/model"
)

// JobRepository defines the interface for job persistence operations.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
// Successive requests for the same job id may be served by different
// processes, so job state must never live in process memory.
type JobRepository interface {
	// Create persists a new job record.
	// Returns ErrDuplicateJob if the job id already exists.
	Create(ctx context.Context, job *model.Job) error

	// GetByID retrieves a job by its identifier.
	// Returns nil and ErrJobNotFound if the job does not exist.
	GetByID(ctx context.Context, id string) (*model.Job, error)

	// Update persists changes to an existing job record.
	// Returns ErrJobNotFound if the job does not exist.
	Update(ctx context.Context, job *model.Job) error

	// UpdateProgress updates only the status and progress fields.
	// This is optimized for worker progress ticks without a full entity write.
	// Returns ErrJobNotFound if the job does not exist.
	UpdateProgress(ctx context.Context, id string, status model.Status, progress int) error
}

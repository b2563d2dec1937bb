package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/splitgate/vidsplit/internal/domain/model"
	"github.com/splitgate/vidsplit/internal/domain/repository"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// JobRepository implements repository.JobRepository using PostgreSQL.
type JobRepository struct {
	db DBTX
}

// Compile-time verification that JobRepository implements repository.JobRepository.
var _ repository.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new JobRepository instance.
func NewJobRepository(db DBTX) *JobRepository {
	return &JobRepository{db: db}
}

// Create persists a new job record.
func (r *JobRepository) Create(ctx context.Context, job *model.Job) error {
	const query = `
		INSERT INTO jobs (id, status, progress, source_key, output_prefix, content_type, config, splits, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	config, splits, err := marshalJobJSON(job)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query,
		job.ID,
		job.Status.String(),
		job.Progress,
		job.SourceKey,
		job.OutputPrefix,
		job.ContentType,
		config,
		splits,
		nullString(job.Error),
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return repository.ErrDuplicateJob
		}
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetByID retrieves a job by its identifier.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*model.Job, error) {
	const query = `
		SELECT id, status, progress, source_key, output_prefix, content_type, config, splits, error, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`

	job, err := r.scanJob(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}

	return job, nil
}

// Update persists changes to an existing job record.
func (r *JobRepository) Update(ctx context.Context, job *model.Job) error {
	const query = `
		UPDATE jobs
		SET status = $2, progress = $3, config = $4, splits = $5, error = $6, updated_at = $7
		WHERE id = $1
	`

	config, splits, err := marshalJobJSON(job)
	if err != nil {
		return err
	}

	job.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		job.ID,
		job.Status.String(),
		job.Progress,
		config,
		splits,
		nullString(job.Error),
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrJobNotFound
	}

	return nil
}

// UpdateProgress updates only the status and progress fields of a job.
// Progress never moves backwards: the guard is enforced in SQL so
// concurrent workers cannot regress a record.
func (r *JobRepository) UpdateProgress(ctx context.Context, id string, status model.Status, progress int) error {
	const query = `
		UPDATE jobs
		SET status = $2, progress = GREATEST(progress, $3), updated_at = $4
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, status.String(), progress, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update job progress: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrJobNotFound
	}

	return nil
}

// scanJob scans a single row into a Job model.
func (r *JobRepository) scanJob(row pgx.Row) (*model.Job, error) {
	var (
		job    model.Job
		status string
		config []byte
		splits []byte
		jobErr *string
	)

	err := row.Scan(
		&job.ID,
		&status,
		&job.Progress,
		&job.SourceKey,
		&job.OutputPrefix,
		&job.ContentType,
		&config,
		&splits,
		&jobErr,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Status = model.Status(status)
	if jobErr != nil {
		job.Error = *jobErr
	}
	if len(config) > 0 {
		var cfg model.SplitConfig
		if err := json.Unmarshal(config, &cfg); err != nil {
			return nil, fmt.Errorf("failed to decode job config: %w", err)
		}
		job.Config = &cfg
	}
	if len(splits) > 0 {
		if err := json.Unmarshal(splits, &job.Splits); err != nil {
			return nil, fmt.Errorf("failed to decode job splits: %w", err)
		}
	}

	return &job, nil
}

// marshalJobJSON encodes the config and splits columns. Either may be nil.
func marshalJobJSON(job *model.Job) (config, splits []byte, err error) {
	if job.Config != nil {
		config, err = json.Marshal(job.Config)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode job config: %w", err)
		}
	}
	if job.Splits != nil {
		splits, err = json.Marshal(job.Splits)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode job splits: %w", err)
		}
	}
	return config, splits, nil
}

// nullString returns nil for empty strings, otherwise returns a pointer to the string.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

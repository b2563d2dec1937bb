package repository

import (
	"context"

	"github.com/splitgate/vidsplit/internal/domain/model"
)

// SplitTask represents a video split job message.
type SplitTask struct {
	JobID        string            `json:"job_id"`
	SourceKey    string            `json:"source_key"`
	OutputPrefix string            `json:"output_prefix"`
	Config       model.SplitConfig `json:"config"`
	RetryCount   int               `json:"retry_count"`
}

// MessageQueue defines the interface for message queue operations.
// Implementations should be provided by the infrastructure layer (e.g., RabbitMQ).
type MessageQueue interface {
	// PublishSplitTask sends a split task to the queue.
	// Used by the API server to trigger async video splitting.
	PublishSplitTask(ctx context.Context, task SplitTask) error

	// ConsumeSplitTasks starts consuming split tasks from the queue.
	// The handler function is called for each received task.
	// Used by the worker service.
	ConsumeSplitTasks(ctx context.Context, handler func(task SplitTask) error) error

	// Close gracefully closes the connection to the message queue.
	Close() error
}

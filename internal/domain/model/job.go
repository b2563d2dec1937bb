package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the processing state of a split job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Valid status transitions:
// queued -> processing -> completed
//                     \-> failed
var validTransitions = map[Status][]Status{
	StatusQueued:     {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
}

func (s Status) IsValid() bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

func (s Status) CanTransitionTo(next Status) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, status := range allowed {
		if status == next {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// SplitResult describes one output part produced by a completed split.
type SplitResult struct {
	File     string  `json:"file"`
	Key      string  `json:"key"`
	Duration float64 `json:"duration"`
	Size     int64   `json:"size"`
}

// Job represents one upload/split lifecycle. The ID doubles as the
// correlation key and the object-store key prefix.
type Job struct {
	ID           string
	Status       Status
	Progress     int
	SourceKey    string
	OutputPrefix string
	ContentType  string
	Config       *SplitConfig
	Splits       []SplitResult
	Error        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	ErrEmptyFilename     = errors.New("filename cannot be empty")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrProgressDecrease  = errors.New("progress cannot decrease")
	ErrMissingSplits     = errors.New("completed job must carry split results")
	ErrZeroDurationSplit = errors.New("completed split must have positive duration")
)

// jobIDPrefix keeps job ids recognizable in storage keys and logs.
const jobIDPrefix = "job-"

// NewJobID mints a fresh opaque job identifier.
func NewJobID() string {
	return jobIDPrefix + uuid.New().String()
}

// NewJob creates a queued Job for an upload of the given file.
func NewJob(filename, contentType string) (*Job, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	id := NewJobID()
	now := time.Now()
	return &Job{
		ID:           id,
		Status:       StatusQueued,
		Progress:     0,
		SourceKey:    "videos/" + id + "/" + filename,
		OutputPrefix: "outputs/" + id + "/",
		ContentType:  contentType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// TransitionTo attempts to change the job status.
// Returns error if the transition is not allowed.
func (j *Job) TransitionTo(next Status) error {
	if !next.IsValid() {
		return ErrInvalidTransition
	}
	if !j.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	j.Status = next
	j.UpdatedAt = time.Now()
	return nil
}

// AdvanceProgress raises the progress percentage. Progress is clamped to
// [0, 100] and may never move backwards across calls.
func (j *Job) AdvanceProgress(progress int) error {
	if progress > 100 {
		progress = 100
	}
	if progress < j.Progress {
		return ErrProgressDecrease
	}
	j.Progress = progress
	j.UpdatedAt = time.Now()
	return nil
}

// Complete marks the job completed with its split results.
// Every result must carry a positive duration.
func (j *Job) Complete(splits []SplitResult) error {
	if len(splits) == 0 {
		return ErrMissingSplits
	}
	for _, s := range splits {
		if s.Duration <= 0 {
			return ErrZeroDurationSplit
		}
	}
	if err := j.TransitionTo(StatusCompleted); err != nil {
		return err
	}
	j.Splits = splits
	j.Progress = 100
	return nil
}

// Fail marks the job failed with a terminal error message.
func (j *Job) Fail(reason string) error {
	if err := j.TransitionTo(StatusFailed); err != nil {
		return err
	}
	j.Error = reason
	return nil
}

// IsTerminal returns true once the job can no longer change state.
func (j *Job) IsTerminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

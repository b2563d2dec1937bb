package model

import (
	"errors"
	"strings"
	"testing"
)

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"queued is valid", StatusQueued, true},
		{"processing is valid", StatusProcessing, true},
		{"completed is valid", StatusCompleted, true},
		{"failed is valid", StatusFailed, true},
		{"empty string is invalid", Status(""), false},
		{"unknown status is invalid", Status("UNKNOWN"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.want {
				t.Errorf("Status.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		next    Status
		want    bool
	}{
		// Valid transitions
		{"queued -> processing", StatusQueued, StatusProcessing, true},
		{"processing -> completed", StatusProcessing, StatusCompleted, true},
		{"processing -> failed", StatusProcessing, StatusFailed, true},

		// Invalid transitions
		{"queued -> completed (skip)", StatusQueued, StatusCompleted, false},
		{"queued -> failed (skip)", StatusQueued, StatusFailed, false},
		{"completed -> processing (reverse)", StatusCompleted, StatusProcessing, false},
		{"failed -> completed (terminal)", StatusFailed, StatusCompleted, false},
		{"completed -> queued (reverse)", StatusCompleted, StatusQueued, false},

		// Self transitions
		{"queued -> queued", StatusQueued, StatusQueued, false},
		{"processing -> processing", StatusProcessing, StatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.current.CanTransitionTo(tt.next); got != tt.want {
				t.Errorf("Status.CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewJob(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  error
	}{
		{"valid job creation", "movie.mp4", nil},
		{"empty filename", "", ErrEmptyFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewJob(tt.filename, "video/mp4")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewJob() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}

			if !strings.HasPrefix(job.ID, "job-") {
				t.Errorf("expected job id with job- prefix, got %s", job.ID)
			}
			if job.Status != StatusQueued {
				t.Errorf("expected status %s, got %s", StatusQueued, job.Status)
			}
			if job.Progress != 0 {
				t.Errorf("expected progress 0, got %d", job.Progress)
			}
			wantKey := "videos/" + job.ID + "/movie.mp4"
			if job.SourceKey != wantKey {
				t.Errorf("expected source key %s, got %s", wantKey, job.SourceKey)
			}
			if job.OutputPrefix != "outputs/"+job.ID+"/" {
				t.Errorf("unexpected output prefix %s", job.OutputPrefix)
			}
		})
	}
}

func TestNewJobID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewJobID()
		if seen[id] {
			t.Fatalf("job id %s minted twice", id)
		}
		seen[id] = true
	}
}

func TestJob_AdvanceProgress(t *testing.T) {
	job, err := NewJob("movie.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	if err := job.AdvanceProgress(40); err != nil {
		t.Fatalf("AdvanceProgress(40) failed: %v", err)
	}
	if job.Progress != 40 {
		t.Errorf("expected progress 40, got %d", job.Progress)
	}

	// Monotonic: moving backwards is rejected.
	if err := job.AdvanceProgress(10); !errors.Is(err, ErrProgressDecrease) {
		t.Errorf("expected ErrProgressDecrease, got %v", err)
	}
	if job.Progress != 40 {
		t.Errorf("progress changed on rejected update: %d", job.Progress)
	}

	// Equal progress is allowed (idempotent updates).
	if err := job.AdvanceProgress(40); err != nil {
		t.Errorf("AdvanceProgress(40) repeat failed: %v", err)
	}

	// Values above 100 are clamped.
	if err := job.AdvanceProgress(140); err != nil {
		t.Fatalf("AdvanceProgress(140) failed: %v", err)
	}
	if job.Progress != 100 {
		t.Errorf("expected progress clamped to 100, got %d", job.Progress)
	}
}

func TestJob_Complete(t *testing.T) {
	newProcessingJob := func(t *testing.T) *Job {
		t.Helper()
		job, err := NewJob("movie.mp4", "video/mp4")
		if err != nil {
			t.Fatalf("NewJob failed: %v", err)
		}
		if err := job.TransitionTo(StatusProcessing); err != nil {
			t.Fatalf("TransitionTo(processing) failed: %v", err)
		}
		return job
	}

	t.Run("successful completion", func(t *testing.T) {
		job := newProcessingJob(t)
		splits := []SplitResult{
			{File: job.ID + "_part_001.mp4", Key: job.OutputPrefix + job.ID + "_part_001.mp4", Duration: 120.5, Size: 1024},
			{File: job.ID + "_part_002.mp4", Key: job.OutputPrefix + job.ID + "_part_002.mp4", Duration: 95.2, Size: 2048},
		}
		if err := job.Complete(splits); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if job.Status != StatusCompleted {
			t.Errorf("expected status completed, got %s", job.Status)
		}
		if job.Progress != 100 {
			t.Errorf("expected progress 100, got %d", job.Progress)
		}
		if len(job.Splits) != 2 {
			t.Errorf("expected 2 splits, got %d", len(job.Splits))
		}
	})

	t.Run("no splits", func(t *testing.T) {
		job := newProcessingJob(t)
		if err := job.Complete(nil); !errors.Is(err, ErrMissingSplits) {
			t.Errorf("expected ErrMissingSplits, got %v", err)
		}
	})

	t.Run("zero-duration split", func(t *testing.T) {
		job := newProcessingJob(t)
		splits := []SplitResult{{File: "part.mp4", Duration: 0}}
		if err := job.Complete(splits); !errors.Is(err, ErrZeroDurationSplit) {
			t.Errorf("expected ErrZeroDurationSplit, got %v", err)
		}
	})

	t.Run("complete from queued is rejected", func(t *testing.T) {
		job, err := NewJob("movie.mp4", "video/mp4")
		if err != nil {
			t.Fatalf("NewJob failed: %v", err)
		}
		splits := []SplitResult{{File: "part.mp4", Duration: 10}}
		if err := job.Complete(splits); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestJob_Fail(t *testing.T) {
	job, err := NewJob("movie.mp4", "video/mp4")
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}
	if err := job.TransitionTo(StatusProcessing); err != nil {
		t.Fatalf("TransitionTo(processing) failed: %v", err)
	}

	if err := job.Fail("ffmpeg exited with code 1"); err != nil {
		t.Fatalf("Fail failed: %v", err)
	}
	if job.Status != StatusFailed {
		t.Errorf("expected status failed, got %s", job.Status)
	}
	if job.Error == "" {
		t.Error("expected error message to be recorded")
	}
	if !job.IsTerminal() {
		t.Error("failed job should be terminal")
	}
}

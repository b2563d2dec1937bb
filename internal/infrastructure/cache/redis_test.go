package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/splitgate/vidsplit/internal/domain/model"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func testJob(t *testing.T) *model.Job {
	t.Helper()
	now := time.Now().Truncate(time.Microsecond)
	return &model.Job{
		ID:           "job-cafe",
		Status:       model.StatusProcessing,
		Progress:     42,
		SourceKey:    "videos/job-cafe/movie.mp4",
		OutputPrefix: "outputs/job-cafe/",
		ContentType:  "video/mp4",
		Config: &model.SplitConfig{
			Method:           model.SplitMethodIntervals,
			IntervalDuration: 300,
			PreserveQuality:  true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRedisJobCache_GetSet(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisJobCache(client)
	ctx := context.Background()
	job := testJob(t)

	if err := cache.Set(ctx, job, 5*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected cache hit, got miss")
	}

	if got.ID != job.ID {
		t.Errorf("ID = %s, want %s", got.ID, job.ID)
	}
	if got.Status != model.StatusProcessing {
		t.Errorf("Status = %s, want %s", got.Status, model.StatusProcessing)
	}
	if got.Progress != 42 {
		t.Errorf("Progress = %d, want 42", got.Progress)
	}
	if got.Config == nil || got.Config.IntervalDuration != 300 {
		t.Errorf("Config = %+v, want interval duration 300", got.Config)
	}
	if !got.CreatedAt.Equal(job.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, job.CreatedAt)
	}
}

func TestRedisJobCache_Get_CacheMiss(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisJobCache(client)

	got, err := cache.Get(context.Background(), "job-missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected cache miss, got %+v", got)
	}
}

func TestRedisJobCache_SplitsRoundTrip(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisJobCache(client)
	ctx := context.Background()

	job := testJob(t)
	job.Status = model.StatusCompleted
	job.Progress = 100
	job.Splits = []model.SplitResult{
		{File: "job-cafe_part_001.mp4", Key: "outputs/job-cafe/job-cafe_part_001.mp4", Duration: 300, Size: 1024},
		{File: "job-cafe_part_002.mp4", Key: "outputs/job-cafe/job-cafe_part_002.mp4", Duration: 154.7, Size: 512},
	}

	if err := cache.Set(ctx, job, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := cache.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Splits) != 2 {
		t.Fatalf("expected 2 splits, got %d", len(got.Splits))
	}
	if got.Splits[1].Duration != 154.7 {
		t.Errorf("Duration = %v, want 154.7", got.Splits[1].Duration)
	}
}

func TestRedisJobCache_Delete(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := NewRedisJobCache(client)
	ctx := context.Background()
	job := testJob(t)

	if err := cache.Set(ctx, job, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Delete(ctx, job.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, err := cache.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("expected cache miss after delete")
	}

	// Deleting a missing job is a no-op.
	if err := cache.Delete(ctx, "job-missing"); err != nil {
		t.Errorf("Delete of missing job failed: %v", err)
	}
}

func TestRedisJobCache_TTLExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewRedisJobCache(client)
	ctx := context.Background()
	job := testJob(t)

	if err := cache.Set(ctx, job, time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	got, err := cache.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("expected entry to expire")
	}
}

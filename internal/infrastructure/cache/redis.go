package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/splitgate/vidsplit/internal/domain/model"
)

const (
	// jobCacheKeyPrefix is the prefix for job cache keys in Redis.
	jobCacheKeyPrefix = "job:"
)

// jobJSON is the JSON representation of a Job for caching.
// Using an explicit struct avoids coupling to the domain model's JSON tags.
type jobJSON struct {
	ID           string              `json:"id"`
	Status       string              `json:"status"`
	Progress     int                 `json:"progress"`
	SourceKey    string              `json:"source_key"`
	OutputPrefix string              `json:"output_prefix"`
	ContentType  string              `json:"content_type"`
	Config       *model.SplitConfig  `json:"config,omitempty"`
	Splits       []model.SplitResult `json:"splits,omitempty"`
	Error        string              `json:"error,omitempty"`
	CreatedAt    string              `json:"created_at"`
	UpdatedAt    string              `json:"updated_at"`
}

// RedisJobCache implements JobCache using Redis as the backing store.
type RedisJobCache struct {
	client *redis.Client
}

// Compile-time verification that RedisJobCache implements JobCache.
var _ JobCache = (*RedisJobCache)(nil)

// NewRedisJobCache creates a new Redis-backed job cache.
func NewRedisJobCache(client *redis.Client) *RedisJobCache {
	return &RedisJobCache{
		client: client,
	}
}

// Get retrieves a job from Redis cache.
// Returns nil, nil on cache miss.
func (c *RedisJobCache) Get(ctx context.Context, jobID string) (*model.Job, error) {
	key := c.buildKey(jobID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	job, err := c.deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("deserialize job: %w", err)
	}

	return job, nil
}

// Set stores a job in Redis cache with the specified TTL.
func (c *RedisJobCache) Set(ctx context.Context, job *model.Job, ttl time.Duration) error {
	key := c.buildKey(job.ID)

	data, err := c.serialize(job)
	if err != nil {
		return fmt.Errorf("serialize job: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

// Delete removes a job from Redis cache.
func (c *RedisJobCache) Delete(ctx context.Context, jobID string) error {
	key := c.buildKey(jobID)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}

	return nil
}

// buildKey constructs the Redis key for a job.
func (c *RedisJobCache) buildKey(jobID string) string {
	return jobCacheKeyPrefix + jobID
}

// serialize converts a Job to JSON bytes.
func (c *RedisJobCache) serialize(job *model.Job) ([]byte, error) {
	j := jobJSON{
		ID:           job.ID,
		Status:       string(job.Status),
		Progress:     job.Progress,
		SourceKey:    job.SourceKey,
		OutputPrefix: job.OutputPrefix,
		ContentType:  job.ContentType,
		Config:       job.Config,
		Splits:       job.Splits,
		Error:        job.Error,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:    job.UpdatedAt.Format(time.RFC3339Nano),
	}
	return json.Marshal(j)
}

// deserialize converts JSON bytes to a Job.
func (c *RedisJobCache) deserialize(data []byte) (*model.Job, error) {
	var j jobJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(time.RFC3339Nano, j.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	updatedAt, err := time.Parse(time.RFC3339Nano, j.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &model.Job{
		ID:           j.ID,
		Status:       model.Status(j.Status),
		Progress:     j.Progress,
		SourceKey:    j.SourceKey,
		OutputPrefix: j.OutputPrefix,
		ContentType:  j.ContentType,
		Config:       j.Config,
		Splits:       j.Splits,
		Error:        j.Error,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

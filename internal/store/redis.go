package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/creator-pitch/internal/types"
)

const keyPrefix = "creator-pitch:enrich:"

// Redis is a Store shared between instances. Entries carry a TTL equal to
// the retention window, so Redis itself does the sweeping.
type Redis struct {
	client    *redis.Client
	retention time.Duration
	now       func() time.Time
}

// NewRedis connects to the server described by redisURL
// (redis://[:password@]host:port/db) and verifies the connection.
func NewRedis(ctx context.Context, redisURL string, retention time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisFromClient(client, retention), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, retention time.Duration) *Redis {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Redis{client: client, retention: retention, now: time.Now}
}

// Close closes the underlying connection pool.
func (r *Redis) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *Redis) put(ctx context.Context, job types.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to serialize job: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+job.RequestID, data, r.retention).Err(); err != nil {
		return fmt.Errorf("failed to store job %s: %w", job.RequestID, err)
	}
	return nil
}

// CreatePending registers requestID as pending, replacing any existing entry.
func (r *Redis) CreatePending(ctx context.Context, requestID string) error {
	return r.put(ctx, types.Job{
		RequestID: requestID,
		Status:    types.JobPending,
		CreatedAt: r.now(),
	})
}

// Complete stores the result for requestID and marks it complete.
func (r *Redis) Complete(ctx context.Context, requestID string, result types.EnrichmentResult) error {
	return r.put(ctx, types.Job{
		RequestID: requestID,
		Status:    types.JobComplete,
		Data:      &result,
		CreatedAt: r.now(),
	})
}

// Get loads the job for requestID.
func (r *Redis) Get(ctx context.Context, requestID string) (*types.Job, error) {
	data, err := r.client.Get(ctx, keyPrefix+requestID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job %s: %w", requestID, err)
	}
	var job types.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to deserialize job %s: %w", requestID, err)
	}
	return &job, nil
}

// Delete removes requestID.
func (r *Redis) Delete(ctx context.Context, requestID string) error {
	if err := r.client.Del(ctx, keyPrefix+requestID).Err(); err != nil {
		return fmt.Errorf("failed to delete job %s: %w", requestID, err)
	}
	return nil
}

// Sweep is a no-op; expiry is handled by key TTLs.
func (r *Redis) Sweep(_ context.Context) (int, error) {
	return 0, nil
}

// Len counts the live job keys.
func (r *Redis) Len(ctx context.Context) (int, error) {
	n := 0
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return n, nil
}

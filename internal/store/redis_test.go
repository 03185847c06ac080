package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/creator-pitch/internal/types"
)

func setupTestRedis(t *testing.T, retention time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s, err := NewRedis(context.Background(), "redis://"+mr.Addr()+"/0", retention)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedis_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, mr := setupTestRedis(t, 30*time.Minute)

	require.NoError(t, s.CreatePending(ctx, "req-1"))
	assert.True(t, mr.Exists(keyPrefix+"req-1"))
	assert.Equal(t, 30*time.Minute, mr.TTL(keyPrefix+"req-1"))

	job, err := s.Get(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, types.JobPending, job.Status)
	assert.Nil(t, job.Data)

	require.NoError(t, s.Complete(ctx, "req-1", sampleResult("fitjenna")))
	job, err = s.Get(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, types.JobComplete, job.Status)
	require.NotNil(t, job.Data)
	assert.Equal(t, "fitjenna", job.Data.Creator.Handle)
	assert.Equal(t, "acme.com", job.Data.Brands[0].Domain)

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Delete(ctx, "req-1"))
	_, err = s.Get(ctx, "req-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedis_Expiry(t *testing.T) {
	ctx := context.Background()
	s, mr := setupTestRedis(t, time.Minute)

	require.NoError(t, s.CreatePending(ctx, "req"))
	mr.FastForward(2 * time.Minute)

	_, err := s.Get(ctx, "req")
	assert.ErrorIs(t, err, ErrNotFound)

	removed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRedis_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	s, mr := setupTestRedis(t, time.Minute)

	require.NoError(t, mr.Set(keyPrefix+"bad", "{not json"))
	_, err := s.Get(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewRedis_Errors(t *testing.T) {
	_, err := NewRedis(context.Background(), "not a url", time.Minute)
	assert.Error(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = NewRedis(ctx, "redis://"+addr, time.Minute)
	assert.Error(t, err)
}

func TestRedis_SharedBetweenInstances(t *testing.T) {
	ctx := context.Background()
	a, mr := setupTestRedis(t, time.Minute)
	b := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	defer b.Close()

	require.NoError(t, a.CreatePending(ctx, "shared"))
	require.NoError(t, b.Complete(ctx, "shared", sampleResult("z")))

	job, err := a.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, types.JobComplete, job.Status)
}

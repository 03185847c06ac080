package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/creator-pitch/internal/types"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sampleResult(handle string) types.EnrichmentResult {
	return types.EnrichmentResult{
		Creator: types.CreatorProfile{Handle: handle, Followers: "10K", Niche: "Fitness", AvgViews: "2K", TopContentThemes: []string{}},
		Brands:  []types.BrandMatch{{Name: "Acme", Domain: "acme.com", FitScore: 80}},
	}
}

func TestMemory_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(time.Minute)

	t.Run("pending has no data", func(t *testing.T) {
		require.NoError(t, s.CreatePending(ctx, "req-1"))
		job, err := s.Get(ctx, "req-1")
		require.NoError(t, err)
		assert.Equal(t, types.JobPending, job.Status)
		assert.Nil(t, job.Data)
	})

	t.Run("complete carries data", func(t *testing.T) {
		require.NoError(t, s.Complete(ctx, "req-1", sampleResult("fitjenna")))
		job, err := s.Get(ctx, "req-1")
		require.NoError(t, err)
		assert.Equal(t, types.JobComplete, job.Status)
		require.NotNil(t, job.Data)
		assert.Equal(t, sampleResult("fitjenna"), *job.Data)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("complete without pending creates entry", func(t *testing.T) {
		require.NoError(t, s.Complete(ctx, "never-issued", sampleResult("x")))
		job, err := s.Get(ctx, "never-issued")
		require.NoError(t, err)
		assert.Equal(t, types.JobComplete, job.Status)
	})

	t.Run("pending overwrites complete", func(t *testing.T) {
		require.NoError(t, s.CreatePending(ctx, "never-issued"))
		job, err := s.Get(ctx, "never-issued")
		require.NoError(t, err)
		assert.Equal(t, types.JobPending, job.Status)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "req-1"))
		_, err := s.Get(ctx, "req-1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, s.Delete(ctx, "req-1"))
	})
}

func TestMemory_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemory(30*time.Minute, WithClock(clock.Now))

	require.NoError(t, s.CreatePending(ctx, "old"))
	clock.Advance(20 * time.Minute)
	require.NoError(t, s.CreatePending(ctx, "young"))
	clock.Advance(15 * time.Minute)

	// "old" is 35 minutes old and already invisible to Get.
	_, err := s.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	removed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Get(ctx, "young")
	assert.NoError(t, err)
	n, _ = s.Len(ctx)
	assert.Equal(t, 1, n)
}

func TestMemory_CompleteResetsAge(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := NewMemory(30*time.Minute, WithClock(clock.Now))

	require.NoError(t, s.CreatePending(ctx, "req"))
	clock.Advance(25 * time.Minute)
	require.NoError(t, s.Complete(ctx, "req", sampleResult("a")))
	clock.Advance(10 * time.Minute)

	removed, err := s.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemory(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "req"
			if i%2 == 0 {
				_ = s.CreatePending(ctx, id)
			} else {
				_ = s.Complete(ctx, id, sampleResult("c"))
			}
			_, _ = s.Get(ctx, id)
			_, _ = s.Sweep(ctx)
		}(i)
	}
	wg.Wait()

	job, err := s.Get(ctx, "req")
	require.NoError(t, err)
	assert.Contains(t, []types.JobStatus{types.JobPending, types.JobComplete}, job.Status)
}

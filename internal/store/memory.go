package store

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/creator-pitch/internal/types"
)

// Memory is a process-local Store guarded by a mutex.
type Memory struct {
	mu        sync.Mutex
	jobs      map[string]types.Job
	retention time.Duration
	now       func() time.Time
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates an empty in-memory store. A non-positive retention
// falls back to DefaultRetention.
func NewMemory(retention time.Duration, opts ...MemoryOption) *Memory {
	if retention <= 0 {
		retention = DefaultRetention
	}
	m := &Memory{
		jobs:      make(map[string]types.Job),
		retention: retention,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreatePending registers requestID as pending, replacing any existing entry.
func (m *Memory) CreatePending(_ context.Context, requestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[requestID] = types.Job{
		RequestID: requestID,
		Status:    types.JobPending,
		CreatedAt: m.now(),
	}
	return nil
}

// Complete stores the result for requestID and marks it complete.
func (m *Memory) Complete(_ context.Context, requestID string, result types.EnrichmentResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[requestID] = types.Job{
		RequestID: requestID,
		Status:    types.JobComplete,
		Data:      &result,
		CreatedAt: m.now(),
	}
	return nil
}

// Get returns a copy of the job for requestID.
func (m *Memory) Get(_ context.Context, requestID string) (*types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[requestID]
	if !ok || m.expired(job) {
		return nil, ErrNotFound
	}
	return &job, nil
}

// Delete removes requestID. Deleting an unknown id is not an error.
func (m *Memory) Delete(_ context.Context, requestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, requestID)
	return nil
}

// Sweep removes every entry older than the retention window.
func (m *Memory) Sweep(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, job := range m.jobs {
		if m.expired(job) {
			delete(m.jobs, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored entries, expired ones included until swept.
func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs), nil
}

func (m *Memory) expired(job types.Job) bool {
	return job.CreatedAt.Before(m.now().Add(-m.retention))
}

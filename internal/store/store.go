// Package store correlates asynchronous enrichment requests with the
// results the provider later delivers.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/creator-pitch/internal/types"
)

// DefaultRetention is how long an entry survives before a sweep removes it.
const DefaultRetention = 30 * time.Minute

// ErrNotFound is returned by Get for unknown or expired request ids.
var ErrNotFound = errors.New("request not found")

// Store holds enrichment jobs keyed by request id.
//
// Writes never check existing state: CreatePending overwrites, and Complete
// on an unknown id creates a completed entry. Callbacks may arrive for ids
// this instance never issued.
type Store interface {
	CreatePending(ctx context.Context, requestID string) error
	Complete(ctx context.Context, requestID string, result types.EnrichmentResult) error
	Get(ctx context.Context, requestID string) (*types.Job, error)
	Delete(ctx context.Context, requestID string) error
	// Sweep drops entries older than the retention window and reports how
	// many were removed.
	Sweep(ctx context.Context) (int, error)
	// Len reports the number of live entries.
	Len(ctx context.Context) (int, error)
}

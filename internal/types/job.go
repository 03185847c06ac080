package types

import "time"

// JobStatus is the lifecycle state of an enrichment job.
type JobStatus string

const (
	// JobPending means the provider has not called back yet.
	JobPending JobStatus = "pending"
	// JobComplete is terminal. There is no failed state.
	JobComplete JobStatus = "complete"
)

// Job tracks one asynchronous enrichment request.
type Job struct {
	RequestID string            `json:"requestId"`
	Status    JobStatus         `json:"status"`
	Data      *EnrichmentResult `json:"data,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

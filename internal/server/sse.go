package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/creator-pitch/internal/store"
	"github.com/jonathan/creator-pitch/internal/types"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent("error", map[string]string{"error": message}) //nolint:errcheck
}

// handleEnrichEvents streams the state of an enrichment job until it
// completes, disappears or the stream times out. It is the push
// alternative to polling GET /api/enrich/{requestId}.
func (s *Server) handleEnrichEvents(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("requestId")
	mode, err := sortMode(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.streamTimeout)
	defer cancel()
	ticker := time.NewTicker(s.streamInterval)
	defer ticker.Stop()

	for {
		job, err := s.store.Get(ctx, requestID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			sse.WriteError("Request not found")
			return
		case err != nil:
			s.logger.Warn("event stream lookup failed", zap.String("request_id", requestID), zap.Error(err))
			sse.WriteError(err.Error())
			return
		case job.Status == types.JobComplete && job.Data != nil:
			resp := resultResponse(*job.Data, mode)
			resp.RequestID = requestID
			if err := sse.WriteEvent("complete", resp); err != nil {
				s.logger.Warn("error writing SSE event", zap.Error(err))
			}
			return
		}

		if err := sse.WriteEvent("pending", EnrichResponse{Status: string(types.JobPending), RequestID: requestID}); err != nil {
			s.logger.Debug("event stream closed", zap.String("request_id", requestID), zap.Error(err))
			return
		}

		select {
		case <-ctx.Done():
			sse.WriteError("timed out waiting for enrichment")
			return
		case <-ticker.C:
		}
	}
}

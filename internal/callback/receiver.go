// Package callback receives enrichment results pushed by the provider.
//
// The receiver always acknowledges. Problems with a payload are reported in
// the acknowledgement and the log, never as an error status, so the
// provider does not retry or alert.
package callback

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/creator-pitch/internal/logging"
	"github.com/jonathan/creator-pitch/internal/metrics"
	"github.com/jonathan/creator-pitch/internal/normalize"
	"github.com/jonathan/creator-pitch/internal/store"
)

// Outcome classifies a received callback.
type Outcome string

const (
	OutcomeAccepted         Outcome = "accepted"
	OutcomeUnauthorized     Outcome = "unauthorized"
	OutcomeInvalidJSON      Outcome = "invalid_json"
	OutcomeMissingRequestID Outcome = "missing_request_id"
	OutcomeStoreFailed      Outcome = "store_failed"
)

// Acknowledgement warnings.
const (
	WarnUnauthorized     = "unauthorized: bearer credential missing or invalid, payload ignored"
	WarnInvalidJSON      = "invalid JSON body, payload ignored"
	WarnMissingRequestID = "missing request_id"
	WarnStoreFailed      = "result could not be stored"
)

// Request is an inbound callback.
type Request struct {
	AuthHeader string
	Body       []byte
}

// Ack is the acknowledgement body. Status is always "ok".
type Ack struct {
	Status    string          `json:"status"`
	Warning   string          `json:"warning,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
	Received  json.RawMessage `json:"received,omitempty"`
}

// Options configures a Receiver. Secret empty disables authentication.
type Options struct {
	Store   store.Store
	History *History
	Secret  string
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Receiver applies provider callbacks to the correlation store.
type Receiver struct {
	store   store.Store
	history *History
	secret  string
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewReceiver creates a Receiver. A nil History gets a default-sized one.
func NewReceiver(opts Options) *Receiver {
	history := opts.History
	if history == nil {
		history = NewHistory(DefaultHistorySize)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Receiver{
		store:   opts.Store,
		history: history,
		secret:  opts.Secret,
		logger:  logging.OrNop(opts.Logger),
		metrics: opts.Metrics,
		now:     now,
	}
}

// History returns the receiver's debug history.
func (r *Receiver) History() *History {
	return r.history
}

// Handle processes one callback and returns the acknowledgement to send.
func (r *Receiver) Handle(ctx context.Context, req Request) Ack {
	entry := Entry{ReceivedAt: r.now(), Body: string(req.Body)}
	ack := r.handle(ctx, req, &entry)
	r.history.Add(entry)
	r.metrics.ObserveCallback(string(entry.Outcome))
	return ack
}

func (r *Receiver) handle(ctx context.Context, req Request, entry *Entry) Ack {
	if !r.authorized(req.AuthHeader) {
		entry.Outcome = OutcomeUnauthorized
		r.logger.Warn("callback rejected: bad credential")
		return Ack{Status: "ok", Warning: WarnUnauthorized}
	}

	var raw map[string]any
	if err := json.Unmarshal(req.Body, &raw); err != nil || raw == nil {
		entry.Outcome = OutcomeInvalidJSON
		r.logger.Warn("callback body is not a JSON object", zap.String("body", string(req.Body)))
		return Ack{Status: "ok", Warning: WarnInvalidJSON}
	}

	requestID := requestIDOf(raw)
	if requestID == "" {
		entry.Outcome = OutcomeMissingRequestID
		r.logger.Warn("callback without request_id", zap.Int("bytes", len(req.Body)))
		return Ack{Status: "ok", Warning: WarnMissingRequestID}
	}
	entry.RequestID = requestID

	handle := stringField(raw, "tiktok_handle", "handle")
	result := normalize.Payload(raw, handle)
	if err := r.store.Complete(ctx, requestID, result); err != nil {
		entry.Outcome = OutcomeStoreFailed
		r.logger.Error("failed to complete request", zap.String("request_id", requestID), zap.Error(err))
		return Ack{Status: "ok", Warning: WarnStoreFailed, RequestID: requestID}
	}

	entry.Outcome = OutcomeAccepted
	r.logger.Info("callback applied",
		zap.String("request_id", requestID),
		zap.String("handle", handle),
		zap.Int("brands", len(result.Brands)),
	)
	return Ack{Status: "ok", RequestID: requestID, Received: json.RawMessage(req.Body)}
}

// authorized checks the bearer credential when a secret is configured.
func (r *Receiver) authorized(header string) bool {
	if r.secret == "" {
		return true
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(r.secret)) == 1
}

func requestIDOf(raw map[string]any) string {
	switch v := raw["request_id"].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func stringField(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok {
			return s
		}
	}
	return ""
}

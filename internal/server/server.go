// Package server provides the HTTP API of the creator pitch service.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/creator-pitch/internal/callback"
	"github.com/jonathan/creator-pitch/internal/enrichment"
	"github.com/jonathan/creator-pitch/internal/logging"
	"github.com/jonathan/creator-pitch/internal/metrics"
	"github.com/jonathan/creator-pitch/internal/server/middleware"
	"github.com/jonathan/creator-pitch/internal/server/ratelimit"
	"github.com/jonathan/creator-pitch/internal/store"
	"github.com/jonathan/creator-pitch/internal/types"
)

// Enricher runs the enrichment tier chain.
type Enricher interface {
	Run(ctx context.Context, in enrichment.Input) (enrichment.Outcome, error)
}

// StrategyGenerator drafts pitch strategies.
type StrategyGenerator interface {
	Generate(ctx context.Context, creator *types.CreatorProfile, brands []types.BrandMatch, marketingRequest string) (*types.StrategyResult, error)
}

// CreatorSummarizer writes a short creator summary.
type CreatorSummarizer interface {
	Summarize(ctx context.Context, creator *types.CreatorProfile) (*types.CreatorSummary, error)
}

// Config holds server configuration
type Config struct {
	Port int
	// CallbackSecret guards the debug listing. The callback itself checks
	// the secret but always acknowledges.
	CallbackSecret string
	RateLimit      *ratelimit.Config
	// StreamInterval is how often the event stream re-reads the store.
	StreamInterval time.Duration
	// StreamTimeout bounds one event stream.
	StreamTimeout time.Duration
}

// Deps are the components the handlers call. Strategist and Summarizer may
// be nil when no model is configured.
type Deps struct {
	Store      store.Store
	Enricher   Enricher
	Receiver   *callback.Receiver
	Strategist StrategyGenerator
	Summarizer CreatorSummarizer
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
	metrics     *metrics.Metrics

	store      store.Store
	enricher   Enricher
	receiver   *callback.Receiver
	strategist StrategyGenerator
	summarizer CreatorSummarizer

	streamInterval time.Duration
	streamTimeout  time.Duration
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if deps.Enricher == nil {
		return nil, errors.New("server: enricher is required")
	}

	s := &Server{
		logger:         logging.OrNop(deps.Logger),
		metrics:        deps.Metrics,
		store:          deps.Store,
		enricher:       deps.Enricher,
		receiver:       deps.Receiver,
		strategist:     deps.Strategist,
		summarizer:     deps.Summarizer,
		streamInterval: cfg.StreamInterval,
		streamTimeout:  cfg.StreamTimeout,
	}
	if s.receiver == nil {
		s.receiver = callback.NewReceiver(callback.Options{Store: deps.Store, Logger: deps.Logger, Metrics: deps.Metrics})
	}
	if s.streamInterval <= 0 {
		s.streamInterval = time.Second
	}
	if s.streamTimeout <= 0 {
		s.streamTimeout = 3 * time.Minute
	}

	rlConfig := cfg.RateLimit
	if rlConfig == nil {
		rlConfig = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rlConfig)

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/enrich", s.handleEnrich)
	mux.HandleFunc("GET /api/enrich/{requestId}", s.handleEnrichStatus)
	mux.HandleFunc("GET /api/enrich/{requestId}/events", s.handleEnrichEvents)
	mux.HandleFunc("POST /api/clay-callback", s.handleCallback)
	mux.Handle("GET /api/clay-callback", middleware.SharedSecret(cfg.CallbackSecret)(http.HandlerFunc(s.handleCallbackHistory)))
	mux.HandleFunc("POST /api/agent", s.handleAgent)
	mux.HandleFunc("POST /api/summarize", s.handleSummarize)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	s.handler = middleware.RequestID(s.withLogging(s.withCORS(s.withRateLimit(mux))))

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // model calls and event streams
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops the HTTP server and background work.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps event streams working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging logs each request and records its latency.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(r.Method, route, rec.status, elapsed)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/creator-pitch/internal/callback"
	"github.com/jonathan/creator-pitch/internal/enrichment"
	"github.com/jonathan/creator-pitch/internal/metrics"
	"github.com/jonathan/creator-pitch/internal/server/middleware"
	"github.com/jonathan/creator-pitch/internal/server/ratelimit"
	"github.com/jonathan/creator-pitch/internal/store"
)

const testSecret = "s3cret"

// testServer bundles a server with the collaborators tests inspect.
type testServer struct {
	*Server
	store   *store.Memory
	metrics *metrics.Metrics
}

type serverOption func(*Config, *Deps)

func withRateLimitConfig(rl *ratelimit.Config) serverOption {
	return func(cfg *Config, _ *Deps) { cfg.RateLimit = rl }
}

func withEnricher(e Enricher) serverOption {
	return func(_ *Config, d *Deps) { d.Enricher = e }
}

func withStrategist(g StrategyGenerator) serverOption {
	return func(_ *Config, d *Deps) { d.Strategist = g }
}

func withSummarizer(sum CreatorSummarizer) serverOption {
	return func(_ *Config, d *Deps) { d.Summarizer = sum }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	mem := store.NewMemory(time.Hour)
	m := metrics.New()

	cfg := Config{
		CallbackSecret: testSecret,
		RateLimit:      &ratelimit.Config{Enabled: false},
		StreamInterval: 10 * time.Millisecond,
		StreamTimeout:  time.Second,
	}
	deps := Deps{
		Store:    mem,
		Enricher: enrichment.NewTrigger(enrichment.Options{Store: mem, Logger: logger, Metrics: m}),
		Receiver: callback.NewReceiver(callback.Options{
			Store:   mem,
			Secret:  testSecret,
			Logger:  logger,
			Metrics: m,
		}),
		Logger:  logger,
		Metrics: m,
	}
	for _, opt := range opts {
		opt(&cfg, &deps)
	}

	s, err := New(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(func() { s.rateLimiter.Stop() })
	return &testServer{Server: s, store: mem, metrics: m}
}

// do sends a request through the full middleware chain.
func (ts *testServer) do(t *testing.T, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestNew_RequiresStoreAndEnricher(t *testing.T) {
	_, err := New(Config{}, Deps{})
	assert.Error(t, err)

	_, err = New(Config{}, Deps{Store: store.NewMemory(time.Minute)})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodOptions, "/api/enrich", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = ts.do(t, http.MethodGet, "/health", "", http.Header{middleware.RequestIDHeader: {"trace-123"}})
	assert.Equal(t, "trace-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/enrich", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRateLimit(t *testing.T) {
	rl := &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/api/enrich", Method: "POST", Limit: 2, Window: time.Hour, Burst: 2},
			{Path: "/api/clay-callback", Limit: 0},
		},
	}
	ts := newTestServer(t, withRateLimitConfig(rl))

	for i := 0; i < 2; i++ {
		w := ts.do(t, http.MethodPost, "/api/enrich", `{"handle":"fitjenna"}`, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := ts.do(t, http.MethodPost, "/api/enrich", `{"handle":"fitjenna"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	body := decodeBody(t, w)
	assert.Equal(t, "rate_limit_exceeded", body["error"])

	// preflight is answered before throttling
	w = ts.do(t, http.MethodOptions, "/api/enrich", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// callbacks are never throttled
	for i := 0; i < 5; i++ {
		w := ts.do(t, http.MethodPost, "/api/clay-callback", `{}`, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodGet, "/health", "", nil)
	ts.do(t, http.MethodPost, "/api/enrich", `{"handle":"fitjenna"}`, nil)

	w := ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "pitch_http_requests_total")
	assert.Contains(t, body, `route="GET /health"`)
	assert.Contains(t, body, "pitch_enrich_requests_total")

	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.HTTPRequests.WithLabelValues("GET", "GET /health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.EnrichOutcomes.WithLabelValues("fallback", "sync")))
}

func TestShutdown(t *testing.T) {
	ts := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, ts.Shutdown(ctx))
}

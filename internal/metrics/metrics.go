// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	EnrichOutcomes   *prometheus.CounterVec
	CallbackOutcomes *prometheus.CounterVec
	StoreEntries     prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	LLMCalls         *prometheus.CounterVec
}

// New registers every collector, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		EnrichOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitch_enrich_requests_total",
				Help: "Enrichment triggers by the tier that answered and response mode",
			},
			[]string{"tier", "mode"},
		),
		CallbackOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitch_callbacks_total",
				Help: "Provider callbacks by outcome",
			},
			[]string{"outcome"},
		),
		StoreEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pitch_store_entries",
				Help: "Enrichment jobs currently held by the correlation store",
			},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitch_http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pitch_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LLMCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pitch_llm_calls_total",
				Help: "Model calls by operation and result",
			},
			[]string{"operation", "result"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveEnrichment counts one trigger answered by tier in mode.
func (m *Metrics) ObserveEnrichment(tier, mode string) {
	if m == nil {
		return
	}
	m.EnrichOutcomes.WithLabelValues(tier, mode).Inc()
}

// ObserveCallback counts one callback outcome (accepted, unauthorized, ...).
func (m *Metrics) ObserveCallback(outcome string) {
	if m == nil {
		return
	}
	m.CallbackOutcomes.WithLabelValues(outcome).Inc()
}

// SetStoreEntries records the store size.
func (m *Metrics) SetStoreEntries(n int) {
	if m == nil {
		return
	}
	m.StoreEntries.Set(float64(n))
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveLLM records one model call result ("ok" or "error").
func (m *Metrics) ObserveLLM(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.LLMCalls.WithLabelValues(operation, result).Inc()
}

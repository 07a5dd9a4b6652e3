// Package prom implements the observability hooks on Prometheus.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/tapegraph/pkg/observability"
)

// Metrics holds the tapegraph collectors. It implements
// [observability.PipelineHooks], [observability.CacheHooks] and
// [observability.ServerHooks].
type Metrics struct {
	simulations  *prometheus.CounterVec
	steps        prometheus.Histogram
	pebblings    *prometheus.CounterVec
	moves        *prometheus.HistogramVec
	peak         *prometheus.HistogramVec
	runDuration  *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
	cacheBytes   *prometheus.CounterVec
	requests     *prometheus.CounterVec
	reqDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tapegraph_simulations_total",
			Help: "Machine simulations by outcome.",
		}, []string{"outcome"}),
		steps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tapegraph_simulation_steps",
			Help:    "Steps executed per simulation.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		pebblings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tapegraph_pebblings_total",
			Help: "Pebbling runs by strategy and result.",
		}, []string{"strategy", "result"}),
		moves: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tapegraph_pebble_moves",
			Help:    "Moves emitted per pebbling.",
			Buckets: prometheus.ExponentialBuckets(2, 4, 8),
		}, []string{"strategy"}),
		peak: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tapegraph_pebble_peak",
			Help:    "Peak concurrent pebbles per pebbling.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"strategy"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "tapegraph_run_duration_seconds",
			Help: "Duration of simulation and pebbling runs.",
		}, []string{"kind"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tapegraph_cache_lookups_total",
			Help: "Cache lookups by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tapegraph_cache_written_bytes_total",
			Help: "Bytes written to the cache.",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tapegraph_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "tapegraph_http_request_duration_seconds",
			Help: "HTTP request latency.",
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.simulations, m.steps, m.pebblings, m.moves, m.peak, m.runDuration,
		m.cacheLookups, m.cacheBytes, m.requests, m.reqDuration,
	)
	return m
}

// Register installs m as the global pipeline, cache and server hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetServerHooks(m)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) OnSimulateStart(context.Context, int) {}

func (m *Metrics) OnSimulateComplete(_ context.Context, outcome string, steps int, d time.Duration, err error) {
	if err != nil {
		outcome = "error"
	}
	m.simulations.WithLabelValues(outcome).Inc()
	m.steps.Observe(float64(steps))
	m.runDuration.WithLabelValues("simulate").Observe(d.Seconds())
}

func (m *Metrics) OnPebbleStart(context.Context, string, int) {}

func (m *Metrics) OnPebbleComplete(_ context.Context, strategy string, moves, peak int, d time.Duration, err error) {
	m.runDuration.WithLabelValues("pebble").Observe(d.Seconds())
	if err != nil {
		m.pebblings.WithLabelValues(strategy, "error").Inc()
		return
	}
	m.pebblings.WithLabelValues(strategy, "ok").Inc()
	m.moves.WithLabelValues(strategy).Observe(float64(moves))
	m.peak.WithLabelValues(strategy).Observe(float64(peak))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.reqDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.ServerHooks   = (*Metrics)(nil)
)

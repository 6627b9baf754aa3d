// Package prom exports observability hooks as Prometheus metrics.
//
// Register one [Metrics] value for every hook category at startup and
// mount its handler:
//
//	m := prom.New("stowage")
//	m.Register()
//	r.Handle("/metrics", m.Handler())
//
// Metrics:
//   - builds_total{result}, build_duration_seconds, scene_items
//   - renders_total{format,result}, render_duration_seconds
//   - cache_operations_total{kind,op}, cache_written_bytes_total{kind}
//   - http_request_duration_seconds{method,route,status}
//   - http_requests_inflight
//   - http_request_errors_total{method,route}
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/stowage/pkg/observability"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Metrics implements every hook interface on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	builds        *prometheus.CounterVec
	buildDuration prometheus.Histogram
	sceneItems    prometheus.Histogram

	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	reqDuration *prometheus.HistogramVec
	reqInflight prometheus.Gauge
	reqErrors   *prometheus.CounterVec
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// New creates the collectors under namespace and registers them on a
// fresh registry, along with the Go and process collectors.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Scene builds by result.",
		}, []string{"result"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Time spent building scenes.",
			Buckets:   durationBuckets,
		}),
		sceneItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scene_items",
			Help:      "Items per built scene.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Rendered artifacts by format and result.",
		}, []string{"format", "result"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering all requested formats.",
			Buckets:   durationBuckets,
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes by key kind.",
		}, []string{"kind", "op"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key kind.",
		}, []string{"kind"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   durationBuckets,
		}, []string{"method", "route", "status"}),
		reqInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_inflight",
			Help:      "Requests currently being served.",
		}),
		reqErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "Requests that ended in an error response.",
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.builds, m.buildDuration, m.sceneItems,
		m.renders, m.renderDuration,
		m.cacheOps, m.cacheBytes,
		m.reqDuration, m.reqInflight, m.reqErrors,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Register installs m as the global pipeline, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnBuildStart(context.Context, int) {}

func (m *Metrics) OnBuildComplete(_ context.Context, items, _ int, d time.Duration, err error) {
	m.builds.WithLabelValues(result(err)).Inc()
	m.buildDuration.Observe(d.Seconds())
	if err == nil {
		m.sceneItems.Observe(float64(items))
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	m.renderDuration.Observe(d.Seconds())
	for _, f := range formats {
		m.renders.WithLabelValues(f, result(err)).Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, kind string) {
	m.cacheOps.WithLabelValues(kind, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, kind string) {
	m.cacheOps.WithLabelValues(kind, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, kind string, size int) {
	m.cacheOps.WithLabelValues(kind, "set").Inc()
	m.cacheBytes.WithLabelValues(kind).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.reqInflight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.reqInflight.Dec()
	m.reqDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, method, route string, _ error) {
	m.reqErrors.WithLabelValues(method, route).Inc()
}

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus collectors for analysis runs and the HTTP surface.
// A nil *Metrics records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	runsTotal      prometheus.Counter
	failuresTotal  *prometheus.CounterVec
	cacheHitsTotal prometheus.Counter
	runInProgress  prometheus.Gauge
	runDuration    prometheus.Histogram
	framesSampled  prometheus.Counter
	frameErrors    prometheus.Counter
	telopsEmitted  prometheus.Counter
	requestsTotal  prometheus.Counter
	errorsTotal    prometheus.Counter
}

// New creates and registers the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_runs_total",
			Help: "Total number of analysis runs started",
		}),
		failuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_run_failures_total",
			Help: "Total number of analysis runs that failed, by stage",
		}, []string{"stage"}),
		cacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_cache_hits_total",
			Help: "Total number of analyses served from the result cache",
		}),
		runInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "review_run_in_progress",
			Help: "1 while an analysis run is executing",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "review_run_duration_seconds",
			Help:    "Wall time of completed analysis runs",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		}),
		framesSampled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_frames_sampled_total",
			Help: "Total number of frames sampled for telop detection",
		}),
		frameErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_frame_errors_total",
			Help: "Total number of sampled frames skipped after an OCR or encode failure",
		}),
		telopsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_telops_emitted_total",
			Help: "Total number of telop events emitted",
		}),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_http_requests_total",
			Help: "Total number of HTTP requests received",
		}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "review_http_errors_total",
			Help: "Total number of HTTP responses with error status (4xx or 5xx)",
		}),
	}

	registry.MustRegister(
		m.runsTotal,
		m.failuresTotal,
		m.cacheHitsTotal,
		m.runInProgress,
		m.runDuration,
		m.framesSampled,
		m.frameErrors,
		m.telopsEmitted,
		m.requestsTotal,
		m.errorsTotal,
	)

	return m
}

// RunStarted increments the run counter and raises the in-progress gauge.
func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.runsTotal.Inc()
	m.runInProgress.Set(1)
}

// RunFinished lowers the in-progress gauge and, on success, records the duration.
func (m *Metrics) RunFinished(d time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.runInProgress.Set(0)
	if ok {
		m.runDuration.Observe(d.Seconds())
	}
}

// IncFailures increments the failure counter for stage.
func (m *Metrics) IncFailures(stage string) {
	if m == nil {
		return
	}
	m.failuresTotal.WithLabelValues(stage).Inc()
}

// IncCacheHits increments the cache hit counter.
func (m *Metrics) IncCacheHits() {
	if m == nil {
		return
	}
	m.cacheHitsTotal.Inc()
}

// AddFrames records the outcome of one telop scan.
func (m *Metrics) AddFrames(sampled, skipped, emitted int) {
	if m == nil {
		return
	}
	m.framesSampled.Add(float64(sampled))
	m.frameErrors.Add(float64(skipped))
	m.telopsEmitted.Add(float64(emitted))
}

// ObserveRequest counts one served HTTP request; status >= 400 also counts
// as an error.
func (m *Metrics) ObserveRequest(status int) {
	if m == nil {
		return
	}
	m.requestsTotal.Inc()
	if status >= 400 {
		m.errorsTotal.Inc()
	}
}

// Handler returns an http.Handler that serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "observation_analytics"

// SystemMetrics is the instrumentation snapshot embedded in the health payload.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	SourceQueries            uint64    `json:"source_queries"`
	AverageSourceQueryMs     float64   `json:"average_source_query_ms"`
	ReportsGenerated         uint64    `json:"reports_generated"`
	ReportSectionsFailed     uint64    `json:"report_sections_failed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// MetricsService owns a private Prometheus registry for the analytics engine.
type MetricsService struct {
	registry       *prometheus.Registry
	handler        http.Handler
	httpDuration   *prometheus.HistogramVec
	audienceCalls  *prometheus.CounterVec
	sourceDuration *prometheus.HistogramVec
	reports        *prometheus.CounterVec
	sectionFails   *prometheus.CounterVec

	requestCount   uint64
	requestNanos   uint64
	queryCount     uint64
	queryNanos     uint64
	reportCount    uint64
	sectionFailure uint64
}

// NewMetricsService registers the analytics collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	audienceCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "audience_calls_total",
		Help:      "Authenticated calls by caller role and route.",
	}, []string{"role", "route"})

	sourceDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "source",
		Name:      "query_duration_seconds",
		Help:      "Duration of scoped observation record queries.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"query"})

	reports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "reports",
		Name:      "generated_total",
		Help:      "Reports rendered by template and format.",
	}, []string{"template", "format"})

	sectionFails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "reports",
		Name:      "section_failures_total",
		Help:      "Report sections that could not be produced.",
	}, []string{"section", "required"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "goroutines",
		Help:      "Number of live goroutines.",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(httpDuration, audienceCalls, sourceDuration, reports, sectionFails, goroutines)

	return &MetricsService{
		registry:       registry,
		handler:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		httpDuration:   httpDuration,
		audienceCalls:  audienceCalls,
		sourceDuration: sourceDuration,
		reports:        reports,
		sectionFails:   sectionFails,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestNanos, uint64(duration.Nanoseconds()))
}

// ObserveAudienceCall attributes an authenticated call to the caller's role.
func (m *MetricsService) ObserveAudienceCall(role, route string) {
	if m == nil {
		return
	}
	m.audienceCalls.WithLabelValues(role, route).Inc()
}

// ObserveDBQuery records the latency of one scoped record query.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.sourceDuration.WithLabelValues(label).Observe(duration.Seconds())
	atomic.AddUint64(&m.queryCount, 1)
	atomic.AddUint64(&m.queryNanos, uint64(duration.Nanoseconds()))
}

// RecordReport counts a rendered report.
func (m *MetricsService) RecordReport(template, format string) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(template, format).Inc()
	atomic.AddUint64(&m.reportCount, 1)
}

// RecordSectionFailure counts a report section that failed to assemble.
func (m *MetricsService) RecordSectionFailure(section string, required bool) {
	if m == nil {
		return
	}
	m.sectionFails.WithLabelValues(section, strconv.FormatBool(required)).Inc()
	atomic.AddUint64(&m.sectionFailure, 1)
}

// Snapshot returns aggregated counters for the health endpoint.
func (m *MetricsService) Snapshot() SystemMetrics {
	if m == nil {
		return SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	queries := atomic.LoadUint64(&m.queryCount)

	return SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: averageMillis(atomic.LoadUint64(&m.requestNanos), requests),
		SourceQueries:            queries,
		AverageSourceQueryMs:     averageMillis(atomic.LoadUint64(&m.queryNanos), queries),
		ReportsGenerated:         atomic.LoadUint64(&m.reportCount),
		ReportSectionsFailed:     atomic.LoadUint64(&m.sectionFailure),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}

func averageMillis(totalNanos, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNanos) / float64(count) / float64(time.Millisecond)
}

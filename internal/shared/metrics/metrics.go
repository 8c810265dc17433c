package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	analysisStartedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "analysis_started_total",
		Help: "Total analyses started",
	})
	analysisCompletedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "analysis_completed_total",
		Help: "Total analyses completed",
	})
	analysisFailedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "analysis_failed_total",
		Help: "Total analyses failed",
	}, []string{"reason"})
	analysisDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "analysis_duration_ms",
		Help:    "Analysis duration in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	})
	recordsCreatedTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "energy_use_records_created_total",
		Help: "Total Energy Use records created from analysis results",
	})
	filesUploadedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "files_uploaded_total",
		Help: "Total files uploaded by detected mime type",
	}, []string{"mime"})
	rateLimitedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"group"})
	panicsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "http_panics_total",
		Help: "Handler panics recovered by route",
	}, []string{"route"})
	requestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Registry exposes the process registry, mainly for tests.
func Registry() *prometheus.Registry {
	return registry
}

// IncAnalysisStarted increments the started counter.
func IncAnalysisStarted() {
	analysisStartedTotal.Inc()
}

// IncAnalysisCompleted increments the completed counter.
func IncAnalysisCompleted() {
	analysisCompletedTotal.Inc()
}

// IncAnalysisFailed increments the failed counter for reason.
func IncAnalysisFailed(reason string) {
	analysisFailedTotal.WithLabelValues(reason).Inc()
}

// ObserveAnalysisDurationMs records an analysis duration in milliseconds.
func ObserveAnalysisDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	analysisDuration.Observe(value)
}

// AddRecordsCreated counts created Energy Use records.
func AddRecordsCreated(n int) {
	if n > 0 {
		recordsCreatedTotal.Add(float64(n))
	}
}

// IncFileUploaded counts an upload by mime type.
func IncFileUploaded(mime string) {
	filesUploadedTotal.WithLabelValues(mime).Inc()
}

// IncRateLimited counts a rejected request.
func IncRateLimited(group string) {
	rateLimitedTotal.WithLabelValues(group).Inc()
}

// IncPanic counts a recovered handler panic.
func IncPanic(route string) {
	if route == "" {
		route = "unmatched"
	}
	panicsTotal.WithLabelValues(route).Inc()
}

// ObserveRequest records request latency.
func ObserveRequest(method, route string, status int, d time.Duration) {
	requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
}

// Since returns milliseconds elapsed since start.
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

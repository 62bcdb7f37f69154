package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Execution outcomes used as the status label
const (
	StatusSuccess      = "success"
	StatusError        = "error"
	StatusInvalid      = "invalid"
	StatusUnauthorized = "unauthorized"
	StatusNotFound     = "not_found"
)

// UnknownTool is the tool label for identifiers outside the registry
const UnknownTool = "unknown"

type pluginMetrics struct {
	toolExecutionTotal     *prometheus.CounterVec
	toolExecutionDuration  *prometheus.HistogramVec
	toolValidationFailures *prometheus.CounterVec

	upstreamRequestsTotal   *prometheus.CounterVec
	upstreamRequestDuration *prometheus.HistogramVec

	manifestReloadsTotal *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metricsInst *pluginMetrics
)

func getMetrics() *pluginMetrics {
	metricsOnce.Do(func() {
		m := &pluginMetrics{
			toolExecutionTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "tool_execution_total",
					Help: "Total tool executions by tool and status.",
				},
				[]string{"tool", "status"},
			),
			toolExecutionDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "tool_execution_duration_seconds",
					Help:    "Tool execution duration in seconds by tool.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"tool"},
			),
			toolValidationFailures: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "tool_validation_failures_total",
					Help: "Total rejected tool inputs by tool.",
				},
				[]string{"tool"},
			),
			upstreamRequestsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "upstream_requests_total",
					Help: "Total LLM requests forwarded to the host by provider and status.",
				},
				[]string{"provider", "status"},
			),
			upstreamRequestDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "upstream_request_duration_seconds",
					Help:    "Host LLM request duration in seconds by provider.",
					Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
				},
				[]string{"provider"},
			),
			manifestReloadsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "remote_manifest_reloads_total",
					Help: "Total remote manifest reloads by status.",
				},
				[]string{"status"},
			),
		}

		prometheus.MustRegister(
			m.toolExecutionTotal,
			m.toolExecutionDuration,
			m.toolValidationFailures,
			m.upstreamRequestsTotal,
			m.upstreamRequestDuration,
			m.manifestReloadsTotal,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

func MetricsHandler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

// RecordToolExecution records one dispatch attempt. Unknown identifiers are
// folded into a single label value to keep cardinality bounded.
func RecordToolExecution(tool, status string, duration time.Duration) {
	m := getMetrics()
	if status == StatusNotFound {
		tool = UnknownTool
	}
	m.toolExecutionTotal.WithLabelValues(tool, status).Inc()
	m.toolExecutionDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

func RecordValidationFailure(tool string) {
	getMetrics().toolValidationFailures.WithLabelValues(tool).Inc()
}

func RecordUpstreamRequest(provider string, duration time.Duration, success bool) {
	m := getMetrics()
	status := StatusError
	if success {
		status = StatusSuccess
	}
	m.upstreamRequestsTotal.WithLabelValues(provider, status).Inc()
	m.upstreamRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func RecordManifestReload(success bool) {
	status := StatusError
	if success {
		status = StatusSuccess
	}
	getMetrics().manifestReloadsTotal.WithLabelValues(status).Inc()
}

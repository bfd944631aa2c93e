package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector exported on /metrics
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// Submission outcomes
const (
	OutcomeSent             = "sent"
	OutcomeNotConfigured    = "not_configured"
	OutcomeRateLimited      = "rate_limited"
	OutcomeInvalid          = "invalid"
	OutcomeVerificationFail = "verification_failed"
	OutcomeRelayFailed      = "relay_failed"
)

var (
	// Contact form submissions by terminal outcome
	ContactSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Total number of contact form submissions by outcome",
		},
		[]string{"outcome"},
	)

	// Outbound call latency (seconds) for the verifier and mail provider
	OutboundCallDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outbound_call_duration_seconds",
			Help:    "Latency of calls to third-party services in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 11), // 10ms to ~10s
		},
		[]string{"target", "status"},
	)

	// HTTP request latency (seconds)
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// IncrementSubmission counts a contact submission outcome
func IncrementSubmission(outcome string) {
	ContactSubmissions.WithLabelValues(outcome).Inc()
}

// RecordOutboundCall records the latency of a third-party call
func RecordOutboundCall(target string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	OutboundCallDuration.WithLabelValues(target, status).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records HTTP request latency
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

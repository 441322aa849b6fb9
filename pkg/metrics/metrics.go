package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Invocation outcomes used as the "outcome" label.
const (
	OutcomeOK              = "ok"
	OutcomeInvalidArgument = "invalid_argument"
	OutcomeError           = "error"
)

// InvocationsTotal counts implementation invocations by implementation id and outcome
var InvocationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "algohost_invocations_total",
		Help: "Total number of implementation invocations",
	},
	[]string{"impl", "outcome"},
)

// InvocationDuration records how long implementations take to return
var InvocationDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "algohost_invocation_duration_seconds",
		Help:    "Latency in seconds of implementation invocations",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"impl"},
)

// HTTP metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algohost_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "algohost_http_request_duration_seconds",
			Help:    "Latency in seconds of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(InvocationsTotal, InvocationDuration)
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration)
}

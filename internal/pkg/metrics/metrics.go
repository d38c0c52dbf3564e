package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homyhive",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "homyhive",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	applicationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homyhive",
			Subsystem: "hosts",
			Name:      "application_transitions_total",
			Help:      "Host application status transitions.",
		},
		[]string{"from", "to"},
	)

	bookingsConfirmed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "homyhive",
			Subsystem: "payments",
			Name:      "bookings_confirmed_total",
			Help:      "Bookings persisted after payment verification.",
		},
	)

	signatureFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homyhive",
			Subsystem: "payments",
			Name:      "signature_failures_total",
			Help:      "Payment verifications rejected for a bad signature.",
		},
		[]string{"purpose"},
	)

	upstreamFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homyhive",
			Subsystem: "upstream",
			Name:      "failures_total",
			Help:      "Failed calls to external collaborators.",
		},
		[]string{"service"},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homyhive",
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Scheduled job executions.",
		},
		[]string{"job", "success"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		applicationTransitions,
		bookingsConfirmed,
		signatureFailures,
		upstreamFailures,
		jobRuns,
	)
}

// Handler exposes the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one handled request
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordTransition counts a host application status change
func RecordTransition(from, to string) {
	applicationTransitions.WithLabelValues(from, to).Inc()
}

// RecordBookingConfirmed counts a persisted booking
func RecordBookingConfirmed() {
	bookingsConfirmed.Inc()
}

// RecordSignatureFailure counts a rejected payment signature
func RecordSignatureFailure(purpose string) {
	signatureFailures.WithLabelValues(purpose).Inc()
}

// RecordUpstreamFailure counts a failed call to an external service
func RecordUpstreamFailure(service string) {
	upstreamFailures.WithLabelValues(service).Inc()
}

// RecordJobRun counts a scheduler execution
func RecordJobRun(job string, success bool) {
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
}

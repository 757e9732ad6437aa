package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// upstreamReqs counts outbound calls by service, method and outcome
	// ("ok" or the failure kind).
	upstreamReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of requests sent to backend services.",
		},
		[]string{"service", "method", "outcome"},
	)

	// upstreamLat records outbound call latency. Outcome is left out to keep
	// the histogram small.
	upstreamLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of requests sent to backend services.",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method"},
	)

	// enrollmentOps counts reconciler calls by resource kind, action and
	// outcome (applied, absorbed, noop, failed).
	enrollmentOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrollment_ops_total",
			Help: "Enroll/unenroll operations by outcome.",
		},
		[]string{"kind", "action", "outcome"},
	)

	// cacheLookups counts result cache reads by hit/miss.
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Result cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(upstreamReqs, upstreamLat, enrollmentOps, cacheLookups)
}

// ObserveUpstream records one outbound call.
func ObserveUpstream(service, method, outcome string, d time.Duration) {
	upstreamReqs.WithLabelValues(service, method, outcome).Inc()
	upstreamLat.WithLabelValues(service, method).Observe(d.Seconds())
}

// CountEnrollment records one reconciler call.
func CountEnrollment(kind, action, outcome string) {
	enrollmentOps.WithLabelValues(kind, action, outcome).Inc()
}

// CountCacheLookup records a cache hit or miss.
func CountCacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

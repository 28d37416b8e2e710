package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "td",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total HTTP requests issued to the remote service",
	}, []string{"method", "status"})

	// RetriesTotal counts retry attempts after a 429 response.
	RetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "td",
		Subsystem: "api",
		Name:      "retries_total",
		Help:      "Total request retries triggered by rate limiting",
	})

	// RateLimitExhaustedTotal counts requests that failed after all
	// retries were spent on 429 responses.
	RateLimitExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "td",
		Subsystem: "api",
		Name:      "rate_limit_exhausted_total",
		Help:      "Requests abandoned after exhausting rate-limit retries",
	})

	// RequestDuration observes wall time per request attempt.
	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "td",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "HTTP request attempt duration",
		Buckets:   prometheus.DefBuckets,
	})
)

package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

var knownRoutes = map[string]struct{}{
	"/api/schedule":        {},
	"/api/schedule/upload": {},
	"/api/export/csv":      {},
	"/api/export/xlsx":     {},
	"/api/export/pdf":      {},
	"/api/export/chart":    {},
	"/api/version":         {},
	"/healthz":             {},
	"/metrics":             {},
}

type metrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	schedules prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loan_schedule",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "loan_schedule",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		schedules: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "loan_schedule",
			Name:      "schedules_computed_total",
			Help:      "Amortization schedules generated.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.schedules)
	return m
}

// routeLabel keeps label cardinality bounded for unknown paths.
func routeLabel(path string) string {
	if _, ok := knownRoutes[path]; ok {
		return path
	}
	return "other"
}

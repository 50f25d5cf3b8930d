// Package metrics defines the Prometheus collectors musaed exports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/musaed-ai/musaed/pkg/models"
)

var (
	// AnswersTotal counts answers by source.
	AnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "musaed_answers_total",
			Help: "Total number of answered questions by answer source",
		},
		[]string{"source"},
	)

	// AnalyzeDuration observes how long Ask takes.
	AnalyzeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "musaed_analyze_duration_seconds",
			Help:    "Time spent producing an answer",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
	)

	// CodeActionsTotal counts code actions by action and outcome.
	CodeActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "musaed_code_actions_total",
			Help: "Total number of simulated code actions by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	// HTTPRequestsTotal counts API requests by route and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "musaed_http_requests_total",
			Help: "Total number of HTTP API requests by route and status code",
		},
		[]string{"route", "code"},
	)

	// DNSQueriesTotal counts DNS questions by outcome.
	DNSQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "musaed_dns_queries_total",
			Help: "Total number of DNS questions by outcome",
		},
		[]string{"outcome"},
	)

	// RateLimitedTotal counts rejected requests by front-end.
	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "musaed_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"frontend"},
	)
)

// NewRegistry returns a registry carrying the runtime collectors and every
// musaed metric.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		AnswersTotal,
		AnalyzeDuration,
		CodeActionsTotal,
		HTTPRequestsTotal,
		DNSQueriesTotal,
		RateLimitedTotal,
	)
	return reg
}

// RegisterCache exposes response cache counters read through stats.
func RegisterCache(reg prometheus.Registerer, stats func() models.CacheStats) {
	reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "musaed_cache_hits_total",
			Help: "Total number of response cache hits",
		}, func() float64 { return float64(stats().Hits) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "musaed_cache_misses_total",
			Help: "Total number of response cache misses",
		}, func() float64 { return float64(stats().Misses) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "musaed_cache_entries",
			Help: "Number of entries held in the response cache",
		}, func() float64 { return float64(stats().Entries) }),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

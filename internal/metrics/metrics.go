// Package metrics defines Prometheus collectors for DNS comparison runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts DNS queries by nameserver target, query type and result status.
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dnscompare_queries_total",
		Help: "Total DNS queries issued, by target, qtype and status",
	}, []string{"target", "qtype", "status"})

	// QueryErrors counts query-level failures by target and reason.
	QueryErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dnscompare_query_errors_total",
		Help: "Total DNS query failures, by target and reason",
	}, []string{"target", "reason"})

	// QueryDuration observes per-query latency in seconds.
	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dnscompare_query_duration_seconds",
		Help:    "DNS query duration in seconds, by target and qtype",
		Buckets: prometheus.DefBuckets,
	}, []string{"target", "qtype"})

	// ComparisonsTotal counts comparison results by outcome (success, warning, error).
	ComparisonsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dnscompare_comparisons_total",
		Help: "Total comparisons performed, by outcome",
	}, []string{"outcome"})

	// APIRequestsTotal counts API requests by endpoint.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dnscompare_api_requests_total",
		Help: "Total API requests, by endpoint",
	}, []string{"endpoint"})

	// APIResultPollsTotal counts task status polls.
	APIResultPollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dnscompare_api_result_polls_total",
		Help: "Total task result poll requests",
	})
)

// RecordQuery updates query counters and the duration histogram in one call.
func RecordQuery(target, qtype, status string, seconds float64) {
	QueriesTotal.WithLabelValues(target, qtype, status).Inc()
	QueryDuration.WithLabelValues(target, qtype).Observe(seconds)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "status_admin_check_requests_total",
		Help: "Status check lookups by outcome",
	}, []string{"outcome"})

	CheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "status_admin_check_duration_seconds",
		Help:    "Time to answer a status check lookup",
		Buckets: prometheus.DefBuckets,
	})

	CheckMatches = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "status_admin_check_matches",
		Help:    "Number of statuses returned per check",
		Buckets: []float64{0, 1, 2, 5, 10, 25},
	})

	CorruptDocuments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "status_admin_corrupt_documents_total",
		Help: "Stored status documents skipped because they could not be decoded",
	})

	CorruptExpressions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "status_admin_corrupt_expressions_total",
		Help: "Stored version expressions that failed to parse at match time",
	}, []string{"field"})

	StatusWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "status_admin_status_writes_total",
		Help: "Administrative writes by action",
	}, []string{"action"})

	RejectedWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "status_admin_rejected_writes_total",
		Help: "Create/update requests rejected by validation",
	})
)

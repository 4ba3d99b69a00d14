package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the counters below
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
)

var (
	// PostalLookups counts postal code lookups by outcome
	PostalLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_cadastro_postal_lookups_total",
			Help: "Number of postal code lookups",
		},
		[]string{"outcome"},
	)

	// PostalLookupDuration tracks the latency of directory requests
	PostalLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "app_cadastro_postal_lookup_duration_seconds",
			Help:    "Duration of postal code directory requests in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// CacheHits tracks cache hits/misses
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_cadastro_cache_hits_total",
			Help: "Number of address cache lookups",
		},
		[]string{"result"},
	)

	// StaleLookupsDiscarded counts lookup responses superseded by a newer postal code
	StaleLookupsDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "app_cadastro_stale_lookups_discarded_total",
			Help: "Number of postal code lookup responses discarded because a newer lookup was issued",
		},
	)

	// ValidationFailures counts field errors raised by full validation passes
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_cadastro_validation_failures_total",
			Help: "Number of field validation failures",
		},
		[]string{"field"},
	)

	// Submissions tracks submit attempts by outcome
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_cadastro_submissions_total",
			Help: "Number of registration submit attempts",
		},
		[]string{"outcome"},
	)
)

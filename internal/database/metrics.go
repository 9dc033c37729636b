package database

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Firestore query execution time
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "haanaihang_firestore_query_duration_seconds",
			Help:    "Firestore query execution time in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation", "collection", "status"},
	)

	// Firestore query count
	dbQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haanaihang_firestore_query_total",
			Help: "Total number of Firestore queries",
		},
		[]string{"operation", "collection", "status"},
	)

	// Slow queries (>1s) usually mean a missing composite index
	dbSlowQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "haanaihang_firestore_slow_queries_total",
			Help: "Total number of slow Firestore queries (>1 second)",
		},
		[]string{"operation", "collection"},
	)
)

// observeQuery records duration and outcome for one Firestore operation.
func observeQuery(operation, collection string, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	dbQueryDuration.WithLabelValues(operation, collection, outcome).Observe(elapsed.Seconds())
	dbQueryTotal.WithLabelValues(operation, collection, outcome).Inc()

	if elapsed > time.Second {
		dbSlowQueriesTotal.WithLabelValues(operation, collection).Inc()
	}
}

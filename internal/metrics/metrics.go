// Package metrics defines the Prometheus instruments for the recommender.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "niteru_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "niteru_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "niteru_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Query metrics
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "niteru_queries_total",
			Help: "Total number of recommendation queries by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// Build metrics
	BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "niteru_build_duration_seconds",
			Help:    "Duration of catalog load and model builds in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	BuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "niteru_builds_total",
			Help: "Total number of rebuild attempts by outcome (built, unchanged, failed)",
		},
		[]string{"outcome"},
	)

	BuildLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "niteru_build_last_success_timestamp",
			Help: "Unix time of the last successful build",
		},
	)

	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "niteru_catalog_movies",
			Help: "Number of movies in the active snapshot",
		},
	)

	VocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "niteru_vocabulary_size",
			Help: "Number of TF-IDF terms in the active snapshot",
		},
	)
)

// Build outcomes.
const (
	OutcomeBuilt     = "built"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordQuery counts a query of kind; err decides the outcome label.
func RecordQuery(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	QueriesTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordBuild records one rebuild attempt. Sizes are only applied for built snapshots.
func RecordBuild(outcome string, duration time.Duration, movies, vocabulary int) {
	BuildsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeUnchanged {
		return
	}
	BuildDuration.Observe(duration.Seconds())
	if outcome == OutcomeBuilt {
		BuildLastSuccess.Set(float64(time.Now().Unix()))
		CatalogMovies.Set(float64(movies))
		VocabularySize.Set(float64(vocabulary))
	}
}

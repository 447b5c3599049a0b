// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ranking Metrics
	RankRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_rank_requests_total",
			Help: "Total number of feed ranking requests",
		},
		[]string{"outcome"}, // "computed", "replayed", "refreshed", "error"
	)

	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedrank_rank_duration_seconds",
			Help:    "Duration of feed ranking in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RankCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedrank_rank_candidates",
			Help:    "Number of candidates per ranking request",
			Buckets: []float64{1, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// Ordering Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedrank_cache_hits_total",
			Help: "Total number of ordering cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedrank_cache_misses_total",
			Help: "Total number of ordering cache misses",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedrank_cache_evictions_total",
			Help: "Total number of ordering cache evictions (retention expiry)",
		},
	)

	// Backend Client Metrics
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_backend_requests_total",
			Help: "Total number of backend requests",
		},
		[]string{"client", "result"}, // client: "history", "catalog"; result: "success", "failure"
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedrank_backend_request_duration_seconds",
			Help:    "Duration of backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"client"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedrank_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feedrank_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)
)

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRank records a ranking request and its outcome.
func RecordRank(outcome string, candidates int, duration time.Duration) {
	RankRequests.WithLabelValues(outcome).Inc()
	if outcome != "error" {
		RankDuration.Observe(duration.Seconds())
		RankCandidates.Observe(float64(candidates))
	}
}

// RecordBackendRequest records a backend request and its result.
func RecordBackendRequest(client string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	BackendRequests.WithLabelValues(client, result).Inc()
	BackendRequestDuration.WithLabelValues(client).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

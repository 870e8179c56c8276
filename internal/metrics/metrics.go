// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

// Package metrics exposes Prometheus instrumentation for the HTTP API, the
// watchlist manager, the catalog client, and the recommendation engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reeltrack_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	WatchlistMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reeltrack_watchlist_mutations_total",
			Help: "Total watchlist mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reeltrack_catalog_requests_total",
			Help: "Total catalog API lookups by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reeltrack_cache_hits_total",
			Help: "Total cache hits by cache layer",
		},
		[]string{"layer"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reeltrack_cache_misses_total",
			Help: "Total cache misses by cache layer",
		},
		[]string{"layer"},
	)

	RecommendationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reeltrack_recommendation_runs_total",
			Help: "Total recommendation runs by result status",
		},
		[]string{"status"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reeltrack_recommendation_duration_seconds",
			Help:    "Duration of recommendation runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).
		Observe(duration.Seconds())
}

// RecordMutation records a watchlist mutation's outcome.
func RecordMutation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	WatchlistMutations.WithLabelValues(operation, outcome).Inc()
}

// RecordRecommendation records one recommendation run.
func RecordRecommendation(status string, duration time.Duration) {
	RecommendationRuns.WithLabelValues(status).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

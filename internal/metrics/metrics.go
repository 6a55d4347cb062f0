// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt outcomes used as the "outcome" label value.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// Ingestion Metrics
	LoaderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usagelens_loader_attempts_total",
			Help: "Total number of load strategy attempts",
		},
		[]string{"source", "strategy", "outcome"},
	)

	LoaderSyntheticFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usagelens_loader_synthetic_fallbacks_total",
			Help: "Total number of sources that degraded to synthetic placeholder data",
		},
		[]string{"source"},
	)

	LoaderRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usagelens_loader_rows_total",
			Help: "Total number of raw rows loaded",
		},
		[]string{"source"},
	)

	LoaderRowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usagelens_loader_rows_skipped_total",
			Help: "Total number of malformed raw rows skipped by a successful strategy",
		},
		[]string{"source"},
	)

	LoaderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "usagelens_loader_duration_seconds",
			Help:    "Time spent loading one source",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	// Extraction and Normalization Metrics
	PayloadTiers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usagelens_payload_tier_total",
			Help: "Total number of payloads resolved per extraction tier",
		},
		[]string{"tier"},
	)

	NormalizeRowsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "usagelens_normalize_rows_dropped_total",
			Help: "Total number of rows dropped for unparseable timestamps",
		},
	)

	TableRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "usagelens_table_rows",
			Help: "Number of rows in the canonical event table",
		},
	)

	PipelineBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "usagelens_pipeline_build_duration_seconds",
			Help:    "Time spent building the canonical table",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usagelens_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "usagelens_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "usagelens_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usagelens_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "usagelens_cache_hits_total",
			Help: "Total number of analytics cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "usagelens_cache_misses_total",
			Help: "Total number of analytics cache misses",
		},
	)
)

// RecordLoadAttempt records one load strategy attempt.
func RecordLoadAttempt(source, strategy string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	LoaderAttempts.WithLabelValues(source, strategy, outcome).Inc()
}

// RecordSourceLoaded records the final outcome of loading one source.
func RecordSourceLoaded(source string, rows, skipped int, synthetic bool, duration time.Duration) {
	LoaderRows.WithLabelValues(source).Add(float64(rows))
	if skipped > 0 {
		LoaderRowsSkipped.WithLabelValues(source).Add(float64(skipped))
	}
	if synthetic {
		LoaderSyntheticFallbacks.WithLabelValues(source).Inc()
	}
	LoaderDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordPayloadTier records n payloads resolved by the given extraction tier.
func RecordPayloadTier(tier string, n int) {
	if n > 0 {
		PayloadTiers.WithLabelValues(tier).Add(float64(n))
	}
}

// RecordRowsDropped records rows dropped during normalization.
func RecordRowsDropped(n int) {
	if n > 0 {
		NormalizeRowsDropped.Add(float64(n))
	}
}

// RecordPipelineBuild records a completed pipeline build.
func RecordPipelineBuild(rows int, duration time.Duration) {
	TableRows.Set(float64(rows))
	PipelineBuildDuration.Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordCacheLookup records an analytics cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		CacheHits.Inc()
	} else {
		CacheMisses.Inc()
	}
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package middleware provides the HTTP middleware shared by the API router.

Key Components:

  - RequestID: accepts or generates an X-Request-ID and seeds the logging
    context with request and correlation IDs
  - PrometheusMetrics: request counts, latency and in-flight gauge, labelled
    by the chi route pattern so path parameters do not explode cardinality
  - AccessLog: one structured zerolog line per request, promoted to a
    warning when the request exceeds the slow threshold

Middleware Stack:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(middleware.PrometheusMetrics)

All components are safe for concurrent use; per-request state lives in the
request context or in a per-request response wrapper.

See Also:

  - internal/api: handlers wrapped by these middleware
  - internal/metrics: Prometheus collector definitions
*/
package middleware

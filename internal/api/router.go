// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/usagelens/internal/metrics"
	"github.com/tomtom215/usagelens/internal/middleware"
)

// slowRequestThreshold promotes access log lines to warnings.
const slowRequestThreshold = time.Second

// NewRouter builds the chi router serving the API and the Prometheus
// endpoint.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog(slowRequestThreshold))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         86400,
	}))
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		r.Route("/health", func(r chi.Router) {
			r.Get("/live", h.Live)
			r.Get("/ready", h.Ready)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit())

			r.Get("/sources", h.Sources)
			r.Get("/filters", h.Filters)
			r.Get("/events", h.Events)

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/overview", h.Overview)
				r.Get("/kpis", h.KPIs)

				r.Route("/engagement", func(r chi.Router) {
					r.Get("/maturity", h.ActorMaturity)
					r.Get("/quality", h.SessionQuality)
					r.Get("/segments", h.SessionSegments)
				})

				r.Route("/navigation", func(r chi.Router) {
					r.Get("/flows", h.Flows)
					r.Get("/graph", h.FlowGraph)
					r.Get("/paths", h.Paths)
					r.Get("/exits", h.PageExits)
					r.Get("/drop-off", h.DropOff)
					r.Get("/journeys", h.Journeys)
				})

				r.Get("/learning-curve", h.LearningCurve)
				r.Get("/sources", h.SourceSummaries)
				r.Get("/daily-active-users", h.DailyActiveUsers)
				r.Get("/hourly", h.HourlyUsage)
				r.Get("/durations", h.DurationDistribution)
				r.Get("/screens", h.ScreenPopularity)
				r.Get("/breakdown/{dimension}", h.Breakdown)
				r.Get("/top/{dimension}", h.TopValues)
				r.Get("/locations", h.Locations)
			})
		})
	})

	return r
}

// rateLimit returns the per-IP limiter of the data endpoints, or a no-op
// when rate limiting is disabled.
func (h *Handler) rateLimit() func(http.Handler) http.Handler {
	if h.cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		h.cfg.RateLimitReqs,
		h.cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimitHit(r.URL.Path)
			WriteError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded")
		}),
	)
}

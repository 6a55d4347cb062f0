// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/usagelens/internal/analytics"
	"github.com/tomtom215/usagelens/internal/cache"
	"github.com/tomtom215/usagelens/internal/config"
	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/models"
)

// TableSource provides the canonical table once it has been built.
// *pipeline.Pipeline satisfies it.
type TableSource interface {
	Ready() bool
	Table() (*dataset.Table, error)
	Report() (models.LoadReport, error)
}

// Handler serves the API endpoints.
type Handler struct {
	engine    *analytics.Engine
	source    TableSource
	cache     *cache.Cache
	cfg       config.APIConfig
	startTime time.Time
}

// NewHandler creates a handler. c may be nil to disable response caching.
func NewHandler(engine *analytics.Engine, source TableSource, c *cache.Cache, cfg config.APIConfig) *Handler {
	return &Handler{
		engine:    engine,
		source:    source,
		cache:     c,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// table returns the canonical table or writes a 503 when it is not built yet.
func (h *Handler) table(rw *ResponseWriter) (*dataset.Table, bool) {
	tbl, err := h.source.Table()
	if err != nil {
		rw.ServiceUnavailable("Dataset is not ready")
		return nil, false
	}
	return tbl, true
}

// analyticsFunc computes one analytics result over the filtered subset.
type analyticsFunc func(r *http.Request, q query, events []models.Event) (any, error)

// analytics wraps fn in the cache-first flow shared by every analytics
// endpoint: resolve the table, look up the cache, parse and validate the
// query, filter, compute and store.
func (h *Handler) analytics(fn analyticsFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rw := NewResponseWriter(w, r)
		tbl, ok := h.table(rw)
		if !ok {
			return
		}

		values := r.URL.Query()
		key := cache.GenerateKey(r.URL.Path, values)
		if h.cache != nil {
			if data, found := h.cache.Get(key); found {
				rw.SuccessWithMeta(data, &APIMeta{Cached: true})
				return
			}
		}

		q, err := h.parseQuery(values, tbl)
		if err != nil {
			rw.Fail(err)
			return
		}

		data, err := fn(r, q, dataset.Apply(tbl, q.filter))
		if err != nil {
			rw.Fail(err)
			return
		}

		if h.cache != nil {
			h.cache.Set(key, data)
		}
		rw.Success(data)
	}
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/usagelens/internal/models"
)

// HealthStatus is the body of the health checks.
type HealthStatus struct {
	Status  string          `json:"status"`
	Uptime  float64         `json:"uptime_seconds"`
	Rows    int             `json:"rows,omitempty"`
	Sources []models.Source `json:"sources,omitempty"`
}

// Health statuses.
const (
	statusAlive    = "alive"
	statusReady    = "ready"
	statusNotReady = "not_ready"
)

// Live reports that the process is serving requests.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthStatus{
		Status: statusAlive,
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// Ready reports whether the canonical table has been built. It answers 503
// until the pipeline build succeeds.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	status := HealthStatus{
		Status: statusNotReady,
		Uptime: time.Since(h.startTime).Seconds(),
	}

	tbl, err := h.source.Table()
	if !h.source.Ready() || err != nil {
		rw.Status(http.StatusServiceUnavailable, status)
		return
	}

	status.Status = statusReady
	status.Rows = tbl.Len()
	status.Sources = tbl.Sources()
	rw.Success(status)
}

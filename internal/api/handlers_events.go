// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"net/http"

	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/models"
)

// Sources returns the load report of the pipeline build.
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	report, err := h.source.Report()
	if err != nil {
		rw.ServiceUnavailable("Dataset is not ready")
		return
	}
	rw.Success(report)
}

// FilterOptions lists the values the filter parameters can take.
type FilterOptions struct {
	Sources    []models.Source `json:"sources"`
	DateFrom   string          `json:"date_from,omitempty"`
	DateTo     string          `json:"date_to,omitempty"`
	Devices    []string        `json:"devices"`
	Countries  []string        `json:"countries"`
	EventTypes []string        `json:"event_types"`
	Dimensions []string        `json:"dimensions"`
}

// Filters returns the available filter values of the canonical table.
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	tbl, ok := h.table(rw)
	if !ok {
		return
	}

	opts := FilterOptions{
		Sources:    tbl.Sources(),
		Devices:    tbl.Distinct(dataset.DimensionDevice),
		Countries:  tbl.Distinct(dataset.DimensionCountry),
		EventTypes: tbl.Distinct(dataset.DimensionEventType),
	}
	if from, to, ok := tbl.DateBounds(); ok {
		opts.DateFrom = from.Format(models.DateLayout)
		opts.DateTo = to.Format(models.DateLayout)
	}
	for _, d := range dataset.Dimensions() {
		opts.Dimensions = append(opts.Dimensions, string(d))
	}
	rw.Success(opts)
}

// Events returns one page of the filtered and refined rows, in table order.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	tbl, ok := h.table(rw)
	if !ok {
		return
	}

	values := r.URL.Query()
	q, err := h.parseQuery(values, tbl)
	if err != nil {
		rw.Fail(err)
		return
	}
	page, err := h.parsePage(values)
	if err != nil {
		rw.Fail(err)
		return
	}
	refinement, err := parseRefinement(values)
	if err != nil {
		rw.Fail(err)
		return
	}

	rows := dataset.Refine(dataset.Apply(tbl, q.filter), refinement)

	total := len(rows)
	from := min((page.Page-1)*page.PageSize, total)
	to := min(from+page.PageSize, total)
	pageRows := rows[from:to]

	rw.SuccessWithPagination(pageRows, &PaginationMeta{
		Total:    total,
		Count:    len(pageRows),
		Page:     page.Page,
		PageSize: page.PageSize,
		HasMore:  to < total,
	})
}

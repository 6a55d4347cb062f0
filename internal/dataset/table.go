// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package dataset

import (
	"slices"
	"time"

	"github.com/tomtom215/usagelens/internal/models"
)

// Table is the immutable canonical event table.
type Table struct {
	rows    []models.Event
	sources []models.Source
	from    time.Time
	to      time.Time
}

// NewTable takes ownership of rows. sources is the configured source order;
// sources present in rows but missing from the list are appended in order of
// first appearance.
func NewTable(rows []models.Event, sources []models.Source) *Table {
	t := &Table{rows: rows, sources: slices.Clone(sources)}

	known := make(map[models.Source]bool, len(sources))
	for _, s := range sources {
		known[s] = true
	}
	for i := range rows {
		e := &rows[i]
		if !known[e.Source] {
			known[e.Source] = true
			t.sources = append(t.sources, e.Source)
		}
		if t.from.IsZero() || e.Date.Before(t.from) {
			t.from = e.Date
		}
		if e.Date.After(t.to) {
			t.to = e.Date
		}
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns a copy of the row slice.
func (t *Table) Rows() []models.Event {
	return slices.Clone(t.rows)
}

// Sources returns the table's sources in configured order.
func (t *Table) Sources() []models.Source {
	return slices.Clone(t.sources)
}

// DateBounds returns the earliest and latest calendar dates in the table.
// ok is false for an empty table.
func (t *Table) DateBounds() (from, to time.Time, ok bool) {
	if len(t.rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return t.from, t.to, true
}

// Distinct returns the sorted distinct non-empty values of a dimension.
func (t *Table) Distinct(dim Dimension) []string {
	seen := make(map[string]struct{})
	for i := range t.rows {
		if v, ok := dim.Value(&t.rows[i]); ok {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

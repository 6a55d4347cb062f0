// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package dataset

import (
	"strings"
	"time"

	"github.com/tomtom215/usagelens/internal/models"
)

// Filter selects a subset of the table. Zero-valued criteria are inactive,
// except Sources: an empty source list selects nothing.
type Filter struct {
	Sources    []models.Source
	Start      time.Time // inclusive calendar date, zero for unbounded
	End        time.Time // inclusive calendar date, zero for unbounded
	DeviceType string
	Country    string
	EventType  string
	TextQuery  string
}

// Apply returns the rows of t matching every criterion of f, in table order.
// The result is a fresh slice; t is not modified.
func Apply(t *Table, f Filter) []models.Event {
	out := []models.Event{}
	if len(f.Sources) == 0 {
		return out
	}

	m := newMatcher(f)
	for i := range t.rows {
		if m.match(&t.rows[i]) {
			out = append(out, t.rows[i])
		}
	}
	return out
}

type matcher struct {
	f       Filter
	sources map[models.Source]bool
	start   time.Time
	end     time.Time
	query   string
}

func newMatcher(f Filter) matcher {
	m := matcher{
		f:       f,
		sources: make(map[models.Source]bool, len(f.Sources)),
		query:   strings.ToLower(strings.TrimSpace(f.TextQuery)),
	}
	for _, s := range f.Sources {
		m.sources[s] = true
	}
	if !f.Start.IsZero() {
		m.start = dateOf(f.Start)
	}
	if !f.End.IsZero() {
		m.end = dateOf(f.End)
	}
	return m
}

func (m *matcher) match(e *models.Event) bool {
	if !m.sources[e.Source] {
		return false
	}
	if !m.start.IsZero() && e.Date.Before(m.start) {
		return false
	}
	if !m.end.IsZero() && e.Date.After(m.end) {
		return false
	}
	if m.f.DeviceType != "" && e.DeviceType != m.f.DeviceType {
		return false
	}
	if m.f.Country != "" && e.Country != m.f.Country {
		return false
	}
	if m.f.EventType != "" && e.EventType != m.f.EventType {
		return false
	}
	if m.query != "" && !matchesText(e, m.query) {
		return false
	}
	return true
}

func matchesText(e *models.Event, query string) bool {
	for _, v := range [...]string{e.ActorID, e.Page, e.Widget, e.EventType, e.Country, e.Location} {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

// dateOf truncates t to midnight UTC of its own calendar date, matching
// Event.Date.
func dateOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// Refinement holds the raw-data search options applied after Apply.
type Refinement struct {
	Actor           string
	Page            string
	Widget          string
	MinDuration     *float64
	MaxDuration     *float64
	InteractiveOnly bool
}

// Refine returns the rows of events matching every refinement. Substring
// matches are case-insensitive.
func Refine(events []models.Event, r Refinement) []models.Event {
	actor := strings.ToLower(r.Actor)
	page := strings.ToLower(r.Page)
	widget := strings.ToLower(r.Widget)

	out := []models.Event{}
	for i := range events {
		e := &events[i]
		if actor != "" && !strings.Contains(strings.ToLower(e.ActorID), actor) {
			continue
		}
		if page != "" && !strings.Contains(strings.ToLower(e.Page), page) {
			continue
		}
		if widget != "" && !strings.Contains(strings.ToLower(e.Widget), widget) {
			continue
		}
		if r.MinDuration != nil && e.Duration < *r.MinDuration {
			continue
		}
		if r.MaxDuration != nil && e.Duration > *r.MaxDuration {
			continue
		}
		if r.InteractiveOnly && e.Widget == "" && e.Page == "" {
			continue
		}
		out = append(out, *e)
	}
	return out
}

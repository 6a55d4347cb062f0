// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/tomtom215/usagelens/internal/models"
)

// LearningCurve treats each active calendar day of an actor as one session.
// For every actor-day it takes the mean duration, the distinct tabs and the
// widget uses; the n-th active day of an actor is session number n. The
// result averages actor-days per (source, session number) for session
// numbers up to maxSessions (the configured default when maxSessions <= 0).
func (e *Engine) LearningCurve(events []models.Event, maxSessions int) []models.LearningPoint {
	if maxSessions <= 0 {
		maxSessions = e.th.LearningMaxSessions
	}
	order := orderOf(events)

	type dayStats struct {
		date    time.Time
		dur     []float64
		tabs    set
		widgets int
	}
	type pointKey struct {
		src models.Source
		n   int
	}
	type acc struct {
		actors               int
		dur, tabs, widgetUse float64
	}
	points := make(map[pointKey]*acc)

	g := byActor(events)
	for _, key := range g.keys {
		byDay := make(map[time.Time]*dayStats)
		for _, i := range g.rows[key] {
			ev := &events[i]
			d, ok := byDay[ev.Date]
			if !ok {
				d = &dayStats{date: ev.Date, tabs: set{}}
				byDay[ev.Date] = d
			}
			d.dur = append(d.dur, ev.Duration)
			d.tabs.add(ev.Tab)
			if ev.Widget != "" {
				d.widgets++
			}
		}

		days := make([]*dayStats, 0, len(byDay))
		for _, d := range byDay {
			days = append(days, d)
		}
		slices.SortFunc(days, func(a, b *dayStats) int { return a.date.Compare(b.date) })

		for n, d := range limit(days, maxSessions) {
			k := pointKey{key.Source, n + 1}
			a, ok := points[k]
			if !ok {
				a = &acc{}
				points[k] = a
			}
			a.actors++
			a.dur += mean(d.dur)
			a.tabs += float64(len(d.tabs))
			a.widgetUse += float64(d.widgets)
		}
	}

	out := make([]models.LearningPoint, 0, len(points))
	for k, a := range points {
		n := float64(a.actors)
		out = append(out, models.LearningPoint{
			Source:        k.src,
			SessionNumber: k.n,
			Actors:        a.actors,
			AvgDuration:   a.dur / n,
			AvgTabs:       a.tabs / n,
			AvgWidgetUses: a.widgetUse / n,
		})
	}
	slices.SortFunc(out, func(a, b models.LearningPoint) int {
		if c := order.compare(a.Source, b.Source); c != 0 {
			return c
		}
		return cmp.Compare(a.SessionNumber, b.SessionNumber)
	})
	return out
}

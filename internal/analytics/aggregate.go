// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"cmp"
	"math"
	"slices"

	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/models"
)

// unknownValue labels rows with an empty breakdown value.
const unknownValue = "Unknown"

// counter accumulates distinct actors, rows and durations for one bucket.
type counter struct {
	users  map[string]struct{}
	events int
	dur    float64
}

func (c *counter) add(ev *models.Event) {
	if c.users == nil {
		c.users = make(map[string]struct{})
	}
	c.users[ev.ActorID] = struct{}{}
	c.events++
	c.dur += ev.Duration
}

// DailyActiveUsers counts distinct actors and rows per calendar date and
// source, ordered by date and then source.
func (e *Engine) DailyActiveUsers(events []models.Event) []models.DailyActive {
	order := orderOf(events)
	type key struct {
		date string
		src  models.Source
	}
	buckets := make(map[key]*counter)
	for i := range events {
		ev := &events[i]
		k := key{ev.DateString(), ev.Source}
		if buckets[k] == nil {
			buckets[k] = &counter{}
		}
		buckets[k].add(ev)
	}

	out := make([]models.DailyActive, 0, len(buckets))
	for k, c := range buckets {
		out = append(out, models.DailyActive{Date: k.date, Source: k.src, Users: len(c.users), Events: c.events})
	}
	slices.SortFunc(out, func(a, b models.DailyActive) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return order.compare(a.Source, b.Source)
	})
	return out
}

// HourlyUsage counts distinct actors and rows per hour of day (in each
// timestamp's own zone) and source.
func (e *Engine) HourlyUsage(events []models.Event) []models.HourlyUsage {
	order := orderOf(events)
	type key struct {
		hour int
		src  models.Source
	}
	buckets := make(map[key]*counter)
	for i := range events {
		ev := &events[i]
		k := key{ev.OccurredAt.Hour(), ev.Source}
		if buckets[k] == nil {
			buckets[k] = &counter{}
		}
		buckets[k].add(ev)
	}

	out := make([]models.HourlyUsage, 0, len(buckets))
	for k, c := range buckets {
		out = append(out, models.HourlyUsage{Hour: k.hour, Source: k.src, Users: len(c.users), Events: c.events})
	}
	slices.SortFunc(out, func(a, b models.HourlyUsage) int {
		if c := cmp.Compare(a.Hour, b.Hour); c != 0 {
			return c
		}
		return order.compare(a.Source, b.Source)
	})
	return out
}

// Breakdown aggregates a dimension per value and source. Empty values are
// reported as "Unknown". Rows are ordered by events descending, then value,
// then source.
func (e *Engine) Breakdown(events []models.Event, dim dataset.Dimension) []models.BreakdownRow {
	order := orderOf(events)
	type key struct {
		value string
		src   models.Source
	}
	buckets := make(map[key]*counter)
	for i := range events {
		ev := &events[i]
		v, ok := dim.Value(ev)
		if !ok {
			v = unknownValue
		}
		k := key{v, ev.Source}
		if buckets[k] == nil {
			buckets[k] = &counter{}
		}
		buckets[k].add(ev)
	}

	out := make([]models.BreakdownRow, 0, len(buckets))
	for k, c := range buckets {
		out = append(out, models.BreakdownRow{
			Dimension:   string(dim),
			Value:       k.value,
			Source:      k.src,
			Users:       len(c.users),
			Events:      c.events,
			AvgDuration: ratio(c.dur, float64(c.events)),
		})
	}
	slices.SortFunc(out, func(a, b models.BreakdownRow) int {
		if c := cmp.Compare(b.Events, a.Events); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Value, b.Value); c != 0 {
			return c
		}
		return order.compare(a.Source, b.Source)
	})
	return out
}

// TopValues ranks the non-empty values of a dimension across sources by
// events. Users are source-scoped actors. n <= 0 returns every value.
func (e *Engine) TopValues(events []models.Event, dim dataset.Dimension, n int) []models.ValueCount {
	type acc struct {
		users  map[models.ActorKey]struct{}
		events int
	}
	buckets := make(map[string]*acc)
	for i := range events {
		ev := &events[i]
		v, ok := dim.Value(ev)
		if !ok {
			continue
		}
		a, found := buckets[v]
		if !found {
			a = &acc{users: make(map[models.ActorKey]struct{})}
			buckets[v] = a
		}
		a.users[ev.Actor()] = struct{}{}
		a.events++
	}

	out := make([]models.ValueCount, 0, len(buckets))
	for v, a := range buckets {
		out = append(out, models.ValueCount{Value: v, Users: len(a.users), Events: a.events})
	}
	slices.SortFunc(out, func(a, b models.ValueCount) int {
		if c := cmp.Compare(b.Events, a.Events); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return limit(out, n)
}

// Locations groups rows carrying both coordinates by source and coordinate
// pair. The location label and country come from the first row of a group.
func (e *Engine) Locations(events []models.Event) []models.LocationRow {
	order := orderOf(events)
	type key struct {
		src      models.Source
		lat, lon float64
	}
	type acc struct {
		row models.LocationRow
		c   counter
	}
	buckets := make(map[key]*acc)
	for i := range events {
		ev := &events[i]
		if ev.Latitude == nil || ev.Longitude == nil {
			continue
		}
		k := key{ev.Source, *ev.Latitude, *ev.Longitude}
		a, ok := buckets[k]
		if !ok {
			a = &acc{row: models.LocationRow{
				Source:    ev.Source,
				Latitude:  k.lat,
				Longitude: k.lon,
				Location:  ev.Location,
				Country:   ev.Country,
			}}
			buckets[k] = a
		}
		a.row.InIndonesia = a.row.InIndonesia || ev.InIndonesia
		a.c.add(ev)
	}

	out := make([]models.LocationRow, 0, len(buckets))
	for _, a := range buckets {
		a.row.Users = len(a.c.users)
		a.row.Events = a.c.events
		out = append(out, a.row)
	}
	slices.SortFunc(out, func(a, b models.LocationRow) int {
		if c := cmp.Compare(b.Events, a.Events); c != 0 {
			return c
		}
		if c := order.compare(a.Source, b.Source); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Latitude, b.Latitude); c != 0 {
			return c
		}
		return cmp.Compare(a.Longitude, b.Longitude)
	})
	return out
}

// ScreenPopularity counts rows and source-scoped users per (source, screen)
// for rows naming a screen, ordered by events descending, then source, then
// screen. n <= 0 returns every screen.
func (e *Engine) ScreenPopularity(events []models.Event, n int) []models.ScreenCount {
	order := orderOf(events)
	type key struct {
		src    models.Source
		screen string
	}
	buckets := make(map[key]*counter)
	for i := range events {
		ev := &events[i]
		if ev.Screen == "" {
			continue
		}
		k := key{ev.Source, ev.Screen}
		if buckets[k] == nil {
			buckets[k] = &counter{}
		}
		buckets[k].add(ev)
	}

	out := make([]models.ScreenCount, 0, len(buckets))
	for k, c := range buckets {
		out = append(out, models.ScreenCount{Source: k.src, Screen: k.screen, Users: len(c.users), Events: c.events})
	}
	slices.SortFunc(out, func(a, b models.ScreenCount) int {
		if c := cmp.Compare(b.Events, a.Events); c != 0 {
			return c
		}
		if c := order.compare(a.Source, b.Source); c != 0 {
			return c
		}
		return cmp.Compare(a.Screen, b.Screen)
	})
	return limit(out, n)
}

// durationBins are the histogram buckets in seconds, each [min, max).
var durationBins = []struct {
	label    string
	min, max float64
}{
	{"0-10s", 0, 10},
	{"10-30s", 10, 30},
	{"30s-1min", 30, 60},
	{"1-2min", 60, 120},
	{"2-5min", 120, 300},
	{"5min+", 300, math.Inf(1)},
}

// DurationDistribution buckets row durations into a fixed histogram. Every
// bucket is returned, empty ones with a zero count.
func (e *Engine) DurationDistribution(events []models.Event) []models.DurationBin {
	out := make([]models.DurationBin, len(durationBins))
	for i, b := range durationBins {
		out[i] = models.DurationBin{Label: b.label, Min: b.min}
		if !math.IsInf(b.max, 1) {
			hi := b.max
			out[i].Max = &hi
		}
	}
	for i := range events {
		d := events[i].Duration
		for j, b := range durationBins {
			if d >= b.min && d < b.max {
				out[j].Count++
				break
			}
		}
	}
	for i := range out {
		out[i].Share = ratio(float64(out[i].Count), float64(len(events)))
	}
	return out
}

// Overview describes a subset: row and actor counts, the sources present in
// source order and the calendar date span.
func (e *Engine) Overview(events []models.Event) models.Overview {
	o := models.Overview{Events: len(events), Sources: []models.Source{}}
	actors := make(map[models.ActorKey]struct{})
	seen := make(map[models.Source]bool)
	for i := range events {
		ev := &events[i]
		actors[ev.Actor()] = struct{}{}
		if !seen[ev.Source] {
			seen[ev.Source] = true
			o.Sources = append(o.Sources, ev.Source)
		}
		d := ev.DateString()
		if o.DateFrom == "" || d < o.DateFrom {
			o.DateFrom = d
		}
		if d > o.DateTo {
			o.DateTo = d
		}
	}
	o.Users = len(actors)
	return o
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"cmp"
	"math"
	"slices"

	"github.com/tomtom215/usagelens/internal/models"
)

// sourceOrder ranks sources by first appearance in a subset. The canonical
// table is concatenated in configured source order, so this is the
// configured order for any subset.
type sourceOrder map[models.Source]int

func orderOf(events []models.Event) sourceOrder {
	o := sourceOrder{}
	for i := range events {
		if _, ok := o[events[i].Source]; !ok {
			o[events[i].Source] = len(o)
		}
	}
	return o
}

func (o sourceOrder) compare(a, b models.Source) int {
	return cmp.Compare(o[a], o[b])
}

// groups is an insertion-ordered group-by over row indices.
type groups[K comparable] struct {
	keys []K
	rows map[K][]int
}

func newGroups[K comparable]() *groups[K] {
	return &groups[K]{rows: make(map[K][]int)}
}

func (g *groups[K]) add(k K, idx int) {
	if _, ok := g.rows[k]; !ok {
		g.keys = append(g.keys, k)
	}
	g.rows[k] = append(g.rows[k], idx)
}

func byActor(events []models.Event) *groups[models.ActorKey] {
	g := newGroups[models.ActorKey]()
	for i := range events {
		g.add(events[i].Actor(), i)
	}
	return g
}

// bySession groups the rows carrying a session id. ok is false when no row
// carries one.
func bySession(events []models.Event) (g *groups[models.SessionKey], ok bool) {
	g = newGroups[models.SessionKey]()
	for i := range events {
		if events[i].HasSession() {
			g.add(events[i].Session(), i)
		}
	}
	return g, len(g.keys) > 0
}

// chronological returns idx sorted by OccurredAt, keeping table order for ties.
func chronological(events []models.Event, idx []int) []int {
	out := slices.Clone(idx)
	slices.SortStableFunc(out, func(a, b int) int {
		return events[a].OccurredAt.Compare(events[b].OccurredAt)
	})
	return out
}

// collapse drops empty values and consecutive duplicates.
func collapse(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || (len(out) > 0 && out[len(out)-1] == v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// pageSequence returns the collapsed chronological page sequence of rows.
func pageSequence(events []models.Event, idx []int) []string {
	pages := make([]string, 0, len(idx))
	for _, i := range chronological(events, idx) {
		pages = append(pages, events[i].Page)
	}
	return collapse(pages)
}

// sessionCount is the number of distinct non-empty session ids among rows,
// or the row count when none carries one.
func sessionCount(events []models.Event, idx []int) int {
	ids := make(map[string]struct{})
	for _, i := range idx {
		if events[i].SessionID != "" {
			ids[events[i].SessionID] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return len(idx)
	}
	return len(ids)
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := slices.Clone(values)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// stddev is the sample standard deviation; zero for fewer than two values.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

type set map[string]struct{}

func (s set) add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

func limit[T any](rows []T, n int) []T {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

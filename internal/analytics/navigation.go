// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/tomtom215/usagelens/internal/models"
)

// NavMode selects the navigation state of a row.
type NavMode string

// Navigation modes.
const (
	NavPage  NavMode = "page"
	NavRoute NavMode = "route"
)

// ParseNavMode validates a mode name. The empty string selects NavPage.
func ParseNavMode(s string) (NavMode, error) {
	switch NavMode(s) {
	case "", NavPage:
		return NavPage, nil
	case NavRoute:
		return NavRoute, nil
	}
	return "", fmt.Errorf("unknown navigation mode %q", s)
}

// NavOptions controls journey extraction.
type NavOptions struct {
	Mode NavMode

	// MinJourneyLength keeps actors with at least this many transitions.
	MinJourneyLength int

	// ActiveOnly keeps actors whose transitions reach at least two distinct
	// targets.
	ActiveOnly bool
}

// PathSeparator joins the states of a path pattern.
const PathSeparator = " → "

// journey is one actor's navigation: the collapsed state sequence and the
// transitions between consecutive states.
type journey struct {
	key         models.ActorKey
	states      []string
	transitions []models.Transition
}

func (j *journey) keep(opts NavOptions) bool {
	if len(j.transitions) < opts.MinJourneyLength {
		return false
	}
	if opts.ActiveOnly {
		targets := set{}
		for _, t := range j.transitions {
			targets.add(t.To)
		}
		if len(targets) < 2 {
			return false
		}
	}
	return true
}

// journeys extracts and filters the per-actor journeys in actor order.
// Actors without any navigation state are omitted.
func journeys(events []models.Event, opts NavOptions) []journey {
	g := byActor(events)
	out := make([]journey, 0, len(g.keys))
	for _, key := range g.keys {
		idx := chronological(events, g.rows[key])
		j := journey{key: key}
		if opts.Mode == NavRoute {
			routeJourney(events, idx, &j)
		} else {
			pageJourney(events, idx, &j)
		}
		if len(j.states) == 0 || !j.keep(opts) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func pageJourney(events []models.Event, idx []int, j *journey) {
	for _, i := range idx {
		ev := &events[i]
		if ev.Page == "" {
			continue
		}
		n := len(j.states)
		if n > 0 && j.states[n-1] == ev.Page {
			continue
		}
		if n > 0 {
			j.transitions = append(j.transitions, models.Transition{
				Source:  ev.Source,
				ActorID: ev.ActorID,
				From:    j.states[n-1],
				To:      ev.Page,
				At:      ev.OccurredAt,
			})
		}
		j.states = append(j.states, ev.Page)
	}
}

func routeJourney(events []models.Event, idx []int, j *journey) {
	var flat []string
	for _, i := range idx {
		ev := &events[i]
		if ev.PrevRoute == "" || ev.Route == "" || ev.PrevRoute == ev.Route {
			continue
		}
		j.transitions = append(j.transitions, models.Transition{
			Source:  ev.Source,
			ActorID: ev.ActorID,
			From:    ev.PrevRoute,
			To:      ev.Route,
			At:      ev.OccurredAt,
		})
		flat = append(flat, ev.PrevRoute, ev.Route)
	}
	j.states = collapse(flat)
}

// Transitions returns every transition of the retained journeys, grouped by
// actor in chronological order.
func (e *Engine) Transitions(events []models.Event, opts NavOptions) []models.Transition {
	out := []models.Transition{}
	for _, j := range journeys(events, opts) {
		out = append(out, j.transitions...)
	}
	return out
}

// TopFlows aggregates transitions by (source, from, to), ordered by count
// descending and then lexically. n <= 0 returns every flow.
func (e *Engine) TopFlows(transitions []models.Transition, n int) []models.FlowCount {
	type key struct {
		src      models.Source
		from, to string
	}
	counts := make(map[key]int)
	actors := make(map[key]map[string]struct{})
	for _, t := range transitions {
		k := key{t.Source, t.From, t.To}
		counts[k]++
		if actors[k] == nil {
			actors[k] = make(map[string]struct{})
		}
		actors[k][t.ActorID] = struct{}{}
	}

	out := make([]models.FlowCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, models.FlowCount{Source: k.src, From: k.from, To: k.to, Count: c, UniqueActors: len(actors[k])})
	}
	slices.SortFunc(out, func(a, b models.FlowCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})
	return limit(out, n)
}

// FlowGraph builds a Sankey-style graph across sources. Links are ranked by
// weight and the top maxLinks are kept (all when maxLinks <= 0); nodes are
// numbered in order of first appearance in the kept links. TotalFlows counts
// every input transition.
func (e *Engine) FlowGraph(transitions []models.Transition, maxLinks int) models.FlowGraph {
	type key struct{ from, to string }
	weights := make(map[key]int)
	actors := make(map[key]map[models.ActorKey]struct{})
	for _, t := range transitions {
		k := key{t.From, t.To}
		weights[k]++
		if actors[k] == nil {
			actors[k] = make(map[models.ActorKey]struct{})
		}
		actors[k][models.ActorKey{Source: t.Source, ActorID: t.ActorID}] = struct{}{}
	}

	keys := make([]key, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b key) int {
		if c := cmp.Compare(weights[b], weights[a]); c != 0 {
			return c
		}
		if c := cmp.Compare(a.from, b.from); c != 0 {
			return c
		}
		return cmp.Compare(a.to, b.to)
	})
	keys = limit(keys, maxLinks)

	g := models.FlowGraph{Nodes: []models.FlowNode{}, Links: []models.FlowLink{}, TotalFlows: len(transitions)}
	ids := make(map[string]int)
	node := func(label string) int {
		if id, ok := ids[label]; ok {
			return id
		}
		id := len(g.Nodes)
		ids[label] = id
		g.Nodes = append(g.Nodes, models.FlowNode{ID: id, Label: label})
		return id
	}
	for _, k := range keys {
		src := node(k.from)
		dst := node(k.to)
		g.Links = append(g.Links, models.FlowLink{Source: src, Target: dst, Weight: weights[k], UniqueActors: len(actors[k])})
	}
	return g
}

// Paths reconstructs each retained actor's full state sequence, the initial
// state included, and ranks the most common path patterns.
func (e *Engine) Paths(events []models.Event, opts NavOptions, n int) models.PathReport {
	report := models.PathReport{
		Paths:              []models.ActorPath{},
		Patterns:           []models.PathPattern{},
		LengthDistribution: []models.LengthBucket{},
	}

	patterns := make(map[string]int)
	lengths := make(map[int]int)
	var total int
	for _, j := range journeys(events, opts) {
		report.Paths = append(report.Paths, models.ActorPath{Source: j.key.Source, ActorID: j.key.ActorID, States: j.states})
		patterns[strings.Join(j.states, PathSeparator)]++
		lengths[len(j.states)]++
		total += len(j.states)
	}
	report.AvgLength = ratio(float64(total), float64(len(report.Paths)))

	for p, c := range patterns {
		report.Patterns = append(report.Patterns, models.PathPattern{
			Pattern: p,
			Length:  strings.Count(p, PathSeparator) + 1,
			Actors:  c,
		})
	}
	slices.SortFunc(report.Patterns, func(a, b models.PathPattern) int {
		if c := cmp.Compare(b.Actors, a.Actors); c != 0 {
			return c
		}
		return cmp.Compare(a.Pattern, b.Pattern)
	})
	report.Patterns = limit(report.Patterns, n)

	for l, c := range lengths {
		report.LengthDistribution = append(report.LengthDistribution, models.LengthBucket{Length: l, Actors: c})
	}
	slices.SortFunc(report.LengthDistribution, func(a, b models.LengthBucket) int {
		return cmp.Compare(a.Length, b.Length)
	})
	return report
}

// PageExits computes, per state, the visits (occurrences in collapsed
// sequences), the continuing visits (transitions out of the state) and the
// exit rate 1 - continuing/visits. Ordered by visits descending.
func (e *Engine) PageExits(events []models.Event, opts NavOptions, n int) []models.PageExit {
	visits := make(map[string]int)
	continuing := make(map[string]int)
	for _, j := range journeys(events, opts) {
		for _, s := range j.states {
			visits[s]++
		}
		for _, t := range j.transitions {
			continuing[t.From]++
		}
	}

	out := make([]models.PageExit, 0, len(visits))
	for page, v := range visits {
		c := min(continuing[page], v)
		out = append(out, models.PageExit{
			Page:       page,
			Visits:     v,
			Continuing: c,
			Exits:      v - c,
			ExitRate:   1 - ratio(float64(c), float64(v)),
		})
	}
	slices.SortFunc(out, func(a, b models.PageExit) int {
		if c := cmp.Compare(b.Visits, a.Visits); c != 0 {
			return c
		}
		return cmp.Compare(a.Page, b.Page)
	})
	return limit(out, n)
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"cmp"
	"slices"

	"github.com/tomtom215/usagelens/internal/models"
)

// sessionUnit is one session's chronological page sequence.
type sessionUnit struct {
	source  models.Source
	session string
	actor   string
	pages   []string
}

// sessionUnits groups rows into sessions by session id, or by actor when the
// subset carries no session ids. Units without any page are omitted.
func sessionUnits(events []models.Event) []sessionUnit {
	var out []sessionUnit
	if g, ok := bySession(events); ok {
		for _, key := range g.keys {
			idx := g.rows[key]
			pages := pageSequence(events, idx)
			if len(pages) == 0 {
				continue
			}
			first := &events[chronological(events, idx)[0]]
			out = append(out, sessionUnit{source: key.Source, session: key.SessionID, actor: first.ActorID, pages: pages})
		}
		return out
	}

	g := byActor(events)
	for _, key := range g.keys {
		pages := pageSequence(events, g.rows[key])
		if len(pages) == 0 {
			continue
		}
		out = append(out, sessionUnit{source: key.Source, session: key.ActorID, actor: key.ActorID, pages: pages})
	}
	return out
}

// DropOff reports, per source, the share of sessions whose page sequence has
// a single state, along with entry and exit state counts.
func (e *Engine) DropOff(events []models.Event) models.DropOffReport {
	order := orderOf(events)
	report := models.DropOffReport{
		BySource:    []models.DropOffRow{},
		EntryStates: []models.StateCount{},
		ExitStates:  []models.StateCount{},
	}

	type stateKey struct {
		src   models.Source
		state string
	}
	rows := make(map[models.Source]*models.DropOffRow)
	entries := make(map[stateKey]int)
	exits := make(map[stateKey]int)

	for _, u := range sessionUnits(events) {
		row, ok := rows[u.source]
		if !ok {
			row = &models.DropOffRow{Source: u.source}
			rows[u.source] = row
		}
		row.Sessions++
		if len(u.pages) == 1 {
			row.SingleStep++
		}
		entries[stateKey{u.source, u.pages[0]}]++
		exits[stateKey{u.source, u.pages[len(u.pages)-1]}]++
	}

	for _, row := range rows {
		row.DropOffRate = ratio(float64(row.SingleStep), float64(row.Sessions))
		report.BySource = append(report.BySource, *row)
	}
	slices.SortFunc(report.BySource, func(a, b models.DropOffRow) int {
		return order.compare(a.Source, b.Source)
	})

	flatten := func(m map[stateKey]int) []models.StateCount {
		out := make([]models.StateCount, 0, len(m))
		for k, n := range m {
			out = append(out, models.StateCount{Source: k.src, State: k.state, Count: n})
		}
		slices.SortFunc(out, func(a, b models.StateCount) int {
			if c := order.compare(a.Source, b.Source); c != 0 {
				return c
			}
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.State, b.State)
		})
		return out
	}
	report.EntryStates = flatten(entries)
	report.ExitStates = flatten(exits)
	return report
}

// SessionJourneys returns the page state machine of every session: the
// distinct states in order of first visit, the initial and terminal states
// and the number of transitions. n <= 0 returns every session.
func (e *Engine) SessionJourneys(events []models.Event, n int) []models.SessionJourney {
	order := orderOf(events)
	units := sessionUnits(events)

	out := make([]models.SessionJourney, 0, len(units))
	for _, u := range units {
		seen := set{}
		states := make([]string, 0, len(u.pages))
		for _, p := range u.pages {
			if _, ok := seen[p]; !ok {
				seen.add(p)
				states = append(states, p)
			}
		}
		out = append(out, models.SessionJourney{
			Source:      u.source,
			Session:     u.session,
			ActorID:     u.actor,
			Initial:     u.pages[0],
			Terminal:    u.pages[len(u.pages)-1],
			States:      states,
			Transitions: len(u.pages) - 1,
		})
	}
	slices.SortStableFunc(out, func(a, b models.SessionJourney) int {
		return order.compare(a.Source, b.Source)
	})
	return limit(out, n)
}

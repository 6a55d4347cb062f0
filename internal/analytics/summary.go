// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"github.com/tomtom215/usagelens/internal/models"
)

// SourceSummaries returns one overview and usability row per source, in
// source order.
//
// Rates: CompletionRate is checkouts per checkin, WidgetRate is widget uses
// per user, AdoptionRate is the share of users with at least one widget use,
// and the diversity scores are distinct values per use.
func (e *Engine) SourceSummaries(events []models.Event) []models.SourceSummary {
	g := newGroups[models.Source]()
	for i := range events {
		g.add(events[i].Source, i)
	}

	out := make([]models.SourceSummary, 0, len(g.keys))
	for _, src := range g.keys {
		idx := g.rows[src]
		s := models.SourceSummary{Source: src, Events: len(idx)}

		users := make(map[string]struct{})
		adopters := make(map[string]struct{})
		widgets, tabs, pages := set{}, set{}, set{}
		durations := make([]float64, 0, len(idx))

		for _, i := range idx {
			ev := &events[i]
			users[ev.ActorID] = struct{}{}
			durations = append(durations, ev.Duration)
			if ev.Widget != "" {
				s.WidgetUses++
				widgets.add(ev.Widget)
				adopters[ev.ActorID] = struct{}{}
			}
			if ev.Tab != "" {
				s.TabUses++
				tabs.add(ev.Tab)
			}
			pages.add(ev.Page)
			if ev.HasCheckIn {
				s.CheckIns++
			}
			if ev.HasCheckOut {
				s.CheckOuts++
			}
		}

		s.Users = len(users)
		s.Sessions = sessionCount(events, idx)
		s.AvgDuration = mean(durations)
		s.MedianDuration = median(durations)
		s.StdDevDuration = stddev(durations)
		s.UniqueWidgets = len(widgets)
		s.UniqueTabs = len(tabs)
		s.UniquePages = len(pages)

		u := float64(s.Users)
		s.CompletionRate = ratio(float64(s.CheckOuts), float64(s.CheckIns))
		s.WidgetRate = ratio(float64(s.WidgetUses), u)
		s.AdoptionRate = ratio(float64(len(adopters)), u)
		s.WidgetDiversity = ratio(float64(s.UniqueWidgets), float64(s.WidgetUses))
		s.TabDiversity = ratio(float64(s.UniqueTabs), float64(s.TabUses))
		s.PagesPerUser = ratio(float64(s.UniquePages), u)
		s.TabsPerUser = ratio(float64(s.UniqueTabs), u)

		out = append(out, s)
	}
	return out
}

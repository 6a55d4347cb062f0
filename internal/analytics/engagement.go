// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/tomtom215/usagelens/internal/models"
)

// Maturity tiers in rule order.
const (
	TierNewStruggling = "New/Struggling"
	TierBeginner      = "Beginner"
	TierIntermediate  = "Intermediate"
	TierAdvanced      = "Advanced"
	TierPowerUser     = "Power User"
	TierDeveloping    = "Developing"
)

// Session quality tiers in rule order.
const (
	QualityHigh   = "High Quality"
	QualityMedium = "Medium Quality"
	QualityLow    = "Low Quality"
	QualityBasic  = "Basic Quality"
)

// rule is one entry of an ordered decision list.
type rule[T any] struct {
	tier  string
	match func(T) bool
}

// classify returns the tier of the first matching rule, or fallback.
func classify[T any](rules []rule[T], v T, fallback string) string {
	for _, r := range rules {
		if r.match(v) {
			return r.tier
		}
	}
	return fallback
}

type actorStats struct {
	avgDuration float64
	tabs        int
	widgets     int
	sessions    int
}

func maturityRules(t MaturityThresholds) []rule[actorStats] {
	return []rule[actorStats]{
		{TierNewStruggling, func(a actorStats) bool {
			return a.avgDuration < t.NewMaxDuration || (a.tabs <= t.NewMaxTabs && a.widgets == 0)
		}},
		{TierBeginner, func(a actorStats) bool {
			return a.avgDuration >= t.NewMaxDuration && a.avgDuration <= t.BeginnerMaxDuration &&
				a.tabs >= 1 && a.tabs <= t.BeginnerMaxTabs
		}},
		{TierIntermediate, func(a actorStats) bool {
			return a.avgDuration >= t.BeginnerMaxDuration && a.avgDuration <= t.IntermediateMaxDuration &&
				a.tabs > t.BeginnerMaxTabs && a.tabs <= t.IntermediateMaxTabs
		}},
		{TierAdvanced, func(a actorStats) bool {
			return a.avgDuration > t.IntermediateMaxDuration && a.tabs > t.IntermediateMaxTabs
		}},
		{TierPowerUser, func(a actorStats) bool {
			return a.sessions > t.PowerMinSessions && a.widgets > t.PowerMinWidgets
		}},
	}
}

type unitStats struct {
	duration    float64
	hasWidget   bool
	hasTab      bool
	hasCheckout bool
}

func qualityRules(t QualityThresholds) []rule[unitStats] {
	return []rule[unitStats]{
		{QualityHigh, func(u unitStats) bool {
			return u.duration > t.HighMinDuration && u.hasWidget && u.hasTab && u.hasCheckout
		}},
		{QualityMedium, func(u unitStats) bool {
			return u.duration > t.MediumMinDuration && (u.hasWidget || u.hasTab)
		}},
		{QualityLow, func(u unitStats) bool {
			return u.duration < t.LowMaxDuration || (!u.hasWidget && !u.hasTab)
		}},
	}
}

// ClassifyActor applies the maturity decision list to one actor's stats.
func (e *Engine) ClassifyActor(avgDuration float64, tabs, widgets, sessions int) string {
	return classify(e.maturity, actorStats{avgDuration, tabs, widgets, sessions}, TierDeveloping)
}

// ClassifySession applies the quality decision list to one session's stats.
func (e *Engine) ClassifySession(duration float64, hasWidget, hasTab, hasCheckout bool) string {
	return classify(e.quality, unitStats{duration, hasWidget, hasTab, hasCheckout}, QualityBasic)
}

// actorSummary is the per-actor input of maturity and segments.
type actorSummary struct {
	key      models.ActorKey
	stats    actorStats
	events   int
	tabUses  int
	pageUses int
}

func summarizeActors(events []models.Event) []actorSummary {
	g := byActor(events)
	out := make([]actorSummary, 0, len(g.keys))
	for _, key := range g.keys {
		idx := g.rows[key]
		tabs, widgets := set{}, set{}
		durations := make([]float64, 0, len(idx))
		s := actorSummary{key: key, events: len(idx)}
		for _, i := range idx {
			ev := &events[i]
			durations = append(durations, ev.Duration)
			tabs.add(ev.Tab)
			widgets.add(ev.Widget)
			if ev.Tab != "" {
				s.tabUses++
			}
			if ev.Page != "" {
				s.pageUses++
			}
		}
		s.stats = actorStats{
			avgDuration: mean(durations),
			tabs:        len(tabs),
			widgets:     len(widgets),
			sessions:    sessionCount(events, idx),
		}
		out = append(out, s)
	}
	return out
}

// ActorMaturity classifies every actor of the subset. The average is taken
// over all of the actor's rows; tabs and widgets are distinct non-empty
// values.
func (e *Engine) ActorMaturity(events []models.Event) models.MaturityReport {
	order := orderOf(events)
	actors := summarizeActors(events)

	report := models.MaturityReport{Actors: make([]models.ActorTier, 0, len(actors))}
	for _, a := range actors {
		report.Actors = append(report.Actors, models.ActorTier{
			Source:      a.key.Source,
			ActorID:     a.key.ActorID,
			Tier:        classify(e.maturity, a.stats, TierDeveloping),
			AvgDuration: a.stats.avgDuration,
			Tabs:        a.stats.tabs,
			Widgets:     a.stats.widgets,
			Sessions:    a.stats.sessions,
			Events:      a.events,
		})
	}
	slices.SortStableFunc(report.Actors, func(a, b models.ActorTier) int {
		if c := order.compare(a.Source, b.Source); c != 0 {
			return c
		}
		return cmp.Compare(a.ActorID, b.ActorID)
	})

	tiers := []string{TierNewStruggling, TierBeginner, TierIntermediate, TierAdvanced, TierPowerUser, TierDeveloping}
	report.Distribution = distribution(report.Actors, order, tiers, func(a models.ActorTier) (models.Source, string) {
		return a.Source, a.Tier
	})
	return report
}

// SessionQuality classifies every session of the subset, or every event when
// the subset carries no session ids. A session's duration is its maximum row
// duration; widget, tab and checkout flags are true when any row has them.
func (e *Engine) SessionQuality(events []models.Event) models.QualityReport {
	order := orderOf(events)
	report := models.QualityReport{Units: []models.SessionQuality{}}

	if g, ok := bySession(events); ok {
		report.PerSession = true
		for _, key := range g.keys {
			idx := g.rows[key]
			var u unitStats
			for _, i := range idx {
				ev := &events[i]
				u.duration = max(u.duration, ev.Duration)
				u.hasWidget = u.hasWidget || ev.Widget != ""
				u.hasTab = u.hasTab || ev.Tab != ""
				u.hasCheckout = u.hasCheckout || ev.HasCheckOut
			}
			first := &events[chronological(events, idx)[0]]
			report.Units = append(report.Units, e.qualityRow(key.Source, key.SessionID, first.ActorID, u))
		}
	} else {
		for i := range events {
			ev := &events[i]
			u := unitStats{
				duration:    ev.Duration,
				hasWidget:   ev.Widget != "",
				hasTab:      ev.Tab != "",
				hasCheckout: ev.HasCheckOut,
			}
			report.Units = append(report.Units, e.qualityRow(ev.Source, ev.ID, ev.ActorID, u))
		}
	}

	slices.SortStableFunc(report.Units, func(a, b models.SessionQuality) int {
		return order.compare(a.Source, b.Source)
	})
	tiers := []string{QualityHigh, QualityMedium, QualityLow, QualityBasic}
	report.Distribution = distribution(report.Units, order, tiers, func(q models.SessionQuality) (models.Source, string) {
		return q.Source, q.Tier
	})
	return report
}

func (e *Engine) qualityRow(src models.Source, unit, actor string, u unitStats) models.SessionQuality {
	return models.SessionQuality{
		Source:      src,
		Unit:        unit,
		ActorID:     actor,
		Tier:        classify(e.quality, u, QualityBasic),
		Duration:    u.duration,
		HasWidget:   u.hasWidget,
		HasTab:      u.hasTab,
		HasCheckout: u.hasCheckout,
	}
}

// distribution counts rows per (source, tier), ordered by source and then by
// tier rule order. Empty buckets are omitted.
func distribution[T any](rows []T, order sourceOrder, tiers []string, key func(T) (models.Source, string)) []models.TierCount {
	type bucket struct {
		src  models.Source
		tier string
	}
	counts := make(map[bucket]int)
	for _, r := range rows {
		src, tier := key(r)
		counts[bucket{src, tier}]++
	}

	out := make([]models.TierCount, 0, len(counts))
	for b, n := range counts {
		out = append(out, models.TierCount{Source: b.src, Tier: b.tier, Count: n})
	}
	slices.SortFunc(out, func(a, b models.TierCount) int {
		if c := order.compare(a.Source, b.Source); c != 0 {
			return c
		}
		return cmp.Compare(slices.Index(tiers, a.Tier), slices.Index(tiers, b.Tier))
	})
	return out
}

// SegmentNew labels actors with a single session. The Regular and Power User
// labels carry the configured bounds.
const SegmentNew = "New User (1 session)"

func (e *Engine) segmentLabels() (regular, power string) {
	n := e.th.RegularMaxSessions
	return fmt.Sprintf("Regular (2-%d sessions)", n), fmt.Sprintf("Power User (%d+ sessions)", n+1)
}

// SessionSegments buckets actors by session count and summarizes each bucket
// per source.
func (e *Engine) SessionSegments(events []models.Event) []models.SegmentRow {
	order := orderOf(events)
	regular, power := e.segmentLabels()
	labels := []string{SegmentNew, regular, power}

	type bucket struct {
		src     models.Source
		segment string
	}
	type acc struct {
		users     int
		sessions  int
		durations []float64
		tabs      int
		pages     int
	}
	accs := make(map[bucket]*acc)

	for _, a := range summarizeActors(events) {
		segment := power
		switch {
		case a.stats.sessions <= 1:
			segment = SegmentNew
		case a.stats.sessions <= e.th.RegularMaxSessions:
			segment = regular
		}
		b := bucket{a.key.Source, segment}
		x, ok := accs[b]
		if !ok {
			x = &acc{}
			accs[b] = x
		}
		x.users++
		x.sessions += a.stats.sessions
		x.durations = append(x.durations, a.stats.avgDuration)
		x.tabs += a.tabUses
		x.pages += a.pageUses
	}

	out := make([]models.SegmentRow, 0, len(accs))
	for b, x := range accs {
		out = append(out, models.SegmentRow{
			Source:           b.src,
			Segment:          b.segment,
			Users:            x.users,
			AvgSessions:      ratio(float64(x.sessions), float64(x.users)),
			AvgDuration:      mean(x.durations),
			TabInteractions:  x.tabs,
			PageInteractions: x.pages,
		})
	}
	slices.SortFunc(out, func(a, b models.SegmentRow) int {
		if c := order.compare(a.Source, b.Source); c != 0 {
			return c
		}
		return cmp.Compare(slices.Index(labels, a.Segment), slices.Index(labels, b.Segment))
	})
	return out
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package models

import (
	"time"
)

// KPIBlock is the headline metric set for a filtered subset.
//
// Sessions counts distinct (source, session_id) pairs when any row carries a
// session id; otherwise it falls back to the number of rows and
// SessionsFromIDs is false. BounceRate is a fraction in [0, 1].
type KPIBlock struct {
	TotalEvents     int     `json:"total_events"`
	UniqueActors    int     `json:"unique_actors"`
	Sessions        int     `json:"sessions"`
	SessionsFromIDs bool    `json:"sessions_from_ids"`
	AvgDuration     float64 `json:"avg_duration_seconds"`
	Bounced         int     `json:"bounced"`
	BounceRate      float64 `json:"bounce_rate"`
	ActiveSources   int     `json:"active_sources"`
}

// TierCount is one bucket of a tier distribution.
type TierCount struct {
	Source Source `json:"source"`
	Tier   string `json:"tier"`
	Count  int    `json:"count"`
}

// ActorTier is the maturity classification of one actor.
type ActorTier struct {
	Source      Source  `json:"source"`
	ActorID     string  `json:"actor_id"`
	Tier        string  `json:"tier"`
	AvgDuration float64 `json:"avg_duration"`
	Tabs        int     `json:"tabs"`
	Widgets     int     `json:"widgets"`
	Sessions    int     `json:"sessions"`
	Events      int     `json:"events"`
}

// MaturityReport holds per-actor tiers and their distribution.
type MaturityReport struct {
	Actors       []ActorTier `json:"actors"`
	Distribution []TierCount `json:"distribution"`
}

// SessionQuality is the quality classification of one session, or of one event
// when no session ids are present.
type SessionQuality struct {
	Source      Source  `json:"source"`
	Unit        string  `json:"unit"`
	ActorID     string  `json:"actor_id"`
	Tier        string  `json:"tier"`
	Duration    float64 `json:"duration"`
	HasWidget   bool    `json:"has_widget"`
	HasTab      bool    `json:"has_tab"`
	HasCheckout bool    `json:"has_checkout"`
}

// QualityReport holds per-unit quality tiers and their distribution.
type QualityReport struct {
	PerSession   bool             `json:"per_session"`
	Units        []SessionQuality `json:"units"`
	Distribution []TierCount      `json:"distribution"`
}

// SegmentRow summarizes the actors of one session-count segment in one source.
type SegmentRow struct {
	Source           Source  `json:"source"`
	Segment          string  `json:"segment"`
	Users            int     `json:"users"`
	AvgSessions      float64 `json:"avg_sessions"`
	AvgDuration      float64 `json:"avg_duration"`
	TabInteractions  int     `json:"tab_interactions"`
	PageInteractions int     `json:"page_interactions"`
}

// Transition is one directed move between two navigation states of an actor.
type Transition struct {
	Source  Source    `json:"source"`
	ActorID string    `json:"actor_id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
}

// FlowCount aggregates identical transitions within a source.
type FlowCount struct {
	Source       Source `json:"source"`
	From         string `json:"from"`
	To           string `json:"to"`
	Count        int    `json:"count"`
	UniqueActors int    `json:"unique_actors"`
}

// FlowNode is one node of a flow graph.
type FlowNode struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// FlowLink is one weighted edge of a flow graph, referencing node IDs.
type FlowLink struct {
	Source       int `json:"source"`
	Target       int `json:"target"`
	Weight       int `json:"weight"`
	UniqueActors int `json:"unique_actors"`
}

// FlowGraph is a node/edge representation suitable for Sankey rendering.
type FlowGraph struct {
	Nodes      []FlowNode `json:"nodes"`
	Links      []FlowLink `json:"links"`
	TotalFlows int        `json:"total_flows"`
}

// ActorPath is the ordered navigation path of one actor.
type ActorPath struct {
	Source  Source   `json:"source"`
	ActorID string   `json:"actor_id"`
	States  []string `json:"states"`
}

// PathPattern counts actors sharing the same path.
type PathPattern struct {
	Pattern string `json:"pattern"`
	Length  int    `json:"length"`
	Actors  int    `json:"actors"`
}

// LengthBucket counts actors whose path has a given number of states.
type LengthBucket struct {
	Length int `json:"length"`
	Actors int `json:"actors"`
}

// PathReport bundles path reconstruction outputs.
type PathReport struct {
	Paths              []ActorPath    `json:"paths"`
	Patterns           []PathPattern  `json:"patterns"`
	LengthDistribution []LengthBucket `json:"length_distribution"`
	AvgLength          float64        `json:"avg_length"`
}

// PageExit is the exit profile of one navigation state.
// ExitRate = 1 - Continuing/Visits.
type PageExit struct {
	Page       string  `json:"page"`
	Visits     int     `json:"visits"`
	Continuing int     `json:"continuing"`
	Exits      int     `json:"exits"`
	ExitRate   float64 `json:"exit_rate"`
}

// DropOffRow is the single-step session share of one source.
type DropOffRow struct {
	Source      Source  `json:"source"`
	Sessions    int     `json:"sessions"`
	SingleStep  int     `json:"single_step"`
	DropOffRate float64 `json:"drop_off_rate"`
}

// StateCount counts sessions entering or leaving through a state.
type StateCount struct {
	Source Source `json:"source"`
	State  string `json:"state"`
	Count  int    `json:"count"`
}

// DropOffReport bundles drop-off rates with entry and exit state counts.
type DropOffReport struct {
	BySource    []DropOffRow `json:"by_source"`
	EntryStates []StateCount `json:"entry_states"`
	ExitStates  []StateCount `json:"exit_states"`
}

// SessionJourney is the navigation state machine of one session.
type SessionJourney struct {
	Source      Source   `json:"source"`
	Session     string   `json:"session"`
	ActorID     string   `json:"actor_id"`
	Initial     string   `json:"initial"`
	Terminal    string   `json:"terminal"`
	States      []string `json:"states"`
	Transitions int      `json:"transitions"`
}

// LearningPoint is the average behavior of actors on their n-th active day.
type LearningPoint struct {
	Source        Source  `json:"source"`
	SessionNumber int     `json:"session_number"`
	Actors        int     `json:"actors"`
	AvgDuration   float64 `json:"avg_duration"`
	AvgTabs       float64 `json:"avg_tabs"`
	AvgWidgetUses float64 `json:"avg_widget_uses"`
}

// SourceSummary is the per-source overview and usability summary.
type SourceSummary struct {
	Source          Source  `json:"source"`
	Users           int     `json:"users"`
	Events          int     `json:"events"`
	Sessions        int     `json:"sessions"`
	AvgDuration     float64 `json:"avg_duration"`
	MedianDuration  float64 `json:"median_duration"`
	StdDevDuration  float64 `json:"stddev_duration"`
	WidgetUses      int     `json:"widget_uses"`
	TabUses         int     `json:"tab_uses"`
	UniqueWidgets   int     `json:"unique_widgets"`
	UniqueTabs      int     `json:"unique_tabs"`
	UniquePages     int     `json:"unique_pages"`
	CheckIns        int     `json:"checkins"`
	CheckOuts       int     `json:"checkouts"`
	CompletionRate  float64 `json:"completion_rate"`
	WidgetRate      float64 `json:"widget_rate"`
	AdoptionRate    float64 `json:"adoption_rate"`
	WidgetDiversity float64 `json:"widget_diversity"`
	TabDiversity    float64 `json:"tab_diversity"`
	PagesPerUser    float64 `json:"pages_per_user"`
	TabsPerUser     float64 `json:"tabs_per_user"`
}

// DailyActive counts active actors per source per calendar date.
type DailyActive struct {
	Date   string `json:"date"`
	Source Source `json:"source"`
	Users  int    `json:"users"`
	Events int    `json:"events"`
}

// HourlyUsage counts activity per source per hour of day.
type HourlyUsage struct {
	Hour   int    `json:"hour"`
	Source Source `json:"source"`
	Users  int    `json:"users"`
	Events int    `json:"events"`
}

// BreakdownRow aggregates one value of a categorical dimension per source.
type BreakdownRow struct {
	Dimension   string  `json:"dimension"`
	Value       string  `json:"value"`
	Source      Source  `json:"source"`
	Users       int     `json:"users"`
	Events      int     `json:"events"`
	AvgDuration float64 `json:"avg_duration"`
}

// LocationRow aggregates activity at one coordinate pair.
type LocationRow struct {
	Source      Source  `json:"source"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Location    string  `json:"location"`
	Country     string  `json:"country"`
	Users       int     `json:"users"`
	Events      int     `json:"events"`
	InIndonesia bool    `json:"in_indonesia"`
}

// Overview describes the shape of a filtered subset.
type Overview struct {
	Events   int      `json:"events"`
	Users    int      `json:"users"`
	Sources  []Source `json:"sources"`
	DateFrom string   `json:"date_from,omitempty"`
	DateTo   string   `json:"date_to,omitempty"`
}

// ValueCount is one value of a dimension aggregated across sources.
type ValueCount struct {
	Value  string `json:"value"`
	Users  int    `json:"users"`
	Events int    `json:"events"`
}

// ScreenCount is the activity on one screen of one source.
type ScreenCount struct {
	Source Source `json:"source"`
	Screen string `json:"screen"`
	Users  int    `json:"users"`
	Events int    `json:"events"`
}

// DurationBin is one bucket of the duration histogram. Max is nil for the
// open-ended last bucket.
type DurationBin struct {
	Label string   `json:"label"`
	Min   float64  `json:"min"`
	Max   *float64 `json:"max"`
	Count int      `json:"count"`
	Share float64  `json:"share"`
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package models

import (
	"time"
)

// Source identifies the export an event was loaded from. It is assigned by the
// raw loader and never inferred from event content.
type Source string

// Known sources shipped in the default configuration.
const (
	SourceBPS    Source = "BPS"
	SourceLineup Source = "Lineup"
	SourceBspace Source = "bspace"
	SourceBtech  Source = "btech"
	SourceEtam   Source = "etam"
)

// DefaultSources lists the sources loaded when no source list is configured.
func DefaultSources() []Source {
	return []Source{SourceBPS, SourceLineup, SourceBspace, SourceBtech, SourceEtam}
}

// String implements fmt.Stringer.
func (s Source) String() string { return string(s) }

// Payload extraction tiers recorded on every event.
const (
	TierJSON          = "json"
	TierUnescapedJSON = "unescaped_json"
	TierRegex         = "regex"
	TierEmpty         = "empty"
)

// Attributes is the parsed properties payload. Values are string, float64,
// bool, or nested map[string]any / []any structures decoded from JSON.
type Attributes map[string]any

// RawEvent is one row produced by the raw loader before payload extraction.
type RawEvent struct {
	ID         string `json:"id"`
	EventType  string `json:"event_type"`
	Properties string `json:"properties"`
	ActorID    string `json:"actor_id"`
	Timestamp  string `json:"timestamp"`
	Source     Source `json:"source"`
}

// Fields holds the scalar attributes derived from the payload. Every field has
// a default, so Fields is always fully populated.
type Fields struct {
	Duration    float64    `json:"duration"`
	Page        string     `json:"page"`
	Widget      string     `json:"widget"`
	Screen      string     `json:"screen"`
	Tab         string     `json:"tab"`
	Route       string     `json:"route"`
	PrevRoute   string     `json:"prev_route"`
	DeviceType  string     `json:"device_type"`
	OS          string     `json:"os"`
	Country     string     `json:"country"`
	City        string     `json:"city"`
	Location    string     `json:"location"`
	SessionID   string     `json:"session_id"`
	Connection  *bool      `json:"connection,omitempty"`
	WiFi        *bool      `json:"wifi,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	AppVersion  string     `json:"app_version"`
	AppBuild    string     `json:"app_build"`
	CheckIn     *time.Time `json:"checkin,omitempty"`
	CheckOut    *time.Time `json:"checkout,omitempty"`
	// HasCheckIn and HasCheckOut record a non-empty value in the payload,
	// whether or not it parses as a time.
	HasCheckIn  bool       `json:"has_checkin"`
	HasCheckOut bool       `json:"has_checkout"`
	InIndonesia bool       `json:"in_indonesia"`
}

// Event is one row of the canonical table. OccurredAt is always valid; rows
// whose timestamp cannot be parsed never become Events.
type Event struct {
	ID          string     `json:"id"`
	Source      Source     `json:"source"`
	EventType   string     `json:"event_type"`
	ActorID     string     `json:"actor_id"`
	OccurredAt  time.Time  `json:"occurred_at"`
	Date        time.Time  `json:"-"`
	RawPayload  string     `json:"-"`
	Attributes  Attributes `json:"attributes,omitempty"`
	PayloadTier string     `json:"payload_tier"`
	Fields
}

// DateString returns the event's calendar date as YYYY-MM-DD.
func (e *Event) DateString() string {
	return e.Date.Format(DateLayout)
}

// HasSession reports whether the event carries a session identifier.
func (e *Event) HasSession() bool {
	return e.SessionID != ""
}

// ActorKey identifies an actor within its source. Actor identity is
// source-scoped: the same actor_id in two sources is two actors.
type ActorKey struct {
	Source  Source
	ActorID string
}

// SessionKey identifies a session within its source.
type SessionKey struct {
	Source    Source
	SessionID string
}

// Actor returns the event's source-scoped actor key.
func (e *Event) Actor() ActorKey {
	return ActorKey{Source: e.Source, ActorID: e.ActorID}
}

// Session returns the event's source-scoped session key.
func (e *Event) Session() SessionKey {
	return SessionKey{Source: e.Source, SessionID: e.SessionID}
}

// DateLayout is the calendar-date layout used for dates in results and filters.
const DateLayout = "2006-01-02"

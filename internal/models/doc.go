// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package models defines the data structures shared by every Usagelens package.

Model Categories:

 1. Ingestion Models:
    - RawEvent: one row recovered by the raw loader, tagged with its Source
    - Attempt, SourceReport, LoadReport: per-strategy load outcomes

 2. Canonical Models:
    - Event: one normalized row of the canonical table
    - Attributes: the parsed properties payload
    - Fields: typed scalar fields derived from Attributes

 3. Analytics Models:
    - KPIBlock, TierCount, ActorTier, SessionQuality
    - Transition, FlowCount, FlowGraph, PathReport, PageExit
    - DropOffReport, SessionJourney, LearningPoint
    - SourceSummary and the breakdown rows used by dashboard views

All analytics result slices are returned non-nil so they encode as [] rather
than null.
*/
package models

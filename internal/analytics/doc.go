// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package analytics derives the session- and actor-level aggregates rendered by
the dashboards.

Every Engine method is a pure function of a filtered subset of the canonical
table. Methods return plain rows from the models package, never nil slices,
and yield zeros rather than dividing by zero on empty input.

# Identity

Actors are source-scoped: the same actor id in two sources is two actors.
Sessions are the distinct non-empty (source, session id) pairs. When a subset
carries no session ids at all, session-based metrics fall back to per-event
(KPIs, quality) or per-actor (drop-off, journeys) units. Sessions are never
split by inactivity gaps.

# Classification

Actor maturity and session quality are ordered decision lists evaluated
against configurable Thresholds; the first matching rule wins:

	maturity: New/Struggling, Beginner, Intermediate, Advanced, Power User, Developing
	quality:  High Quality, Medium Quality, Low Quality, Basic Quality

New validates the thresholds and refuses inverted ranges, so a malformed rule
table fails at startup instead of per request.

# Navigation

Navigation states are page names (NavPage) or routes (NavRoute). In page mode
an actor's rows are ordered by time, consecutive duplicates collapse and every
remaining adjacent pair is a transition. In route mode each row carrying both
a previous and a current route is a transition. Flows, flow graphs, paths and
page exits are all derived from these per-actor journeys.
*/
package analytics

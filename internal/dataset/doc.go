// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package dataset holds the canonical event table and the filter engine.

A Table is built once by the pipeline and never mutated. Views derive their
subsets with Apply, which composes every Filter criterion with AND:

	subset := dataset.Apply(table, dataset.Filter{
	    Sources:    table.Sources(),
	    Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	    DeviceType: "Mobile",
	})

An empty Sources list selects nothing. The date range is inclusive and is
compared against each event's calendar date. The text query is a
case-insensitive substring match over actor id, page, widget, event type,
country and location.

Refine narrows an already filtered subset with the raw-data search options
(actor, page or widget substrings, duration range, interactive rows only).
*/
package dataset

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package payload turns the free-form properties text of an event into an
attribute map.

Export files escape the embedded JSON inconsistently and sometimes truncate it,
so extraction is a chain of increasingly tolerant tiers:

 1. json: the text decodes as a JSON object.
 2. unescaped_json: \" is replaced by " and then "" by ", and the result
    decodes as a JSON object.
 3. regex: a fixed table of field patterns is matched independently against
    the text. Numeric fields are coerced to float64 and boolean fields to bool.
    Partial data is recovered from truncated payloads.

Extract never fails and never panics. Blank input yields an empty map.

Geographic fields (latitude, longitude, city) are read with GeoLookup, which
prefers the nested "$set" object over the top level.
*/
package payload

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package normalize converts raw loader rows into canonical events.

For every row the normalizer:

  - parses the timestamp, accepting the mixed formats found in exports
    (ISO-8601 with or without zone, space or T separated, date-only,
    slash-separated dates and Unix epochs in seconds or milliseconds);
  - drops the row when no format matches, counting the drop;
  - extracts the properties payload into attributes;
  - derives the typed scalar fields (Derive), each with a fixed default.

Timestamps without a zone are read as UTC. Timestamps with a zone keep their
offset, and the event date is the calendar date in that offset. No cross-zone
normalization is applied.

Normalization is deterministic: the same input always yields the same events.
*/
package normalize

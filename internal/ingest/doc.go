// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package ingest implements the raw loader: it recovers event rows from
exported event-log files that are frequently malformed.

Each file is read through a chain of strategies, first success wins:

	strict   encoding/csv with strict quoting. Rows whose field count differs
	         from the header are skipped; any quoting error or invalid UTF-8
	         fails the strategy.
	lenient  lazy quotes over a forced UTF-8 stream (BOM stripped, invalid
	         bytes replaced). Unparseable rows are skipped. A properties
	         payload split at its commas (unquoted, or quoted with bare
	         inner quotes) is re-read from the raw record text.
	         An I/O error or a runaway field fails the strategy.
	bounded  as lenient, but reads at most Config.MaxRows rows, skips runaway
	         fields and keeps the rows read before a trailing read error.

JSON exports (.json) use the same three strategy names over a whole-file
array decode and a line-oriented decode; .jsonl and .ndjson files start at
the line-oriented strategies.

Only the columns {id, event_type, properties, actor_id, timestamp} are kept
(with the aliases uuid, event and distinct_id). Every row is tagged with its
source.

When every file of a source fails every strategy, the source degrades to a
deterministic synthetic placeholder dataset so downstream code always
receives well-typed rows. The loader never returns a load error; every
attempt is recorded in the source report, logged and counted.

Sources load concurrently (errgroup); results keep the configured order.
*/
package ingest

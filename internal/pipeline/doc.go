// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package pipeline composes the raw loader, the normalizer and the canonical
table into a single build step.

A Pipeline is built at most once per process. Build loads every configured
source concurrently, normalizes each source's rows in configured order and
freezes the result into a dataset.Table. The accompanying models.LoadReport
records every load attempt, the synthetic fallbacks and the rows dropped for
unparseable timestamps, under a run ID that is also attached to every log
line of the build.

Usage:

	p := pipeline.New(pipeline.Config{
	    Sources: pipeline.SourceSpecs("./data", models.DefaultSources(), nil),
	})
	table, report, err := p.Build(ctx)

After a successful build the table and report are available to concurrent
readers through Table and Report.
*/
package pipeline

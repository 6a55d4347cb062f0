// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package ingest

import (
	"fmt"
	"time"

	"github.com/tomtom215/usagelens/internal/models"
)

// syntheticSpanDays is the number of days the placeholder rows are spread over.
const syntheticSpanDays = 30

// Synthetic returns n deterministic placeholder rows for a source. Row i is
// dated i mod 30 days before the reference day, at hour i mod 24. The same
// source, n and reference day always produce the same rows.
func Synthetic(source models.Source, n int, reference time.Time) []models.RawEvent {
	ref := reference.UTC()
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	rows := make([]models.RawEvent, n)
	for i := range rows {
		ts := day.AddDate(0, 0, -(i % syntheticSpanDays)).Add(time.Duration(i%24) * time.Hour)
		rows[i] = models.RawEvent{
			ID:         fmt.Sprintf("sample-%s-%d", source, i),
			EventType:  "Capture",
			Properties: "{}",
			ActorID:    fmt.Sprintf("user%d@example.com", i),
			Timestamp:  ts.Format(time.DateTime),
			Source:     source,
		}
	}
	return rows
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package models

import (
	"time"
)

// Attempt records one load strategy tried against one file.
type Attempt struct {
	File     string        `json:"file"`
	Strategy string        `json:"strategy"`
	Rows     int           `json:"rows"`
	Skipped  int           `json:"skipped"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Succeeded reports whether the attempt produced a result.
func (a Attempt) Succeeded() bool {
	return a.Error == ""
}

// SourceReport describes how one source was loaded.
type SourceReport struct {
	Source    Source    `json:"source"`
	Files     []string  `json:"files"`
	Rows      int       `json:"rows"`
	Skipped   int       `json:"skipped_rows"`
	Synthetic bool      `json:"synthetic"`
	Attempts  []Attempt `json:"attempts"`
}

// Failures counts the failed attempts in the report.
func (r *SourceReport) Failures() int {
	n := 0
	for _, a := range r.Attempts {
		if !a.Succeeded() {
			n++
		}
	}
	return n
}

// LoadReport aggregates the outcome of one pipeline build.
type LoadReport struct {
	RunID         string         `json:"run_id"`
	StartedAt     time.Time      `json:"started_at"`
	Duration      time.Duration  `json:"duration_ns"`
	Sources       []SourceReport `json:"sources"`
	RawRows       int            `json:"raw_rows"`
	CanonicalRows int            `json:"canonical_rows"`
	DroppedRows   int            `json:"dropped_rows"`
	PayloadTiers  map[string]int `json:"payload_tiers"`
}

// Source returns the report for the named source.
func (r *LoadReport) Source(s Source) (SourceReport, bool) {
	for _, sr := range r.Sources {
		if sr.Source == s {
			return sr, true
		}
	}
	return SourceReport{}, false
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// zonedLayouts carry an explicit offset; the parsed time keeps it.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02T15:04:05-07",
	"2006-01-02 15:04:05-07",
	time.RFC1123Z,
}

// naiveLayouts carry no offset and are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"02-Jan-2006 15:04:05",
	"Jan 2, 2006 15:04:05",
}

// Numeric timestamps below epochMinSeconds (1973) are not treated as epochs;
// values at or above epochMillisThreshold are milliseconds.
const (
	epochMinSeconds      = 1e8
	epochMillisThreshold = 1e11
)

// ParseTimestamp parses a timestamp in any supported format. Fractional
// seconds are accepted by every layout with a seconds field.
func ParseTimestamp(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := parseEpoch(s); ok {
		return t, true
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseEpoch(s string) (time.Time, bool) {
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return time.Time{}, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) || v < epochMinSeconds {
		return time.Time{}, false
	}
	if v >= epochMillisThreshold {
		return time.UnixMilli(int64(v)).UTC(), true
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

// CalendarDate truncates t to its calendar date in t's own location. The
// result is midnight UTC of that date so dates compare directly.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package normalize

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/usagelens/internal/models"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input    string
		want     time.Time
		wantZone int
		ok       bool
	}{
		{"2024-01-15T10:30:00Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), 0, true},
		{"2024-01-15T10:30:00.250+07:00", time.Date(2024, 1, 15, 3, 30, 0, 250e6, time.UTC), 7 * 3600, true},
		{"2024-01-15 10:30:00.123456+00:00", time.Date(2024, 1, 15, 10, 30, 0, 123456000, time.UTC), 0, true},
		{"2024-01-15 10:30:00", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), 0, true},
		{"2024-01-15T10:30:00", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), 0, true},
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 0, true},
		{"01/15/2024 08:00:00", time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), 0, true},
		{"2024/01/15 08:00:00", time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), 0, true},
		{"1705314600", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), 0, true},
		{"1705314600000", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), 0, true},
		{"", time.Time{}, 0, false},
		{"not a date", time.Time{}, 0, false},
		{"20240115", time.Time{}, 0, false},
		{"2024-13-45", time.Time{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseTimestamp(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !ok {
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if _, offset := got.Zone(); offset != tt.wantZone {
				t.Errorf("ParseTimestamp(%q) offset = %d, want %d", tt.input, offset, tt.wantZone)
			}
		})
	}
}

func TestCalendarDateKeepsSourceZone(t *testing.T) {
	ts, ok := ParseTimestamp("2024-01-15T23:30:00-05:00")
	if !ok {
		t.Fatal("ParseTimestamp failed")
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := CalendarDate(ts); !got.Equal(want) {
		t.Errorf("CalendarDate = %v, want %v (no zone conversion)", got, want)
	}
}

func TestDeriveDefaults(t *testing.T) {
	f := Derive(models.Attributes{})

	if f.Duration != 0 {
		t.Errorf("Duration = %v, want 0", f.Duration)
	}
	if f.DeviceType != Unknown || f.OS != Unknown || f.Country != Unknown {
		t.Errorf("device/os/country = %q/%q/%q, want Unknown", f.DeviceType, f.OS, f.Country)
	}
	if f.Page != "" || f.Widget != "" || f.SessionID != "" || f.Tab != "" {
		t.Errorf("string fields not empty: %+v", f)
	}
	if f.Connection != nil || f.WiFi != nil || f.Latitude != nil || f.CheckIn != nil {
		t.Errorf("optional fields not nil: %+v", f)
	}
	if f.Location != Unknown {
		t.Errorf("Location = %q, want Unknown", f.Location)
	}
}

func TestDeriveCoercion(t *testing.T) {
	attrs := models.Attributes{
		"Duration":            "125.5",
		"Page_Name":           float64(5),
		"$device_type":        "",
		"$os":                 "Android",
		"$geoip_country_name": "Indonesia",
		"$geoip_city_name":    "Jakarta",
		"Connection":          "true",
		"$network_wifi":       false,
		"CheckIn":             "2024-01-15 08:00:00",
		"CheckOut":            "garbage",
		"$set":                map[string]any{"$geoip_latitude": -6.2, "$geoip_longitude": 106.8},
	}

	f := Derive(attrs)

	if f.Duration != 125.5 {
		t.Errorf("Duration = %v, want 125.5", f.Duration)
	}
	if f.Page != "5" {
		t.Errorf("Page = %q, want 5", f.Page)
	}
	if f.DeviceType != Unknown {
		t.Errorf("DeviceType = %q, want Unknown for empty value", f.DeviceType)
	}
	if f.Connection == nil || !*f.Connection {
		t.Errorf("Connection = %v, want true", f.Connection)
	}
	if f.WiFi == nil || *f.WiFi {
		t.Errorf("WiFi = %v, want false", f.WiFi)
	}
	if f.CheckIn == nil || f.CheckIn.Hour() != 8 {
		t.Errorf("CheckIn = %v, want 08:00", f.CheckIn)
	}
	if f.CheckOut != nil {
		t.Errorf("CheckOut = %v, want nil", f.CheckOut)
	}
	if !f.HasCheckIn || !f.HasCheckOut {
		t.Errorf("HasCheckIn, HasCheckOut = %v, %v; want both true", f.HasCheckIn, f.HasCheckOut)
	}
	if f.Latitude == nil || *f.Latitude != -6.2 {
		t.Errorf("Latitude = %v, want -6.2", f.Latitude)
	}
	if f.Location != "Jakarta, Indonesia" {
		t.Errorf("Location = %q, want Jakarta, Indonesia", f.Location)
	}
	if !f.InIndonesia {
		t.Error("InIndonesia = false, want true")
	}
}

func TestDurationNeverNegative(t *testing.T) {
	for _, v := range []any{float64(-5), "-1", "abc", nil, true} {
		if got := Duration(models.Attributes{"Duration": v}); got != 0 {
			t.Errorf("Duration(%v) = %v, want 0", v, got)
		}
	}
}

func TestInIndonesia(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		country string
		lat     *float64
		lon     *float64
		want    bool
	}{
		{"by country", "Indonesia", nil, nil, true},
		{"by coordinates", "Unknown", f(-6.2), f(106.8), true},
		{"outside box", "Unknown", f(1.35), f(90), false},
		{"box edge", "Unknown", f(6), f(141), true},
		{"no coordinates", "Singapore", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InIndonesia(tt.country, tt.lat, tt.lon); got != tt.want {
				t.Errorf("InIndonesia() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	tests := []struct{ city, country, want string }{
		{"Bandung", "Indonesia", "Bandung, Indonesia"},
		{"", "Indonesia", "Indonesia"},
		{"Unknown", "Indonesia", "Indonesia"},
	}
	for _, tt := range tests {
		if got := Location(tt.city, tt.country); got != tt.want {
			t.Errorf("Location(%q, %q) = %q, want %q", tt.city, tt.country, got, tt.want)
		}
	}
}

func rawRows() []models.RawEvent {
	return []models.RawEvent{
		{ID: "1", EventType: "Capture", ActorID: "a", Source: models.SourceBPS,
			Timestamp: "2024-01-15 10:00:00", Properties: `{"Widget_Name":"Button_1","Duration":45,"$device_type":"Mobile"}`},
		{ID: "2", EventType: "Capture", ActorID: "a", Source: models.SourceBPS,
			Timestamp: "yesterday", Properties: `{}`},
		{ID: "3", EventType: "$pageview", ActorID: "b", Source: models.SourceEtam,
			Timestamp: "2024-01-16T09:00:00+07:00", Properties: `Widget_Name": "Save`},
		{ID: "4", EventType: "Capture", ActorID: "c", Source: models.SourceEtam,
			Timestamp: "", Properties: ""},
	}
}

func TestNormalizeDropsUnparseableTimestamps(t *testing.T) {
	events, stats := New(nil).Normalize(context.Background(), rawRows())

	if stats.Input != 4 || stats.Dropped != 2 || stats.Output != 2 {
		t.Fatalf("stats = %+v, want input 4, dropped 2, output 2", stats)
	}
	if len(events) != stats.Input-stats.Dropped {
		t.Errorf("len(events) = %d, want input - dropped", len(events))
	}
	for _, ev := range events {
		if ev.OccurredAt.IsZero() {
			t.Errorf("event %s has zero timestamp", ev.ID)
		}
	}
	if stats.ByTier[models.TierJSON] != 1 || stats.ByTier[models.TierRegex] != 1 {
		t.Errorf("ByTier = %v, want one json and one regex", stats.ByTier)
	}

	first := events[0]
	if first.Widget != "Button_1" || first.Duration != 45 || first.DeviceType != "Mobile" {
		t.Errorf("first event fields = %+v", first.Fields)
	}
	if events[1].Widget != "Save" {
		t.Errorf("regex widget = %q, want Save", events[1].Widget)
	}
	if got := events[1].DateString(); got != "2024-01-16" {
		t.Errorf("date = %q, want 2024-01-16", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New(nil)
	a, statsA := n.Normalize(context.Background(), rawRows())
	b, statsB := n.Normalize(context.Background(), rawRows())

	if !reflect.DeepEqual(a, b) {
		t.Error("Normalize is not deterministic")
	}
	if !reflect.DeepEqual(statsA, statsB) {
		t.Errorf("stats differ: %+v vs %+v", statsA, statsB)
	}
}

func TestStatsMerge(t *testing.T) {
	var total Stats
	total.Merge(Stats{Input: 3, Output: 2, Dropped: 1, ByTier: map[string]int{"json": 2}})
	total.Merge(Stats{Input: 1, Output: 1, ByTier: map[string]int{"json": 1}})

	if total.Input != 4 || total.Output != 3 || total.Dropped != 1 || total.ByTier["json"] != 3 {
		t.Errorf("merged = %+v", total)
	}
}

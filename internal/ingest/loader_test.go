// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/usagelens/internal/models"
)

var testClock = func() time.Time { return time.Date(2024, 3, 10, 15, 45, 0, 0, time.UTC) }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newTestLoader(cfg Config) *Loader {
	if cfg.Clock == nil {
		cfg.Clock = testClock
	}
	return NewLoader(cfg)
}

// lastStrategy returns the strategy of the final attempt of a report.
func lastStrategy(report models.SourceReport) string {
	if len(report.Attempts) == 0 {
		return ""
	}
	return report.Attempts[len(report.Attempts)-1].Strategy
}

const csvHeader = "uuid,event,properties,distinct_id,timestamp,elements_chain\n"

func TestLoadSourceCSV(t *testing.T) {
	long := strings.Repeat("filler text without any quote characters\n", 10)

	tests := []struct {
		name         string
		content      string
		cfg          Config
		wantRows     int
		wantSkipped  int
		wantStrategy string
		wantAttempts int
	}{
		{
			name: "well formed file uses strict",
			content: csvHeader +
				`e1,Capture,"{""Page_Name"":""Home""}",u1,2024-01-15 10:00:00,x` + "\n" +
				`e2,Capture,{},u2,2024-01-15 11:00:00,y` + "\n",
			wantRows:     2,
			wantStrategy: StrategyStrict,
			wantAttempts: 1,
		},
		{
			name: "ragged rows are skipped by strict",
			content: csvHeader +
				"e1,Capture,{},u1,2024-01-15 10:00:00,x\n" +
				"e2,Capture,{},u2\n",
			wantRows:     1,
			wantSkipped:  1,
			wantStrategy: StrategyStrict,
			wantAttempts: 1,
		},
		{
			name: "bare quote falls back to lenient",
			content: csvHeader +
				`e1,Capture,{},u"1,2024-01-15 10:00:00,x` + "\n" +
				"e2,Capture,{},u2,2024-01-15 11:00:00,y\n",
			wantRows:     2,
			wantStrategy: StrategyLenient,
			wantAttempts: 2,
		},
		{
			name: "invalid utf-8 falls back to lenient",
			content: csvHeader +
				"e1,Capture,{},u\xff1,2024-01-15 10:00:00,x\n",
			wantRows:     1,
			wantStrategy: StrategyLenient,
			wantAttempts: 2,
		},
		{
			name: "unterminated quote falls back to bounded",
			content: csvHeader +
				"e1,Capture,{},u1,2024-01-15 10:00:00,x\n" +
				"e2,Capture,{},u2,2024-01-15 11:00:00,y\n" +
				`e3,Capture,"{broken,u3,2024-01-15 12:00:00,z` + "\n" + long,
			cfg:          Config{MaxFieldBytes: 64},
			wantRows:     2,
			wantSkipped:  1,
			wantStrategy: StrategyBounded,
			wantAttempts: 3,
		},
		{
			name:         "header only file is an empty success",
			content:      csvHeader,
			wantRows:     0,
			wantStrategy: StrategyStrict,
			wantAttempts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "events.csv", tt.content)
			l := newTestLoader(tt.cfg)

			rows, report := l.LoadSource(context.Background(), SourceSpec{Source: models.SourceBPS, Files: []string{path}})

			if report.Synthetic {
				t.Fatalf("Synthetic = true, attempts = %+v", report.Attempts)
			}
			if len(rows) != tt.wantRows {
				t.Errorf("len(rows) = %d, want %d", len(rows), tt.wantRows)
			}
			if report.Rows != tt.wantRows {
				t.Errorf("report.Rows = %d, want %d", report.Rows, tt.wantRows)
			}
			if report.Skipped != tt.wantSkipped {
				t.Errorf("report.Skipped = %d, want %d", report.Skipped, tt.wantSkipped)
			}
			if got := lastStrategy(report); got != tt.wantStrategy {
				t.Errorf("strategy = %q, want %q", got, tt.wantStrategy)
			}
			if len(report.Attempts) != tt.wantAttempts {
				t.Errorf("len(Attempts) = %d, want %d", len(report.Attempts), tt.wantAttempts)
			}
			for _, r := range rows {
				if r.Source != models.SourceBPS {
					t.Errorf("row source = %q, want %q", r.Source, models.SourceBPS)
				}
			}
		})
	}
}

func TestLoadSourceMapsAllowListedColumns(t *testing.T) {
	content := "Timestamp,extra,distinct_id,event,uuid,properties\n" +
		`2024-01-15 10:00:00,drop me,u1,Capture,e1,"{""Widget_Name"":""Map""}"` + "\n"
	path := writeFile(t, t.TempDir(), "events.csv", content)

	rows, _ := newTestLoader(Config{}).LoadSource(context.Background(), SourceSpec{Source: models.SourceEtam, Files: []string{path}})
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}

	want := models.RawEvent{
		ID:         "e1",
		EventType:  "Capture",
		Properties: `{"Widget_Name":"Map"}`,
		ActorID:    "u1",
		Timestamp:  "2024-01-15 10:00:00",
		Source:     models.SourceEtam,
	}
	if !reflect.DeepEqual(rows[0], want) {
		t.Errorf("row = %+v, want %+v", rows[0], want)
	}
}

func TestLoadSourceInvalidUTF8IsReplaced(t *testing.T) {
	path := writeFile(t, t.TempDir(), "events.csv", csvHeader+"e1,Capture,{},u\xff1,2024-01-15 10:00:00,x\n")

	rows, _ := newTestLoader(Config{}).LoadSource(context.Background(), SourceSpec{Source: models.SourceBPS, Files: []string{path}})
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].ActorID != "u\uFFFD1" {
		t.Errorf("ActorID = %q, want replacement character", rows[0].ActorID)
	}
}

func TestLoadSourceSyntheticFallback(t *testing.T) {
	dir := t.TempDir()
	noTimestamp := writeFile(t, dir, "bad.csv", "uuid,event\ne1,Capture\n")

	tests := []struct {
		name  string
		files []string
	}{
		{"missing file", []string{filepath.Join(dir, "missing.csv")}},
		{"no timestamp column", []string{noTimestamp}},
		{"no files", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLoader(Config{})
			rows, report := l.LoadSource(context.Background(), SourceSpec{Source: models.SourceLineup, Files: tt.files})

			if !report.Synthetic {
				t.Fatal("Synthetic = false, want true")
			}
			if len(rows) != defaultSyntheticRows {
				t.Fatalf("len(rows) = %d, want %d", len(rows), defaultSyntheticRows)
			}
			if rows[0].ID != "sample-Lineup-0" {
				t.Errorf("rows[0].ID = %q, want sample-Lineup-0", rows[0].ID)
			}
			if got := report.Failures(); got != len(report.Attempts) {
				t.Errorf("failures = %d, want every attempt (%d) to fail", got, len(report.Attempts))
			}
			if len(tt.files) > 0 && len(report.Attempts) != 3 {
				t.Errorf("len(Attempts) = %d, want 3", len(report.Attempts))
			}

			again, _ := l.LoadSource(context.Background(), SourceSpec{Source: models.SourceLineup, Files: tt.files})
			if !reflect.DeepEqual(rows, again) {
				t.Error("synthetic rows are not deterministic")
			}
		})
	}
}

func TestSynthetic(t *testing.T) {
	rows := Synthetic(models.SourceBtech, 40, testClock())

	tests := []struct {
		i      int
		wantTS string
	}{
		{0, "2024-03-10 00:00:00"},
		{1, "2024-03-09 01:00:00"},
		{25, "2024-02-14 01:00:00"},
		{30, "2024-03-10 06:00:00"},
	}
	for _, tt := range tests {
		if rows[tt.i].Timestamp != tt.wantTS {
			t.Errorf("rows[%d].Timestamp = %q, want %q", tt.i, rows[tt.i].Timestamp, tt.wantTS)
		}
	}

	r := rows[7]
	if r.ID != "sample-btech-7" || r.ActorID != "user7@example.com" || r.EventType != "Capture" || r.Properties != "{}" {
		t.Errorf("rows[7] = %+v", r)
	}
	if r.Source != models.SourceBtech {
		t.Errorf("Source = %q, want %q", r.Source, models.SourceBtech)
	}
}

func TestLoadSourceJSON(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		content      string
		wantRows     int
		wantSkipped  int
		wantStrategy string
	}{
		{
			name: "array uses strict",
			file: "events.json",
			content: `[{"uuid":"e1","event":"Capture","properties":{"Page_Name":"Home"},"distinct_id":"u1","timestamp":"2024-01-15 10:00:00"},` +
				`{"uuid":"e2","event":"Capture","properties":"{}","distinct_id":"u2"},null]`,
			wantRows:     2,
			wantSkipped:  1,
			wantStrategy: StrategyStrict,
		},
		{
			name: "broken array falls back to lines",
			file: "events.json",
			content: "[\n" +
				`{"id":"e1","event_type":"Capture","actor_id":"u1","timestamp":"2024-01-15 10:00:00"},` + "\n" +
				`{"id":"e2","event_type":` + "\n" +
				"]\n",
			wantRows:     1,
			wantSkipped:  1,
			wantStrategy: StrategyLenient,
		},
		{
			name: "json lines start at lenient",
			file: "events.jsonl",
			content: `{"id":"e1","event":"Capture","timestamp":"2024-01-15 10:00:00"}` + "\n" +
				"not json\n\n" +
				`{"id":"e2","event":"Capture","timestamp":1705314600}` + "\n",
			wantRows:     2,
			wantSkipped:  1,
			wantStrategy: StrategyLenient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			rows, report := newTestLoader(Config{}).LoadSource(context.Background(), SourceSpec{Source: models.SourceBspace, Files: []string{path}})

			if report.Synthetic {
				t.Fatalf("Synthetic = true, attempts = %+v", report.Attempts)
			}
			if len(rows) != tt.wantRows {
				t.Errorf("len(rows) = %d, want %d", len(rows), tt.wantRows)
			}
			if report.Skipped != tt.wantSkipped {
				t.Errorf("Skipped = %d, want %d", report.Skipped, tt.wantSkipped)
			}
			if got := lastStrategy(report); got != tt.wantStrategy {
				t.Errorf("strategy = %q, want %q", got, tt.wantStrategy)
			}
		})
	}
}

func TestObjectRowEncodesNestedProperties(t *testing.T) {
	row := objectRow(map[string]any{
		"uuid":       "e1",
		"properties": map[string]any{"Duration": 12.5, "Page_Name": "Home"},
		"timestamp":  float64(1705314600),
	}, models.SourceBPS)
	if row.Properties != `{"Duration":12.5,"Page_Name":"Home"}` {
		t.Errorf("Properties = %q", row.Properties)
	}
	if row.Timestamp != "1705314600" {
		t.Errorf("Timestamp = %q, want 1705314600", row.Timestamp)
	}

	untimed := objectRow(map[string]any{"uuid": "e2", "distinct_id": "u2"}, models.SourceBPS)
	if untimed.ID != "e2" || untimed.ActorID != "u2" || untimed.Timestamp != "" {
		t.Errorf("objectRow() without timestamp = %+v, want row kept with empty timestamp", untimed)
	}
}

func TestRejoinSplitProperties(t *testing.T) {
	path := writeFile(t, t.TempDir(), "events.csv",
		"uuid,event,properties,distinct_id,timestamp\n"+
			"e1,Capture,{Page_Name:Home,Duration:5},u1,2024-01-15 10:00:00\n"+
			"e2,Capture,a,b,u2,2024-01-15 10:00:00\n")

	l := newTestLoader(Config{})
	out, err := l.lenientCSV(fileInput{Path: path, Source: models.SourceBPS})
	if err != nil {
		t.Fatalf("lenientCSV() error = %v", err)
	}
	if len(out.Rows) != 1 || out.Skipped != 1 {
		t.Fatalf("rows = %d skipped = %d, want 1 and 1", len(out.Rows), out.Skipped)
	}
	if got := out.Rows[0].Properties; got != "{Page_Name:Home,Duration:5}" {
		t.Errorf("Properties = %q", got)
	}
	if got := out.Rows[0].ActorID; got != "u1" {
		t.Errorf("ActorID = %q, want u1", got)
	}
}

func TestLenientCSVRecoversMisEscapedPayload(t *testing.T) {
	path := writeFile(t, t.TempDir(), "events.csv",
		"uuid,event,properties,distinct_id,timestamp\n"+
			`e1,Capture,"{"Page_Name":"Home","Widget_Name":"Save","Duration":45}",u1,2024-01-15 10:00:00`+"\n"+
			`e2,Capture,"{""Page_Name"":""Map""}",u2,2024-01-15 11:00:00`+"\n")

	rows, report := newTestLoader(Config{}).LoadSource(context.Background(), SourceSpec{Source: models.SourceBPS, Files: []string{path}})
	if got := lastStrategy(report); got != StrategyLenient {
		t.Fatalf("strategy = %q, want %q", got, StrategyLenient)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	want := []models.RawEvent{
		{
			ID:         "e1",
			EventType:  "Capture",
			Properties: `{"Page_Name":"Home","Widget_Name":"Save","Duration":45}`,
			ActorID:    "u1",
			Timestamp:  "2024-01-15 10:00:00",
			Source:     models.SourceBPS,
		},
		{
			ID:         "e2",
			EventType:  "Capture",
			Properties: `{"Page_Name":"Map"}`,
			ActorID:    "u2",
			Timestamp:  "2024-01-15 11:00:00",
			Source:     models.SourceBPS,
		},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %+v, want %+v", rows, want)
	}
}

func TestRecorderSpan(t *testing.T) {
	rec := &recorder{r: strings.NewReader("abcdefgh")}
	buf := make([]byte, 5)
	if _, err := rec.Read(buf); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := rec.span(1, 4); got != "bcd" {
		t.Errorf("span(1, 4) = %q, want bcd", got)
	}
	rec.discard(3)
	if got := rec.span(3, 5); got != "de" {
		t.Errorf("span(3, 5) after discard = %q, want de", got)
	}
	if got := rec.span(1, 4); got != "" {
		t.Errorf("span(1, 4) after discard = %q, want empty", got)
	}
}

func TestBoundedCSVStopsAtLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString(csvHeader)
	for i := 0; i < 10; i++ {
		b.WriteString("e,Capture,{},u,2024-01-15 10:00:00,x\n")
	}
	path := writeFile(t, t.TempDir(), "events.csv", b.String())

	l := newTestLoader(Config{MaxRows: 4})
	out, err := l.boundedCSV(fileInput{Path: path, Source: models.SourceBPS})
	if err != nil {
		t.Fatalf("boundedCSV() error = %v", err)
	}
	if len(out.Rows) != 4 {
		t.Errorf("len(Rows) = %d, want 4", len(out.Rows))
	}
}

func TestLenientCSVRunawayField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "events.csv",
		csvHeader+`e1,Capture,"{never closed,u1,2024-01-15 10:00:00,x`+"\n"+strings.Repeat("more\n", 40))

	l := newTestLoader(Config{MaxFieldBytes: 32})
	if _, err := l.lenientCSV(fileInput{Path: path, Source: models.SourceBPS}); !errors.Is(err, ErrRunawayField) {
		t.Errorf("lenientCSV() error = %v, want ErrRunawayField", err)
	}
}

func TestLoadSourceMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", csvHeader+"a1,Capture,{},u1,2024-01-15 10:00:00,x\n")
	b := writeFile(t, dir, "b.csv", csvHeader+"b1,Capture,{},u2,2024-01-16 10:00:00,x\nb2,Capture,{},u2,2024-01-16 11:00:00,x\n")
	missing := filepath.Join(dir, "missing.csv")

	rows, report := newTestLoader(Config{}).LoadSource(context.Background(), SourceSpec{
		Source: models.SourceBPS,
		Files:  []string{a, missing, b},
	})

	if report.Synthetic {
		t.Fatal("Synthetic = true, want false")
	}
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	if want := []string{"a1", "b1", "b2"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if got := report.Failures(); got != 3 {
		t.Errorf("failures = %d, want 3 (every strategy on the missing file)", got)
	}
}

func TestResolveFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data_app_posthog_BPS.csv", csvHeader)
	writeFile(t, dir, "data_app_posthog_BPS_2.csv", csvHeader)

	got := ResolveFiles([]string{
		filepath.Join(dir, "data_app_posthog_BPS*.csv"),
		filepath.Join(dir, "nothing*.csv"),
		filepath.Join(dir, "plain.csv"),
	})
	want := []string{
		filepath.Join(dir, "data_app_posthog_BPS.csv"),
		filepath.Join(dir, "data_app_posthog_BPS_2.csv"),
		filepath.Join(dir, "nothing*.csv"),
		filepath.Join(dir, "plain.csv"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveFiles() = %v, want %v", got, want)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	bps := writeFile(t, dir, "bps.csv", csvHeader+"e1,Capture,{},u1,2024-01-15 10:00:00,x\n")

	specs := []SourceSpec{
		{Source: models.SourceBPS, Files: []string{bps}},
		{Source: models.SourceLineup, Files: []string{filepath.Join(dir, "missing.csv")}},
		{Source: models.SourceEtam, Files: []string{bps}},
	}

	l := newTestLoader(Config{Concurrency: 2})
	loads, err := l.LoadAll(context.Background(), specs)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(loads) != len(specs) {
		t.Fatalf("len(loads) = %d, want %d", len(loads), len(specs))
	}
	for i, load := range loads {
		if load.Source != specs[i].Source {
			t.Errorf("loads[%d].Source = %q, want %q", i, load.Source, specs[i].Source)
		}
	}
	if loads[0].Report.Synthetic || !loads[1].Report.Synthetic {
		t.Errorf("synthetic flags = %v, %v; want false, true", loads[0].Report.Synthetic, loads[1].Report.Synthetic)
	}
	if loads[2].Rows[0].Source != models.SourceEtam {
		t.Errorf("rows are tagged %q, want %q", loads[2].Rows[0].Source, models.SourceEtam)
	}
}

func TestLoadAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader(Config{}).LoadAll(ctx, []SourceSpec{{Source: models.SourceBPS}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("LoadAll() error = %v, want context.Canceled", err)
	}
}

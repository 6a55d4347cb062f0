// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/usagelens/internal/models"
)

// writeConfig writes content to a temp file and points CONFIG_PATH at it.
func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.SourceList(); !reflect.DeepEqual(got, models.DefaultSources()) {
		t.Errorf("SourceList() = %v, want %v", got, models.DefaultSources())
	}
	if cfg.Data.Dir != "./data" {
		t.Errorf("Data.Dir = %q, want ./data", cfg.Data.Dir)
	}
	if cfg.Loader.MaxRows != 100_000 {
		t.Errorf("Loader.MaxRows = %d, want 100000", cfg.Loader.MaxRows)
	}
	if cfg.Analytics.BounceSeconds != 30 {
		t.Errorf("Analytics.BounceSeconds = %v, want 30", cfg.Analytics.BounceSeconds)
	}
	if cfg.Server.Port != 8501 {
		t.Errorf("Server.Port = %d, want 8501", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"DATA_DIR", "data.dir"},
		{"SOURCES", "data.sources"},
		{"LOADER_MAX_ROWS", "loader.max_rows"},
		{"BOUNCE_THRESHOLD", "analytics.bounce_seconds"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"DISABLE_RATE_LIMIT", "api.rate_limit_disabled"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Run("env path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv(ConfigPathEnvVar, path)
		if got := findConfigFile(); got != path {
			t.Errorf("findConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("missing env path falls through", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if got := findConfigFile(); got == "/non/existent/config.yaml" {
			t.Errorf("findConfigFile() returned a missing file")
		}
	})
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("DATA_DIR", "/srv/exports")
	t.Setenv("SOURCES", "BPS, etam ,")
	t.Setenv("BOUNCE_THRESHOLD", "45.5")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DISABLE_RATE_LIMIT", "true")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Data.Dir != "/srv/exports" {
		t.Errorf("Data.Dir = %q", cfg.Data.Dir)
	}
	if want := []string{"BPS", "etam"}; !reflect.DeepEqual(cfg.Data.Sources, want) {
		t.Errorf("Data.Sources = %v, want %v", cfg.Data.Sources, want)
	}
	if cfg.Analytics.BounceSeconds != 45.5 {
		t.Errorf("Analytics.BounceSeconds = %v, want 45.5", cfg.Analytics.BounceSeconds)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Cache.TTL != 90*time.Second {
		t.Errorf("Cache.TTL = %v, want 90s", cfg.Cache.TTL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.API.RateLimitDisabled {
		t.Error("API.RateLimitDisabled = false, want true")
	}
	// Untouched sections keep their defaults.
	if cfg.Analytics.Maturity != defaultConfig().Analytics.Maturity {
		t.Errorf("Analytics.Maturity = %+v, want defaults", cfg.Analytics.Maturity)
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	writeConfig(t, `
data:
  dir: /exports
  sources: [BPS, Lineup]
  files:
    Lineup: ["lineup/*.csv", "extra.jsonl"]
loader:
  synthetic_rows: 25
analytics:
  maturity:
    power_min_sessions: 8
  quality:
    high_min_duration: 240
server:
  port: 8080
`)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if want := []models.Source{models.SourceBPS, models.SourceLineup}; !reflect.DeepEqual(cfg.SourceList(), want) {
		t.Errorf("SourceList() = %v, want %v", cfg.SourceList(), want)
	}
	if want := []string{"lineup/*.csv", "extra.jsonl"}; !reflect.DeepEqual(cfg.Data.Files["Lineup"], want) {
		t.Errorf("Data.Files[Lineup] = %v, want %v", cfg.Data.Files["Lineup"], want)
	}
	if cfg.Loader.SyntheticRows != 25 {
		t.Errorf("Loader.SyntheticRows = %d, want 25", cfg.Loader.SyntheticRows)
	}
	if cfg.Analytics.Maturity.PowerMinSessions != 8 {
		t.Errorf("PowerMinSessions = %d, want 8", cfg.Analytics.Maturity.PowerMinSessions)
	}
	if cfg.Analytics.Maturity.NewMaxDuration != 30 {
		t.Errorf("NewMaxDuration = %v, want default 30", cfg.Analytics.Maturity.NewMaxDuration)
	}
	if cfg.Analytics.Quality.HighMinDuration != 240 {
		t.Errorf("HighMinDuration = %v, want 240", cfg.Analytics.Quality.HighMinDuration)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	writeConfig(t, `
server:
  port: 8080
logging:
  level: warn
`)
	t.Setenv("HTTP_PORT", "7000")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want env value 7000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want file value warn", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "zero bounce threshold", env: map[string]string{"BOUNCE_THRESHOLD": "0"}},
		{name: "port out of range", env: map[string]string{"HTTP_PORT": "70000"}},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "verbose"}},
		{name: "inverted maturity durations", file: "analytics:\n  maturity:\n    beginner_max_duration: 10\n"},
		{name: "files for unknown source", file: "data:\n  files:\n    nope: [x.csv]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigPathEnvVar, "")
			if tt.file != "" {
				writeConfig(t, tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadWithKoanf(); err == nil {
				t.Error("LoadWithKoanf() error = nil, want validation failure")
			}
		})
	}
}

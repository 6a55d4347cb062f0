// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package config

import (
	"time"

	"github.com/tomtom215/usagelens/internal/analytics"
	"github.com/tomtom215/usagelens/internal/models"
)

// Config is the root configuration.
type Config struct {
	Data      DataConfig           `koanf:"data"`
	Loader    LoaderConfig         `koanf:"loader"`
	Analytics analytics.Thresholds `koanf:"analytics"`
	Server    ServerConfig         `koanf:"server"`
	API       APIConfig            `koanf:"api"`
	Cache     CacheConfig          `koanf:"cache"`
	Logging   LoggingConfig        `koanf:"logging"`
}

// DataConfig locates the export files.
type DataConfig struct {
	Dir string `koanf:"dir" validate:"required"`

	// Sources is the ordered source list. Output rows follow this order.
	Sources []string `koanf:"sources" validate:"min=1,dive,required"`

	// Files overrides the default export file of a source with explicit
	// paths or glob patterns.
	Files map[string][]string `koanf:"files"`
}

// LoaderConfig holds the raw loader limits.
type LoaderConfig struct {
	MaxRows       int           `koanf:"max_rows" validate:"min=1"`
	MaxFieldBytes int           `koanf:"max_field_bytes" validate:"min=1024"`
	SyntheticRows int           `koanf:"synthetic_rows" validate:"min=1,max=100000"`
	Concurrency   int           `koanf:"concurrency" validate:"gte=0"`
	BuildTimeout  time.Duration `koanf:"build_timeout" validate:"gte=0"` // 0 = no timeout
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// APIConfig holds API pagination, limits, CORS and rate limiting.
type APIConfig struct {
	DefaultPageSize   int           `koanf:"default_page_size" validate:"min=1"`
	MaxPageSize       int           `koanf:"max_page_size" validate:"gtefield=DefaultPageSize"`
	DefaultLimit      int           `koanf:"default_limit" validate:"min=1"`
	MaxLimit          int           `koanf:"max_limit" validate:"gtefield=DefaultLimit"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// CacheConfig holds the analytics response cache settings.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	TTL        time.Duration `koanf:"ttl" validate:"gt=0"`
	MaxEntries int           `koanf:"max_entries" validate:"min=1"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format is the output format: json or console.
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// defaultConfig returns the built-in defaults, the first koanf layer.
func defaultConfig() *Config {
	sources := models.DefaultSources()
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.String()
	}

	return &Config{
		Data: DataConfig{
			Dir:     "./data",
			Sources: names,
		},
		Loader: LoaderConfig{
			MaxRows:       100_000,
			MaxFieldBytes: 1 << 20,
			SyntheticRows: 100,
			Concurrency:   0,
			BuildTimeout:  5 * time.Minute,
		},
		Analytics: analytics.DefaultThresholds(),
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8501,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 50,
			MaxPageSize:     1000,
			DefaultLimit:    10,
			MaxLimit:        500,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// SourceList returns the configured sources in order.
func (c *Config) SourceList() []models.Source {
	out := make([]models.Source, len(c.Data.Sources))
	for i, s := range c.Data.Sources {
		out[i] = models.Source(s)
	}
	return out
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package config loads and validates the usagelens configuration.

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/usagelens/config.yaml or /etc/usagelens/config.yml
 3. Environment variables

# Sections

  - data: the data directory, the ordered source list and optional per-source
    file lists (explicit paths or globs, relative to the data directory)
  - loader: row and field ceilings of the bounded strategies, the synthetic
    fallback size, load concurrency and the build timeout
  - analytics: the bounce threshold and the maturity and quality rule tables
  - server: HTTP listen address and timeouts
  - api: pagination and top-N limits, CORS and rate limiting
  - cache: the analytics response cache
  - logging: zerolog level, format and caller annotation

# Environment Variables

Only mapped variables are read; anything else in the environment is ignored.

  - DATA_DIR, SOURCES (comma-separated)
  - LOADER_MAX_ROWS, LOADER_MAX_FIELD_BYTES, LOADER_SYNTHETIC_ROWS,
    LOADER_CONCURRENCY, LOADER_BUILD_TIMEOUT
  - BOUNCE_THRESHOLD, REGULAR_MAX_SESSIONS, LEARNING_MAX_SESSIONS
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, SHUTDOWN_TIMEOUT
  - API_DEFAULT_PAGE_SIZE, API_MAX_PAGE_SIZE, API_DEFAULT_LIMIT, API_MAX_LIMIT,
    CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CACHE_ENABLED, CACHE_TTL, CACHE_MAX_ENTRIES
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Per-source file lists and the maturity and quality thresholds are only
settable from the YAML file:

	data:
	  dir: ./data
	  sources: [BPS, Lineup]
	  files:
	    Lineup: ["lineup/*.csv", "lineup-extra.jsonl"]
	analytics:
	  bounce_seconds: 30
	  maturity:
	    power_min_sessions: 8

# Validation

Validate runs go-playground/validator over the struct tags (which include the
analytics threshold ordering) and then checks the source list for blanks and
duplicates. An invalid configuration is fatal at startup.
*/
package config

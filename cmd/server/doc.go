// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

// Package main is the entry point of the usagelens server.
//
// usagelens loads product-analytics event exports from several sources,
// normalizes them into one canonical table and serves engagement,
// navigation and usage analytics over a JSON API.
//
// # Startup Order
//
//  1. Configuration: defaults, optional YAML file, environment (koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Analytics engine: rule thresholds validated before anything starts
//  4. Pipeline: per-source loading, payload extraction and normalization,
//     run once by the supervisor in the background
//  5. HTTP server: chi router, answering not-ready until the pipeline build
//     completes
//
// # Configuration
//
// Common environment variables:
//
//	DATA_DIR=./data           directory of the export files
//	SOURCES=BPS,Lineup        sources to load, in report order
//	HTTP_PORT=8501            listen port
//	LOG_LEVEL=info            trace, debug, info, warn or error
//	CONFIG_PATH=config.yaml   optional YAML file
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor drains the
// HTTP server within server.shutdown_timeout and reports services that did
// not stop in time.
package main

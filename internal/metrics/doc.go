// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package metrics provides Prometheus instrumentation for Usagelens.

Collectors are registered on the default registry with promauto and exposed by
the API at /metrics. Callers use the Record* helpers rather than touching the
collectors directly.

# Available Metrics

Ingestion:
  - usagelens_loader_attempts_total{source,strategy,outcome}
  - usagelens_loader_synthetic_fallbacks_total{source}
  - usagelens_loader_rows_total{source}
  - usagelens_loader_rows_skipped_total{source}
  - usagelens_loader_duration_seconds{source}

Extraction and normalization:
  - usagelens_payload_tier_total{tier}
  - usagelens_normalize_rows_dropped_total
  - usagelens_table_rows (gauge)
  - usagelens_pipeline_build_duration_seconds

API:
  - usagelens_api_requests_total{method,endpoint,status_code}
  - usagelens_api_request_duration_seconds{method,endpoint}
  - usagelens_api_active_requests (gauge)
  - usagelens_api_rate_limit_hits_total{endpoint}
  - usagelens_cache_hits_total, usagelens_cache_misses_total
*/
package metrics

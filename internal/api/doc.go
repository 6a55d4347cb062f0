// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package api exposes the canonical table and the analytics engine over a JSON
HTTP API built on chi.

Every response uses the same envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "VALIDATION_FAILED", "message": "...", "details": {...}},
	  "meta": {"request_id": "...", "timestamp": "...", "cached": false}
	}

Filter Parameters:

Analytics and event endpoints accept the same filter query parameters:

  - sources: comma separated source names; absent selects every source and
    a present but empty value selects none
  - start, end: inclusive calendar dates in YYYY-MM-DD format
  - device, country, event_type: exact matches
  - q: case-insensitive text search
  - nav, min_journey, active_only: navigation options
  - limit: number of rows for ranked endpoints

Analytics responses are cached per path and query string. The canonical table
is immutable after the pipeline build, so cached entries never go stale before
their TTL.

Endpoints:

	GET /api/v1/health/live
	GET /api/v1/health/ready
	GET /api/v1/sources
	GET /api/v1/filters
	GET /api/v1/events
	GET /api/v1/analytics/...
	GET /metrics
*/
package api

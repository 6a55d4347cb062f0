// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package cache provides the thread-safe TTL cache behind the analytics API.

The canonical table never changes after the pipeline build, so an analytics
response depends only on its endpoint and query parameters. The API caches
encoded response bodies under GenerateKey(path, params) and serves repeats
from memory until the TTL expires.

# Behavior

  - Expired entries are dropped lazily on Get and in bulk by Serve, which runs
    under the process supervisor.
  - The cache is bounded: inserting a new key into a full cache first drops
    expired entries, or the entry closest to expiry.
  - Hits and misses feed both Stats and the usagelens_cache_* Prometheus
    counters.

# Usage

	c := cache.New(5*time.Minute, 1000)
	key := cache.GenerateKey("/api/v1/analytics/kpis", query)
	if body, ok := c.Get(key); ok {
	    return body.([]byte)
	}
	c.Set(key, body)
*/
package cache

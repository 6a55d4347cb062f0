// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/usagelens/internal/logging"
	"github.com/tomtom215/usagelens/internal/metrics"
)

// DefaultCleanupInterval is the sweep period of Serve.
const DefaultCleanupInterval = time.Minute

// Entry is a cached value with its expiry.
type Entry struct {
	Data      any
	ExpiresAt time.Time
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Cache is a thread-safe TTL cache bounded to maxEntries. When full, the
// entry closest to expiry is evicted to make room.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	statsMu sync.Mutex
	stats   Stats
}

// New creates a cache. maxEntries <= 0 means unbounded. Expired entries are
// dropped lazily on Get and in bulk while Serve runs.
//
//	c := cache.New(5*time.Minute, 1000)
//	c.Set(cache.GenerateKey("kpis", params), body)
func New(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string]Entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		stats:      Stats{LastCleanup: time.Now()},
	}
}

// Get returns the live value for key. Lookups are counted in the cache
// stats and the Prometheus hit/miss counters.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.record(func(s *Stats) { s.Misses++ })
		metrics.RecordCacheLookup(false)
		return nil, false
	}

	if c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		n := len(c.entries)
		c.mu.Unlock()
		c.record(func(s *Stats) {
			s.Misses++
			s.Evictions++
			s.TotalKeys = int64(n)
		})
		metrics.RecordCacheLookup(false)
		return nil, false
	}

	c.record(func(s *Stats) { s.Hits++ })
	metrics.RecordCacheLookup(true)
	return entry.Data, true
}

// Set stores value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value with a custom TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	now := c.now()
	c.mu.Lock()
	evicted := 0
	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		evicted = c.evictLocked(now)
	}
	c.entries[key] = Entry{Data: value, ExpiresAt: now.Add(ttl)}
	n := len(c.entries)
	c.mu.Unlock()

	c.record(func(s *Stats) {
		s.Evictions += int64(evicted)
		s.TotalKeys = int64(n)
	})
}

// evictLocked drops every expired entry, or the entry closest to expiry when
// none has expired. Must be called with mu held.
func (c *Cache) evictLocked(now time.Time) int {
	evicted := 0
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if now.After(e.ExpiresAt) {
			delete(c.entries, k)
			evicted++
			continue
		}
		if oldestKey == "" || e.ExpiresAt.Before(oldest) {
			oldestKey, oldest = k, e.ExpiresAt
		}
	}
	if evicted == 0 && oldestKey != "" {
		delete(c.entries, oldestKey)
		evicted = 1
	}
	return evicted
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	n := len(c.entries)
	c.mu.Unlock()

	c.record(func(s *Stats) {
		if existed {
			s.Evictions++
		}
		s.TotalKeys = int64(n)
	})
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	evictions := int64(len(c.entries))
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.record(func(s *Stats) {
		s.Evictions += evictions
		s.TotalKeys = 0
	})
}

// GetStats returns a snapshot of the counters.
func (c *Cache) GetStats() Stats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return c.stats
}

// HitRate returns the hit rate as a percentage.
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Serve sweeps expired entries every DefaultCleanupInterval until ctx is
// done. It implements suture.Service.
func (c *Cache) Serve(ctx context.Context) error {
	ticker := time.NewTicker(DefaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// String names the cache in supervisor logs.
func (c *Cache) String() string {
	return "analytics-cache"
}

// cleanup removes all expired entries.
func (c *Cache) cleanup() {
	now := c.now()
	c.mu.Lock()
	evictions := int64(0)
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			evictions++
		}
	}
	n := len(c.entries)
	c.mu.Unlock()

	c.record(func(s *Stats) {
		s.Evictions += evictions
		s.TotalKeys = int64(n)
		s.LastCleanup = now
	})

	if evictions > 0 {
		log := logging.WithComponent("cache")
		log.Debug().Int64("evicted", evictions).Int("remaining", n).Msg("Expired cache entries swept")
	}
}

func (c *Cache) record(update func(*Stats)) {
	c.statsMu.Lock()
	update(&c.stats)
	c.statsMu.Unlock()
}

// GenerateKey creates a cache key from a method name and its parameters.
func GenerateKey(method string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}

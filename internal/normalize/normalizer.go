// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package normalize

import (
	"context"

	"github.com/tomtom215/usagelens/internal/logging"
	"github.com/tomtom215/usagelens/internal/metrics"
	"github.com/tomtom215/usagelens/internal/models"
	"github.com/tomtom215/usagelens/internal/payload"
)

// Stats summarizes one normalization pass.
type Stats struct {
	Input   int
	Output  int
	Dropped int
	ByTier  map[string]int
}

// Merge adds other into s.
func (s *Stats) Merge(other Stats) {
	s.Input += other.Input
	s.Output += other.Output
	s.Dropped += other.Dropped
	if s.ByTier == nil {
		s.ByTier = make(map[string]int, len(other.ByTier))
	}
	for tier, n := range other.ByTier {
		s.ByTier[tier] += n
	}
}

// Normalizer converts raw rows into canonical events.
type Normalizer struct {
	extractor *payload.Extractor
	log       *logging.StageLogger
}

// New creates a normalizer using the given payload extractor. A nil extractor
// selects the standard one.
func New(extractor *payload.Extractor) *Normalizer {
	if extractor == nil {
		extractor = payload.NewExtractor()
	}
	return &Normalizer{
		extractor: extractor,
		log:       logging.NewStageLogger("normalize"),
	}
}

// Normalize converts raw rows in order. Rows whose timestamp cannot be parsed
// are dropped; only their count is reported.
func (n *Normalizer) Normalize(ctx context.Context, raw []models.RawEvent) ([]models.Event, Stats) {
	stats := Stats{Input: len(raw), ByTier: make(map[string]int)}
	events := make([]models.Event, 0, len(raw))

	for i := range raw {
		ev, tier, ok := n.Row(&raw[i])
		if !ok {
			stats.Dropped++
			continue
		}
		stats.ByTier[tier]++
		events = append(events, ev)
	}
	stats.Output = len(events)

	metrics.RecordRowsDropped(stats.Dropped)
	for tier, count := range stats.ByTier {
		metrics.RecordPayloadTier(tier, count)
	}
	n.log.RowsDropped(ctx, stats.Input, stats.Dropped)

	return events, stats
}

// Row converts one raw row. ok is false when the timestamp is unparseable.
func (n *Normalizer) Row(r *models.RawEvent) (ev models.Event, tier string, ok bool) {
	occurredAt, ok := ParseTimestamp(r.Timestamp)
	if !ok {
		return models.Event{}, "", false
	}

	res := n.extractor.Extract(r.Properties)
	return models.Event{
		ID:          r.ID,
		Source:      r.Source,
		EventType:   r.EventType,
		ActorID:     r.ActorID,
		OccurredAt:  occurredAt,
		Date:        CalendarDate(occurredAt),
		RawPayload:  r.Properties,
		Attributes:  res.Attributes,
		PayloadTier: res.Tier,
		Fields:      Derive(res.Attributes),
	}, res.Tier, true
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package ingest

import (
	"errors"
	"strings"

	"github.com/tomtom215/usagelens/internal/models"
)

// Canonical column names of the allow-list.
const (
	ColumnID         = "id"
	ColumnEventType  = "event_type"
	ColumnProperties = "properties"
	ColumnActorID    = "actor_id"
	ColumnTimestamp  = "timestamp"
)

// ErrNoTimestampColumn is returned when a header lacks a timestamp column.
var ErrNoTimestampColumn = errors.New("header has no timestamp column")

// columnAliases maps accepted header names to canonical column names.
var columnAliases = map[string]string{
	"id":          ColumnID,
	"uuid":        ColumnID,
	"event_type":  ColumnEventType,
	"event":       ColumnEventType,
	"properties":  ColumnProperties,
	"actor_id":    ColumnActorID,
	"distinct_id": ColumnActorID,
	"timestamp":   ColumnTimestamp,
}

// canonicalColumn returns the canonical name for a header cell, or "".
func canonicalColumn(name string) string {
	name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
	return columnAliases[name]
}

// columnMap records the position of each allow-listed column in a header.
// Columns absent from the header have index -1 and yield "".
type columnMap struct {
	width      int
	id         int
	eventType  int
	properties int
	actorID    int
	timestamp  int
}

// mapHeader builds a columnMap. The first occurrence of a column wins and
// columns outside the allow-list are discarded.
func mapHeader(header []string) (columnMap, error) {
	m := columnMap{width: len(header), id: -1, eventType: -1, properties: -1, actorID: -1, timestamp: -1}
	for i, cell := range header {
		var slot *int
		switch canonicalColumn(cell) {
		case ColumnID:
			slot = &m.id
		case ColumnEventType:
			slot = &m.eventType
		case ColumnProperties:
			slot = &m.properties
		case ColumnActorID:
			slot = &m.actorID
		case ColumnTimestamp:
			slot = &m.timestamp
		default:
			continue
		}
		if *slot == -1 {
			*slot = i
		}
	}
	if m.timestamp == -1 {
		return m, ErrNoTimestampColumn
	}
	return m, nil
}

// row builds a RawEvent from a record of exactly m.width fields.
func (m columnMap) row(record []string, source models.Source) models.RawEvent {
	return models.RawEvent{
		ID:         field(record, m.id),
		EventType:  field(record, m.eventType),
		Properties: field(record, m.properties),
		ActorID:    field(record, m.actorID),
		Timestamp:  field(record, m.timestamp),
		Source:     source,
	}
}

// rejoin repairs a record that is wider than the header because its
// properties payload was split at commas. The payload is re-read from the raw
// record text, since LazyQuotes consumes the quote in front of each comma of
// a mis-escaped payload and joining the split fields would fuse keys into
// values. ok is false when the record cannot be explained that way.
func (m columnMap) rejoin(record []string, raw rawRecord) (fixed []string, ok bool) {
	extra := len(record) - m.width
	if extra <= 0 || m.properties == -1 {
		return nil, false
	}
	end := m.properties + extra + 1

	payload, found := raw.between(m.properties, end, len(record))
	if !found {
		payload = strings.Join(record[m.properties:end], ",")
	}
	if !strings.HasPrefix(strings.TrimSpace(payload), "{") {
		return nil, false
	}

	fixed = make([]string, 0, m.width)
	fixed = append(fixed, record[:m.properties]...)
	fixed = append(fixed, payload)
	fixed = append(fixed, record[end:]...)
	return fixed, true
}

// rawRecord is the unparsed text of the record last returned by a
// csv.Reader, with the reader's field positions.
type rawRecord struct {
	text string
	pos  func(field int) (line, column int)
}

// between returns the raw text from the start of field from up to the
// delimiter in front of field to (or the end of the record when to equals
// width). A payload wrapped in a pair of quotes is unwrapped.
func (rr rawRecord) between(from, to, width int) (string, bool) {
	if rr.text == "" || rr.pos == nil {
		return "", false
	}
	text := strings.TrimLeft(rr.text, "\r\n")
	firstLine, _ := rr.pos(0)
	lines := strings.SplitAfter(text, "\n")

	offset := func(field int) int {
		line, col := rr.pos(field)
		k := line - firstLine
		if k < 0 || k >= len(lines) {
			return -1
		}
		off := col - 1
		for _, l := range lines[:k] {
			off += len(l)
		}
		if off > len(text) {
			return -1
		}
		return off
	}

	start := offset(from)
	stop := len(strings.TrimRight(text, "\r\n"))
	if to < width {
		stop = offset(to) - 1
	}
	if start < 0 || stop < start {
		return "", false
	}

	payload := text[start:stop]
	if len(payload) >= 2 && payload[0] == '"' && payload[len(payload)-1] == '"' {
		payload = payload[1 : len(payload)-1]
	}
	return payload, true
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

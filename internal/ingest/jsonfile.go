// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package ingest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/tomtom215/usagelens/internal/models"
)

// strictJSON decodes a file holding one JSON array of event objects. Null
// elements are skipped.
func (l *Loader) strictJSON(in fileInput) (parsed, error) {
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return parsed{}, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return parsed{}, ErrEmptyFile
	}
	if !utf8.Valid(data) {
		return parsed{}, ErrInvalidUTF8
	}

	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		return parsed{}, fmt.Errorf("decode array: %w", err)
	}

	var out parsed
	for _, obj := range objects {
		if obj == nil {
			out.Skipped++
			continue
		}
		out.Rows = append(out.Rows, objectRow(obj, in.Source))
	}
	return out, nil
}

// lenientJSON decodes one object per line, skipping undecodable lines.
func (l *Loader) lenientJSON(in fileInput) (parsed, error) {
	return l.readLines(in, 0)
}

// boundedJSON decodes at most MaxRows objects, one per line.
func (l *Loader) boundedJSON(in fileInput) (parsed, error) {
	return l.readLines(in, l.cfg.MaxRows)
}

// readLines accepts JSON Lines as well as a pretty-printed array with one
// object per line: array brackets and trailing commas are ignored.
func (l *Loader) readLines(in fileInput, limit int) (parsed, error) {
	bounded := limit > 0

	f, err := os.Open(in.Path)
	if err != nil {
		return parsed{}, err
	}
	defer f.Close()

	maxLine := l.cfg.MaxFieldBytes
	if maxLine <= 0 {
		maxLine = defaultMaxFieldBytes
	}
	sc := bufio.NewScanner(forceUTF8(f))
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	var out parsed
	seen := false
	for (!bounded || len(out.Rows) < limit) && sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		line = bytes.TrimSuffix(bytes.TrimPrefix(line, []byte("[")), []byte("]"))
		line = bytes.TrimSuffix(bytes.TrimSpace(line), []byte(","))
		if len(line) == 0 {
			continue
		}
		seen = true

		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil || obj == nil {
			out.Skipped++
			continue
		}
		out.Rows = append(out.Rows, objectRow(obj, in.Source))
	}

	if err := sc.Err(); err != nil {
		if bounded && len(out.Rows) > 0 {
			return out, nil
		}
		if errors.Is(err, bufio.ErrTooLong) {
			return parsed{}, ErrRunawayField
		}
		return parsed{}, err
	}
	if !seen {
		return parsed{}, ErrEmptyFile
	}
	return out, nil
}

// objectRow maps a decoded object onto the allow-listed columns. Object-valued
// properties are re-encoded so the extractor sees text. A missing timestamp
// stays empty; the normalizer drops and counts such rows.
func objectRow(obj map[string]any, source models.Source) models.RawEvent {
	row := models.RawEvent{Source: source}
	for key, value := range obj {
		col := canonicalColumn(key)
		if col == "" {
			continue
		}
		text := scalarText(value)
		switch col {
		case ColumnID:
			setOnce(&row.ID, text)
		case ColumnEventType:
			setOnce(&row.EventType, text)
		case ColumnProperties:
			setOnce(&row.Properties, text)
		case ColumnActorID:
			setOnce(&row.ActorID, text)
		case ColumnTimestamp:
			setOnce(&row.Timestamp, text)
		}
	}
	return row
}

// setOnce keeps the lexically smallest non-empty value, so an object carrying
// two aliases of one column (uuid and id) resolves the same way regardless of
// map iteration order.
func setOnce(dst *string, v string) {
	if *dst == "" || (v != "" && v < *dst) {
		*dst = v
	}
}

func scalarText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

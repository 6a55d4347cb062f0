// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/tomtom215/usagelens/internal/models"
)

// Strategy names shared by the CSV and JSON chains.
const (
	StrategyStrict  = "strict"
	StrategyLenient = "lenient"
	StrategyBounded = "bounded"
)

var (
	// ErrEmptyFile is returned for a file without a header line.
	ErrEmptyFile = errors.New("file is empty")

	// ErrInvalidUTF8 is returned by the strict strategy for non UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")

	// ErrRunawayField is returned when a field exceeds Config.MaxFieldBytes,
	// which is the signature of an unterminated quote.
	ErrRunawayField = errors.New("field exceeds size limit")
)

// fileInput is the input of every load strategy.
type fileInput struct {
	Path   string
	Source models.Source
}

// parsed is the output of a successful load strategy.
type parsed struct {
	Rows    []models.RawEvent
	Skipped int
}

// strictCSV reads a well-formed file. Ragged rows are skipped; anything else
// fails the strategy.
func (l *Loader) strictCSV(in fileInput) (parsed, error) {
	f, err := os.Open(in.Path)
	if err != nil {
		return parsed{}, err
	}
	defer f.Close()

	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1

	cols, err := readHeader(r)
	if err != nil {
		return parsed{}, err
	}

	var out parsed
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return parsed{}, err
		}
		if len(record) != cols.width {
			out.Skipped++
			continue
		}
		for _, v := range record {
			if !utf8.ValidString(v) {
				line, _ := r.FieldPos(0)
				return parsed{}, fmt.Errorf("line %d: %w", line, ErrInvalidUTF8)
			}
		}
		out.Rows = append(out.Rows, cols.row(record, in.Source))
	}
	return out, nil
}

// lenientCSV reads the whole file tolerantly.
func (l *Loader) lenientCSV(in fileInput) (parsed, error) {
	return l.readTolerant(in, 0)
}

// boundedCSV reads at most MaxRows rows tolerantly.
func (l *Loader) boundedCSV(in fileInput) (parsed, error) {
	return l.readTolerant(in, l.cfg.MaxRows)
}

// readTolerant implements the lenient (limit == 0) and bounded (limit > 0)
// strategies.
func (l *Loader) readTolerant(in fileInput, limit int) (parsed, error) {
	bounded := limit > 0

	f, err := os.Open(in.Path)
	if err != nil {
		return parsed{}, err
	}
	defer f.Close()

	rec := &recorder{r: forceUTF8(f)}
	r := csv.NewReader(rec)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	cols, err := readHeader(r)
	if err != nil {
		return parsed{}, err
	}

	var out parsed
	for !bounded || len(out.Rows) < limit {
		start := r.InputOffset()
		rec.discard(start)
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				out.Skipped++
				continue
			}
			if bounded && len(out.Rows) > 0 {
				break
			}
			return parsed{}, err
		}

		if l.oversized(record) {
			if bounded {
				out.Skipped++
				continue
			}
			line, _ := r.FieldPos(0)
			return parsed{}, fmt.Errorf("line %d: %w", line, ErrRunawayField)
		}

		if len(record) > cols.width {
			raw := rawRecord{text: rec.span(start, r.InputOffset()), pos: r.FieldPos}
			fixed, ok := cols.rejoin(record, raw)
			if !ok {
				out.Skipped++
				continue
			}
			record = fixed
		}
		if len(record) != cols.width {
			out.Skipped++
			continue
		}
		out.Rows = append(out.Rows, cols.row(record, in.Source))
	}
	return out, nil
}

func (l *Loader) oversized(record []string) bool {
	if l.cfg.MaxFieldBytes <= 0 {
		return false
	}
	for _, v := range record {
		if len(v) > l.cfg.MaxFieldBytes {
			return true
		}
	}
	return false
}

func readHeader(r *csv.Reader) (columnMap, error) {
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return columnMap{}, ErrEmptyFile
	}
	if err != nil {
		return columnMap{}, fmt.Errorf("read header: %w", err)
	}
	return mapHeader(header)
}

// recorder keeps the bytes handed to a csv.Reader that the reader has not
// yet consumed, so the raw text of the last record can be recovered.
type recorder struct {
	r    io.Reader
	buf  []byte
	base int64 // stream offset of buf[0]
}

func (rc *recorder) Read(p []byte) (int, error) {
	n, err := rc.r.Read(p)
	rc.buf = append(rc.buf, p[:n]...)
	return n, err
}

// discard drops the bytes before stream offset off.
func (rc *recorder) discard(off int64) {
	d := off - rc.base
	if d <= 0 || d > int64(len(rc.buf)) {
		return
	}
	rc.buf = append(rc.buf[:0], rc.buf[d:]...)
	rc.base = off
}

// span returns the bytes between stream offsets from and to.
func (rc *recorder) span(from, to int64) string {
	i, j := from-rc.base, to-rc.base
	if i < 0 || i > j || j > int64(len(rc.buf)) {
		return ""
	}
	return string(rc.buf[i:j])
}

// forceUTF8 strips a leading byte order mark and replaces invalid UTF-8
// sequences with U+FFFD.
func forceUTF8(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
}

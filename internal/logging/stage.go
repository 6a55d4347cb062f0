// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package logging

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// StageLogger provides logging for one stage of the ingestion pipeline
// (ingest, payload, normalize, pipeline). Every line carries a "stage" field
// plus the correlation ID of the build run when the context has one.
type StageLogger struct {
	logger zerolog.Logger
}

// NewStageLogger creates a logger for the named pipeline stage.
func NewStageLogger(stage string) *StageLogger {
	return &StageLogger{logger: With().Str("stage", stage).Logger()}
}

func (s *StageLogger) withContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return &s.logger
	}
	id := CorrelationIDFromContext(ctx)
	if id == "" {
		return &s.logger
	}
	l := s.logger.With().Str("correlation_id", id).Logger()
	return &l
}

// Info logs a free-form info message.
func (s *StageLogger) Info(ctx context.Context) *zerolog.Event {
	return s.withContext(ctx).Info()
}

// Debug logs a free-form debug message.
func (s *StageLogger) Debug(ctx context.Context) *zerolog.Event {
	return s.withContext(ctx).Debug()
}

// Warn logs a free-form warning message.
func (s *StageLogger) Warn(ctx context.Context) *zerolog.Event {
	return s.withContext(ctx).Warn()
}

// AttemptSucceeded logs a load strategy that produced rows.
func (s *StageLogger) AttemptSucceeded(ctx context.Context, source, file, strategy string, rows, skipped int, took time.Duration) {
	s.withContext(ctx).Debug().
		Str("source", source).
		Str("file", file).
		Str("strategy", strategy).
		Int("rows", rows).
		Int("skipped", skipped).
		Dur("duration", took).
		Msg("load strategy succeeded")
}

// AttemptFailed logs a load strategy that failed; the next strategy is tried.
func (s *StageLogger) AttemptFailed(ctx context.Context, source, file, strategy string, err error) {
	s.withContext(ctx).Warn().
		Str("source", source).
		Str("file", file).
		Str("strategy", strategy).
		Err(err).
		Msg("load strategy failed")
}

// SyntheticFallback logs a source that degraded to placeholder rows.
func (s *StageLogger) SyntheticFallback(ctx context.Context, source string, rows int) {
	s.withContext(ctx).Warn().
		Str("source", source).
		Int("rows", rows).
		Msg("all load strategies failed, using synthetic placeholder data")
}

// SourceLoaded logs the final outcome for one source.
func (s *StageLogger) SourceLoaded(ctx context.Context, source string, rows, files int, synthetic bool) {
	s.withContext(ctx).Info().
		Str("source", source).
		Int("rows", rows).
		Int("files", files).
		Bool("synthetic", synthetic).
		Msg("source loaded")
}

// RowsDropped logs rows removed during normalization.
func (s *StageLogger) RowsDropped(ctx context.Context, input, dropped int) {
	e := s.withContext(ctx).Info()
	if dropped > 0 {
		e = s.withContext(ctx).Warn()
	}
	e.Int("input_rows", input).
		Int("dropped_rows", dropped).
		Msg("normalization complete")
}

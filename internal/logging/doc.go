// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

// Package logging provides centralized zerolog-based structured logging for Usagelens.
//
// A single global zerolog logger is shared by every package. It writes JSON by
// default and human-readable console output when configured for development.
//
// # Quick Start
//
//	import "github.com/tomtom215/usagelens/internal/logging"
//
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("source", "BPS").Int("rows", n).Msg("Source loaded")
//	logging.Error().Err(err).Msg("Server stopped")
//
//	// Request-scoped logging (request_id, correlation_id)
//	logging.Ctx(ctx).Info().Msg("Analytics request served")
//
// # Pipeline Stages
//
// StageLogger wraps the global logger with a "stage" field and offers
// domain-specific helpers for the ingestion pipeline (strategy attempts,
// synthetic fallbacks, dropped rows):
//
//	log := logging.NewStageLogger("ingest")
//	log.AttemptFailed(ctx, "BPS", "data.csv", "strict", err)
//
// # Supervisor Integration
//
// Suture reports supervisor events through log/slog. NewSlogLogger returns an
// slog.Logger whose handler writes to zerolog, so supervisor output shares the
// same format and level as the rest of the process:
//
//	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}
//
// # Configuration
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Conventions
//
// Always terminate log chains with .Msg() or .Send(), and prefer structured
// fields to Msgf formatting.
package logging

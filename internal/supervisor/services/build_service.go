// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/logging"
	"github.com/tomtom215/usagelens/internal/models"
)

// Builder builds the canonical table. *pipeline.Pipeline satisfies it.
type Builder interface {
	Build(ctx context.Context) (*dataset.Table, models.LoadReport, error)
}

// BuildService runs the pipeline build once under the supervisor.
type BuildService struct {
	builder Builder
	timeout time.Duration
	name    string
}

// NewBuildService wraps b. timeout <= 0 disables the build deadline.
func NewBuildService(b Builder, timeout time.Duration) *BuildService {
	return &BuildService{
		builder: b,
		timeout: timeout,
		name:    "pipeline-build",
	}
}

// Serve runs the build and returns suture.ErrDoNotRestart when it is done,
// successful or not. The build result is sticky, so a restart could not
// change it.
func (s *BuildService) Serve(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tbl, report, err := s.builder.Build(ctx)
	if err != nil {
		logging.Err(err).Msg("Pipeline build failed; the API stays not-ready")
		return fmt.Errorf("pipeline build: %w: %w", err, suture.ErrDoNotRestart)
	}

	logging.Info().
		Str("run_id", report.RunID).
		Int("rows", tbl.Len()).
		Int("sources", len(report.Sources)).
		Msg("Dataset ready")
	return suture.ErrDoNotRestart
}

// String names the service in supervisor logs.
func (s *BuildService) String() string {
	return s.name
}

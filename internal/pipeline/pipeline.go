// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/ingest"
	"github.com/tomtom215/usagelens/internal/logging"
	"github.com/tomtom215/usagelens/internal/metrics"
	"github.com/tomtom215/usagelens/internal/models"
	"github.com/tomtom215/usagelens/internal/normalize"
	"github.com/tomtom215/usagelens/internal/payload"
)

// ErrNotBuilt is returned by accessors used before a successful Build.
var ErrNotBuilt = errors.New("pipeline not built")

// Config controls a pipeline build.
type Config struct {
	// Sources lists the sources in configured order.
	Sources []ingest.SourceSpec

	Loader ingest.Config
}

// Pipeline owns the canonical table.
type Pipeline struct {
	cfg        Config
	loader     *ingest.Loader
	normalizer *normalize.Normalizer
	log        *logging.StageLogger

	once   sync.Once
	ready  atomic.Bool
	table  *dataset.Table
	report models.LoadReport
	err    error
}

// New creates an unbuilt pipeline.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		loader:     ingest.NewLoader(cfg.Loader),
		normalizer: normalize.New(payload.NewExtractor()),
		log:        logging.NewStageLogger("pipeline"),
	}
}

// SourceSpecs builds the load specs of sources. A source without an entry in
// files reads <dir>/data_app_posthog_<source>.csv. Relative file patterns are
// resolved against dir.
func SourceSpecs(dir string, sources []models.Source, files map[string][]string) []ingest.SourceSpec {
	specs := make([]ingest.SourceSpec, 0, len(sources))
	for _, src := range sources {
		patterns := files[src.String()]
		if len(patterns) == 0 {
			patterns = []string{DefaultFile(src)}
		}
		resolved := make([]string, 0, len(patterns))
		for _, p := range patterns {
			if !filepath.IsAbs(p) {
				p = filepath.Join(dir, p)
			}
			resolved = append(resolved, p)
		}
		specs = append(specs, ingest.SourceSpec{Source: src, Files: resolved})
	}
	return specs
}

// DefaultFile is the export file name of a source.
func DefaultFile(src models.Source) string {
	return "data_app_posthog_" + src.String() + ".csv"
}

// Build runs the pipeline once. Later calls return the first call's result.
// The only failure is cancellation of ctx during the load.
func (p *Pipeline) Build(ctx context.Context) (*dataset.Table, models.LoadReport, error) {
	p.once.Do(func() {
		p.table, p.report, p.err = p.build(ctx)
		if p.err == nil {
			p.ready.Store(true)
		}
	})
	return p.table, p.report, p.err
}

func (p *Pipeline) build(ctx context.Context) (*dataset.Table, models.LoadReport, error) {
	start := time.Now()
	runID := uuid.New().String()
	ctx = logging.ContextWithCorrelationID(ctx, runID)

	report := models.LoadReport{
		RunID:        runID,
		StartedAt:    start.UTC(),
		Sources:      make([]models.SourceReport, 0, len(p.cfg.Sources)),
		PayloadTiers: make(map[string]int),
	}
	p.log.Info(ctx).Int("sources", len(p.cfg.Sources)).Msg("pipeline build started")

	loads, err := p.loader.LoadAll(ctx, p.cfg.Sources)
	if err != nil {
		return nil, report, fmt.Errorf("load sources: %w", err)
	}

	order := make([]models.Source, 0, len(loads))
	var events []models.Event
	var stats normalize.Stats
	for _, load := range loads {
		normalized, s := p.normalizer.Normalize(ctx, load.Rows)
		events = append(events, normalized...)
		stats.Merge(s)
		order = append(order, load.Source)
		report.Sources = append(report.Sources, load.Report)
	}
	if events == nil {
		events = []models.Event{}
	}

	table := dataset.NewTable(events, order)
	report.RawRows = stats.Input
	report.CanonicalRows = table.Len()
	report.DroppedRows = stats.Dropped
	for tier, n := range stats.ByTier {
		report.PayloadTiers[tier] = n
	}
	report.Duration = time.Since(start)

	metrics.RecordPipelineBuild(table.Len(), report.Duration)
	p.log.Info(ctx).
		Int("raw_rows", report.RawRows).
		Int("canonical_rows", report.CanonicalRows).
		Int("dropped_rows", report.DroppedRows).
		Dur("duration", report.Duration).
		Msg("pipeline build complete")

	return table, report, nil
}

// Ready reports whether a build has completed successfully.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Table returns the canonical table of a completed build.
func (p *Pipeline) Table() (*dataset.Table, error) {
	if !p.ready.Load() {
		return nil, ErrNotBuilt
	}
	return p.table, nil
}

// Report returns the load report of a completed build.
func (p *Pipeline) Report() (models.LoadReport, error) {
	if !p.ready.Load() {
		return models.LoadReport{}, ErrNotBuilt
	}
	return p.report, nil
}

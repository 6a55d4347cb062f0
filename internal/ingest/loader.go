// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package ingest

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/usagelens/internal/fallback"
	"github.com/tomtom215/usagelens/internal/logging"
	"github.com/tomtom215/usagelens/internal/metrics"
	"github.com/tomtom215/usagelens/internal/models"
)

// Defaults applied by NewLoader for zero Config fields.
const (
	defaultMaxRows       = 100_000
	defaultMaxFieldBytes = 1 << 20
	defaultSyntheticRows = 100
)

// Config controls the raw loader.
type Config struct {
	// MaxRows is the row ceiling of the bounded strategy.
	MaxRows int

	// MaxFieldBytes is the largest field (or JSON line) accepted before the
	// lenient strategy declares a runaway quote.
	MaxFieldBytes int

	// SyntheticRows is the size of the placeholder dataset of a failed source.
	SyntheticRows int

	// Concurrency limits parallel source loads. Zero means one goroutine per source.
	Concurrency int

	// Clock supplies the reference time for synthetic rows. Defaults to time.Now.
	Clock func() time.Time
}

// SourceSpec names a source and the files (or glob patterns) it is loaded from.
type SourceSpec struct {
	Source models.Source
	Files  []string
}

// SourceLoad is the outcome of loading one source.
type SourceLoad struct {
	Source models.Source
	Rows   []models.RawEvent
	Report models.SourceReport
}

type strategyChain = fallback.Chain[fileInput, parsed]

// Loader loads sources through the fallback strategy chains.
type Loader struct {
	cfg       Config
	csvChain  *strategyChain
	jsonChain *strategyChain
	lineChain *strategyChain
	log       *logging.StageLogger
}

// NewLoader creates a loader, applying defaults for zero config fields.
func NewLoader(cfg Config) *Loader {
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = defaultMaxRows
	}
	if cfg.MaxFieldBytes <= 0 {
		cfg.MaxFieldBytes = defaultMaxFieldBytes
	}
	if cfg.SyntheticRows <= 0 {
		cfg.SyntheticRows = defaultSyntheticRows
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	l := &Loader{cfg: cfg, log: logging.NewStageLogger("ingest")}
	l.csvChain = fallback.New(
		fallback.Strategy[fileInput, parsed]{Name: StrategyStrict, Run: l.strictCSV},
		fallback.Strategy[fileInput, parsed]{Name: StrategyLenient, Run: l.lenientCSV},
		fallback.Strategy[fileInput, parsed]{Name: StrategyBounded, Run: l.boundedCSV},
	)
	l.jsonChain = fallback.New(
		fallback.Strategy[fileInput, parsed]{Name: StrategyStrict, Run: l.strictJSON},
		fallback.Strategy[fileInput, parsed]{Name: StrategyLenient, Run: l.lenientJSON},
		fallback.Strategy[fileInput, parsed]{Name: StrategyBounded, Run: l.boundedJSON},
	)
	l.lineChain = fallback.New(
		fallback.Strategy[fileInput, parsed]{Name: StrategyLenient, Run: l.lenientJSON},
		fallback.Strategy[fileInput, parsed]{Name: StrategyBounded, Run: l.boundedJSON},
	)
	return l
}

// chainFor selects the strategy chain by file extension.
func (l *Loader) chainFor(path string) *strategyChain {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return l.jsonChain
	case ".jsonl", ".ndjson":
		return l.lineChain
	default:
		return l.csvChain
	}
}

// LoadAll loads every source concurrently. Results are returned in the order
// of specs. The only error is ctx cancellation.
func (l *Loader) LoadAll(ctx context.Context, specs []SourceSpec) ([]SourceLoad, error) {
	out := make([]SourceLoad, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	if l.cfg.Concurrency > 0 {
		g.SetLimit(l.cfg.Concurrency)
	}
	for i, spec := range specs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, report := l.LoadSource(gctx, spec)
			out[i] = SourceLoad{Source: spec.Source, Rows: rows, Report: report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadSource loads every file of one source. Rows of all successfully read
// files are concatenated in file order. When no file yields a result the
// source degrades to synthetic placeholder rows. LoadSource never fails.
func (l *Loader) LoadSource(ctx context.Context, spec SourceSpec) ([]models.RawEvent, models.SourceReport) {
	start := time.Now()
	source := spec.Source.String()
	files := ResolveFiles(spec.Files)
	report := models.SourceReport{Source: spec.Source, Files: files}

	var rows []models.RawEvent
	loaded := false
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}

		chain := l.chainFor(path).WithObserver(func(a fallback.Attempt) {
			metrics.RecordLoadAttempt(source, a.Strategy, a.Err)
			if a.Err != nil {
				l.log.AttemptFailed(ctx, source, path, a.Strategy, a.Err)
			}
		})
		out, err := chain.Run(fileInput{Path: path, Source: spec.Source})

		for _, a := range out.Attempts {
			attempt := models.Attempt{File: path, Strategy: a.Strategy, Duration: a.Duration}
			if a.Err != nil {
				attempt.Error = a.Err.Error()
			} else {
				attempt.Rows = len(out.Value.Rows)
				attempt.Skipped = out.Value.Skipped
				l.log.AttemptSucceeded(ctx, source, path, a.Strategy, attempt.Rows, attempt.Skipped, a.Duration)
			}
			report.Attempts = append(report.Attempts, attempt)
		}
		if err != nil {
			continue
		}

		loaded = true
		rows = append(rows, out.Value.Rows...)
		report.Skipped += out.Value.Skipped
	}

	if !loaded {
		rows = Synthetic(spec.Source, l.cfg.SyntheticRows, l.cfg.Clock())
		report.Synthetic = true
		l.log.SyntheticFallback(ctx, source, len(rows))
	}
	if rows == nil {
		rows = []models.RawEvent{}
	}

	report.Rows = len(rows)
	metrics.RecordSourceLoaded(source, report.Rows, report.Skipped, report.Synthetic, time.Since(start))
	l.log.SourceLoaded(ctx, source, report.Rows, len(files), report.Synthetic)
	return rows, report
}

// ResolveFiles expands glob patterns. A pattern without matches is kept
// verbatim so the failed open is recorded as an attempt.
func ResolveFiles(patterns []string) []string {
	var files []string
	for _, p := range patterns {
		if !strings.ContainsAny(p, "*?[") {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil || len(matches) == 0 {
			files = append(files, p)
			continue
		}
		files = append(files, matches...)
	}
	return files
}

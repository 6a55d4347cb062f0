// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/models"
)

type fakeBuilder struct {
	err      error
	calls    atomic.Int32
	deadline atomic.Bool
}

func (f *fakeBuilder) Build(ctx context.Context) (*dataset.Table, models.LoadReport, error) {
	f.calls.Add(1)
	_, ok := ctx.Deadline()
	f.deadline.Store(ok)
	if f.err != nil {
		return nil, models.LoadReport{}, f.err
	}
	return dataset.NewTable(nil, nil), models.LoadReport{RunID: "run"}, nil
}

var _ suture.Service = (*BuildService)(nil)

func TestBuildServiceServe(t *testing.T) {
	buildErr := errors.New("load sources: boom")

	tests := []struct {
		name         string
		err          error
		timeout      time.Duration
		wantDeadline bool
	}{
		{"success without deadline", nil, 0, false},
		{"success with deadline", nil, time.Minute, true},
		{"failure", buildErr, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBuilder{err: tt.err}
			err := NewBuildService(b, tt.timeout).Serve(context.Background())

			if !errors.Is(err, suture.ErrDoNotRestart) {
				t.Errorf("Serve() = %v, want ErrDoNotRestart", err)
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Errorf("Serve() = %v, want wrapped %v", err, tt.err)
			}
			if b.deadline.Load() != tt.wantDeadline {
				t.Errorf("deadline set = %v, want %v", b.deadline.Load(), tt.wantDeadline)
			}
		})
	}
}

func TestBuildServiceRunsOnceUnderSupervisor(t *testing.T) {
	b := &fakeBuilder{}
	sup := suture.New("test-sup", suture.Spec{
		FailureBackoff: 10 * time.Millisecond,
		Timeout:        time.Second,
	})
	sup.Add(NewBuildService(b, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	<-sup.ServeBackground(ctx)

	if got := b.calls.Load(); got != 1 {
		t.Errorf("Build calls = %d, want 1", got)
	}
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

// Package fallback implements an ordered "first success wins" strategy chain.
//
// Both the raw loader (strict, lenient, bounded parsing) and the payload
// extractor (JSON, un-escaped JSON, regex) are chains of increasingly tolerant
// strategies. A Chain runs its strategies in order, records every attempt,
// and returns the first successful result. A strategy that panics is treated
// as a failed attempt.
//
//	chain := fallback.New(
//	    fallback.Strategy[string, int]{Name: "atoi", Run: strconv.Atoi},
//	    fallback.Strategy[string, int]{Name: "zero", Run: func(string) (int, error) { return 0, nil }},
//	)
//	out, err := chain.Run("42")
package fallback

import (
	"errors"
	"fmt"
	"time"
)

// ErrExhausted is returned (wrapped) when every strategy of a chain failed.
var ErrExhausted = errors.New("all strategies failed")

// Strategy is one named step of a Chain.
type Strategy[In, Out any] struct {
	Name string
	Run  func(In) (Out, error)
}

// Attempt records the outcome of one strategy invocation.
type Attempt struct {
	Strategy string
	Err      error
	Duration time.Duration
}

// Outcome is the result of a chain run.
type Outcome[Out any] struct {
	Value    Out
	Strategy string
	Attempts []Attempt
}

// Chain is an ordered list of strategies. A Chain is immutable after New and
// safe for concurrent use when its strategies are.
type Chain[In, Out any] struct {
	strategies []Strategy[In, Out]
	observer   func(Attempt)
}

// New creates a chain that tries the strategies in the given order.
func New[In, Out any](strategies ...Strategy[In, Out]) *Chain[In, Out] {
	return &Chain[In, Out]{strategies: strategies}
}

// WithObserver returns a copy of the chain that reports every attempt to fn.
func (c *Chain[In, Out]) WithObserver(fn func(Attempt)) *Chain[In, Out] {
	return &Chain[In, Out]{strategies: c.strategies, observer: fn}
}

// Names returns the strategy names in execution order.
func (c *Chain[In, Out]) Names() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name
	}
	return names
}

// Run tries each strategy in order and returns the first success. When all
// strategies fail the error wraps ErrExhausted and every attempt's error.
// The returned Outcome always carries the attempts made.
func (c *Chain[In, Out]) Run(in In) (Outcome[Out], error) {
	var out Outcome[Out]
	errs := make([]error, 0, len(c.strategies))

	for _, s := range c.strategies {
		start := time.Now()
		value, err := runSafe(s, in)
		attempt := Attempt{Strategy: s.Name, Err: err, Duration: time.Since(start)}
		out.Attempts = append(out.Attempts, attempt)
		if c.observer != nil {
			c.observer(attempt)
		}
		if err == nil {
			out.Value = value
			out.Strategy = s.Name
			return out, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
	}

	return out, fmt.Errorf("%w: %w", ErrExhausted, errors.Join(errs...))
}

func runSafe[In, Out any](s Strategy[In, Out], in In) (out Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy panicked: %v", r)
		}
	}()
	return s.Run(in)
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"errors"
	"fmt"

	"github.com/tomtom215/usagelens/internal/validation"
)

// ErrInvalidThresholds is returned by New for a malformed rule table.
var ErrInvalidThresholds = errors.New("invalid analytics thresholds")

// MaturityThresholds parameterizes the actor maturity decision list. Actors
// averaging less than NewMaxDuration, or using at most NewMaxTabs tabs and no
// widget, are New/Struggling. Beginners use 1 to BeginnerMaxTabs tabs and
// Intermediates up to IntermediateMaxTabs.
type MaturityThresholds struct {
	NewMaxDuration          float64 `koanf:"new_max_duration" validate:"gt=0"`
	NewMaxTabs              int     `koanf:"new_max_tabs" validate:"gte=0"`
	BeginnerMaxDuration     float64 `koanf:"beginner_max_duration" validate:"gtfield=NewMaxDuration"`
	BeginnerMaxTabs         int     `koanf:"beginner_max_tabs" validate:"gte=1"`
	IntermediateMaxDuration float64 `koanf:"intermediate_max_duration" validate:"gtfield=BeginnerMaxDuration"`
	IntermediateMaxTabs     int     `koanf:"intermediate_max_tabs" validate:"gtfield=BeginnerMaxTabs"`
	PowerMinSessions        int     `koanf:"power_min_sessions" validate:"gte=0"`
	PowerMinWidgets         int     `koanf:"power_min_widgets" validate:"gte=0"`
}

// QualityThresholds parameterizes the session quality decision list.
type QualityThresholds struct {
	LowMaxDuration    float64 `koanf:"low_max_duration" validate:"gt=0"`
	MediumMinDuration float64 `koanf:"medium_min_duration" validate:"gtefield=LowMaxDuration"`
	HighMinDuration   float64 `koanf:"high_min_duration" validate:"gtfield=MediumMinDuration"`
}

// Thresholds holds every configurable constant of the engine.
type Thresholds struct {
	// BounceSeconds: a session shorter than this (strictly) bounced.
	BounceSeconds float64 `koanf:"bounce_seconds" validate:"gt=0"`

	Maturity MaturityThresholds `koanf:"maturity"`
	Quality  QualityThresholds  `koanf:"quality"`

	// RegularMaxSessions is the upper bound of the Regular segment; actors
	// above it are Power Users.
	RegularMaxSessions int `koanf:"regular_max_sessions" validate:"gte=2"`

	// LearningMaxSessions caps the session numbers of the learning curve.
	LearningMaxSessions int `koanf:"learning_max_sessions" validate:"min=1,max=365"`
}

// DefaultThresholds returns the stock rule table.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BounceSeconds: 30,
		Maturity: MaturityThresholds{
			NewMaxDuration:          30,
			NewMaxTabs:              1,
			BeginnerMaxDuration:     120,
			BeginnerMaxTabs:         2,
			IntermediateMaxDuration: 300,
			IntermediateMaxTabs:     5,
			PowerMinSessions:        5,
			PowerMinWidgets:         10,
		},
		Quality: QualityThresholds{
			LowMaxDuration:    30,
			MediumMinDuration: 60,
			HighMinDuration:   180,
		},
		RegularMaxSessions:  5,
		LearningMaxSessions: 10,
	}
}

// Validate checks the thresholds for inverted or non-positive ranges.
func (t *Thresholds) Validate() error {
	if verr := validation.ValidateStruct(t); verr != nil {
		return fmt.Errorf("%w: %s", ErrInvalidThresholds, verr.Error())
	}
	return nil
}

// Engine computes aggregates over filtered subsets. It is immutable and safe
// for concurrent use.
type Engine struct {
	th       Thresholds
	maturity []rule[actorStats]
	quality  []rule[unitStats]
}

// New validates th and builds an engine.
func New(th Thresholds) (*Engine, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		th:       th,
		maturity: maturityRules(th.Maturity),
		quality:  qualityRules(th.Quality),
	}, nil
}

// Thresholds returns the engine's configuration.
func (e *Engine) Thresholds() Thresholds {
	return e.th
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/models"
)

// Overview describes the filtered subset.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, _ query, events []models.Event) (any, error) {
		return h.engine.Overview(events), nil
	})(w, r)
}

// KPIs returns the headline metrics of the filtered subset.
func (h *Handler) KPIs(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, _ query, events []models.Event) (any, error) {
		return h.engine.KPIs(events), nil
	})(w, r)
}

// ActorMaturity returns per-actor maturity tiers and their distribution.
func (h *Handler) ActorMaturity(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, _ query, events []models.Event) (any, error) {
		return h.engine.ActorMaturity(events), nil
	})(w, r)
}

// SessionQuality returns per-session quality tiers and their distribution.
func (h *Handler) SessionQuality(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, _ query, events []models.Event) (any, error) {
		return h.engine.SessionQuality(events), nil
	})(w, r)
}

// SessionSegments returns the new, regular and power segments per source.
func (h *Handler) SessionSegments(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, _ query, events []models.Event) (any, error) {
		return h.engine.SessionSegments(events), nil
	})(w, r)
}

// Flows returns the most frequent navigation transitions.
func (h *Handler) Flows(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, q query, events []models.Event) (any, error) {
		return h.engine.TopFlows(h.engine.Transitions(events, q.nav), q.limit), nil
	})(w, r)
}

// FlowGraph returns the navigation graph of the strongest links.
func (h *Handler) FlowGraph(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, q query, events []models.Event) (any, error) {
		return h.engine.FlowGraph(h.engine.Transitions(events, q.nav), q.limit), nil
	})(w, r)
}

// Paths returns per-actor paths, common patterns and the length
// distribution.
func (h *Handler) Paths(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, q query, events []models.Event) (any, error) {
		return h.engine.Paths(events, q.nav, q.limit), nil
	})(w, r)
}

// PageExits returns visit and exit counts per page.
func (h *Handler) PageExits(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, q query, events []models.Event) (any, error) {
		return h.engine.PageExits(events, q.nav, q.limit), nil
	})(w, r)
}

// DropOff returns single-step sessions and entry and exit states.
func (h *Handler) DropOff(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, _ query, events []models.Event) (any, error) {
		return h.engine.DropOff(events), nil
	})(w, r)
}

// Journeys returns per-session journeys, limited to limit rows.
func (h *Handler) Journeys(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, q query, events []models.Event) (any, error) {
		return h.engine.SessionJourneys(events, q.limit), nil
	})(w, r)
}

// LearningCurve returns mean behaviour per session number.
func (h *Handler) LearningCurve(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(r *http.Request, _ query, events []models.Event) (any, error) {
		maxSessions, err := intParam(r.URL.Query(), paramSessions, 0)
		if err != nil {
			return nil, err
		}
		if maxSessions < 0 {
			return nil, fieldInvalid(paramSessions, "max_sessions must be at least 0")
		}
		return h.engine.LearningCurve(events, maxSessions), nil
	})(w, r)
}

// SourceSummaries returns the per-source overview and usability rows.
func (h *Handler) SourceSummaries(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, _ query, events []models.Event) (any, error) {
		return h.engine.SourceSummaries(events), nil
	})(w, r)
}

// DailyActiveUsers returns distinct actors per date and source.
func (h *Handler) DailyActiveUsers(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, _ query, events []models.Event) (any, error) {
		return h.engine.DailyActiveUsers(events), nil
	})(w, r)
}

// HourlyUsage returns distinct actors per hour of day and source.
func (h *Handler) HourlyUsage(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, _ query, events []models.Event) (any, error) {
		return h.engine.HourlyUsage(events), nil
	})(w, r)
}

// DurationDistribution returns the row duration histogram.
func (h *Handler) DurationDistribution(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, _ query, events []models.Event) (any, error) {
		return h.engine.DurationDistribution(events), nil
	})(w, r)
}

// ScreenPopularity ranks screens per source, limited to limit rows.
func (h *Handler) ScreenPopularity(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, q query, events []models.Event) (any, error) {
		return h.engine.ScreenPopularity(events, q.limit), nil
	})(w, r)
}

// Breakdown aggregates the {dimension} path parameter per value and source.
func (h *Handler) Breakdown(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(r *http.Request, _ query, events []models.Event) (any, error) {
		dim, err := dimensionParam(r)
		if err != nil {
			return nil, err
		}
		return h.engine.Breakdown(events, dim), nil
	})(w, r)
}

// TopValues ranks the values of the {dimension} path parameter.
func (h *Handler) TopValues(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(r *http.Request, q query, events []models.Event) (any, error) {
		dim, err := dimensionParam(r)
		if err != nil {
			return nil, err
		}
		return h.engine.TopValues(events, dim, q.limit), nil
	})(w, r)
}

// Locations returns the coordinate groups of the filtered subset.
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	h.analytics(func(_ *http.Request, _ query, events []models.Event) (any, error) {
		return h.engine.Locations(events), nil
	})(w, r)
}

func dimensionParam(r *http.Request) (dataset.Dimension, error) {
	dim, err := dataset.ParseDimension(chi.URLParam(r, "dimension"))
	if err != nil {
		return "", notFound("%v", err)
	}
	return dim, nil
}

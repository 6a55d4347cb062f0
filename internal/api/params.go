// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/usagelens/internal/analytics"
	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/models"
	"github.com/tomtom215/usagelens/internal/validation"
)

// Query parameter names.
const (
	paramSources    = "sources"
	paramStart      = "start"
	paramEnd        = "end"
	paramDevice     = "device"
	paramCountry    = "country"
	paramEventType  = "event_type"
	paramQuery      = "q"
	paramNav        = "nav"
	paramMinJourney = "min_journey"
	paramActiveOnly = "active_only"
	paramLimit      = "limit"
	paramPage       = "page"
	paramPageSize   = "page_size"
	paramActor      = "actor"
	paramPageName   = "page_name"
	paramWidget     = "widget"
	paramMinDur     = "min_duration"
	paramMaxDur     = "max_duration"
	paramInteract   = "interactive"
	paramSessions   = "max_sessions"
)

// maxTextParam bounds free-text parameters.
const maxTextParam = 256

// QueryRequest holds the validated filter, navigation and limit parameters
// shared by the analytics endpoints.
type QueryRequest struct {
	Start      string `validate:"omitempty,dateonly"`
	End        string `validate:"omitempty,dateonly"`
	Device     string `validate:"max=256"`
	Country    string `validate:"max=256"`
	EventType  string `validate:"max=256"`
	Query      string `validate:"max=256"`
	Nav        string `validate:"omitempty,oneof=page route"`
	MinJourney int    `validate:"min=0"`
	ActiveOnly bool
	Limit      int `validate:"min=1,ltefield=MaxLimit"`
	MaxLimit   int
}

// PageRequest holds the validated pagination parameters of /events.
type PageRequest struct {
	Page        int `validate:"min=1,max=1000000"`
	PageSize    int `validate:"min=1,ltefield=MaxPageSize"`
	MaxPageSize int
}

// query is a parsed analytics request.
type query struct {
	filter dataset.Filter
	nav    analytics.NavOptions
	limit  int
}

// parseQuery reads and validates the shared parameters. tbl resolves the
// source list: an absent sources parameter selects every table source.
func (h *Handler) parseQuery(values url.Values, tbl *dataset.Table) (query, error) {
	var q query

	sources, err := parseSources(values, tbl.Sources())
	if err != nil {
		return q, err
	}

	req := QueryRequest{
		Start:     values.Get(paramStart),
		End:       values.Get(paramEnd),
		Device:    values.Get(paramDevice),
		Country:   values.Get(paramCountry),
		EventType: values.Get(paramEventType),
		Query:     values.Get(paramQuery),
		Nav:       values.Get(paramNav),
		MaxLimit:  h.cfg.MaxLimit,
	}
	if req.MinJourney, err = intParam(values, paramMinJourney, 0); err != nil {
		return q, err
	}
	if req.ActiveOnly, err = boolParam(values, paramActiveOnly); err != nil {
		return q, err
	}
	if req.Limit, err = intParam(values, paramLimit, h.cfg.DefaultLimit); err != nil {
		return q, err
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		return q, validationFailed(ve)
	}

	start, end, err := dateRange(req.Start, req.End)
	if err != nil {
		return q, err
	}

	mode, err := analytics.ParseNavMode(req.Nav)
	if err != nil {
		return q, badRequest("%v", err)
	}

	q.filter = dataset.Filter{
		Sources:    sources,
		Start:      start,
		End:        end,
		DeviceType: req.Device,
		Country:    req.Country,
		EventType:  req.EventType,
		TextQuery:  strings.TrimSpace(req.Query),
	}
	q.nav = analytics.NavOptions{
		Mode:             mode,
		MinJourneyLength: req.MinJourney,
		ActiveOnly:       req.ActiveOnly,
	}
	q.limit = req.Limit
	return q, nil
}

// parseSources resolves the sources parameter against the known sources,
// case-insensitively. Names may be repeated or comma separated.
func parseSources(values url.Values, known []models.Source) ([]models.Source, error) {
	raw, present := values[paramSources]
	if !present {
		return known, nil
	}

	out := []models.Source{}
	seen := make(map[models.Source]bool)
	for _, v := range raw {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			src, ok := matchSource(name, known)
			if !ok {
				return nil, fieldInvalid(paramSources, "unknown source: "+name)
			}
			if !seen[src] {
				seen[src] = true
				out = append(out, src)
			}
		}
	}
	return out, nil
}

func matchSource(name string, known []models.Source) (models.Source, bool) {
	for _, src := range known {
		if strings.EqualFold(name, string(src)) {
			return src, true
		}
	}
	return "", false
}

// dateRange parses validated YYYY-MM-DD bounds and checks their order.
func dateRange(startStr, endStr string) (start, end time.Time, err error) {
	if startStr != "" {
		start, _ = time.Parse(validation.DateLayout, startStr)
	}
	if endStr != "" {
		end, _ = time.Parse(validation.DateLayout, endStr)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return time.Time{}, time.Time{}, fieldInvalid(paramEnd, "end must be on or after start")
	}
	return start, end, nil
}

// parsePage reads the pagination parameters of /events.
func (h *Handler) parsePage(values url.Values) (PageRequest, error) {
	req := PageRequest{MaxPageSize: h.cfg.MaxPageSize}
	var err error
	if req.Page, err = intParam(values, paramPage, 1); err != nil {
		return req, err
	}
	if req.PageSize, err = intParam(values, paramPageSize, h.cfg.DefaultPageSize); err != nil {
		return req, err
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		return req, validationFailed(ve)
	}
	return req, nil
}

// parseRefinement reads the row-level search refinements of /events.
func parseRefinement(values url.Values) (dataset.Refinement, error) {
	r := dataset.Refinement{
		Actor:  values.Get(paramActor),
		Page:   values.Get(paramPageName),
		Widget: values.Get(paramWidget),
	}
	for _, text := range []string{r.Actor, r.Page, r.Widget} {
		if len(text) > maxTextParam {
			return r, badRequest("search parameters are limited to %d bytes", maxTextParam)
		}
	}

	var err error
	if r.MinDuration, err = floatParam(values, paramMinDur); err != nil {
		return r, err
	}
	if r.MaxDuration, err = floatParam(values, paramMaxDur); err != nil {
		return r, err
	}
	if r.MinDuration != nil && r.MaxDuration != nil && *r.MaxDuration < *r.MinDuration {
		return r, fieldInvalid(paramMaxDur, "max_duration must be greater than or equal to min_duration")
	}
	if r.InteractiveOnly, err = boolParam(values, paramInteract); err != nil {
		return r, err
	}
	return r, nil
}

func intParam(values url.Values, name string, def int) (int, error) {
	s := values.Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, badRequest("%s must be an integer", name)
	}
	return n, nil
}

func boolParam(values url.Values, name string) (bool, error) {
	s := values.Get(name)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, badRequest("%s must be a boolean", name)
	}
	return b, nil
}

func floatParam(values url.Values, name string) (*float64, error) {
	s := values.Get(name)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, badRequest("%s must be a number", name)
	}
	return &f, nil
}

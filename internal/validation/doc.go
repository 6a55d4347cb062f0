// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps a thread-safe singleton validator with the custom rules this
// service needs and translates failures into readable messages and the API
// error envelope.
//
// # Custom Tags
//
//   - dateonly: a YYYY-MM-DD calendar date string
//
// # Usage
//
//	type FilterRequest struct {
//	    Start string `validate:"omitempty,dateonly"`
//	    Limit int    `validate:"min=1,max=1000"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// Cross-field rules (gtfield, gtefield, ltefield) are used by the analytics
// thresholds and the configuration to reject inverted ranges.
package validation

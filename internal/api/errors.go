// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/usagelens/internal/validation"
)

// requestError is a client error carrying its response status and code.
type requestError struct {
	status  int
	code    string
	message string
	details any
}

func (e *requestError) Error() string { return e.message }

func asRequestError(err error) (*requestError, bool) {
	var re *requestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

func badRequest(format string, args ...any) error {
	return &requestError{
		status:  http.StatusBadRequest,
		code:    ErrCodeBadRequest,
		message: fmt.Sprintf(format, args...),
	}
}

func notFound(format string, args ...any) error {
	return &requestError{
		status:  http.StatusNotFound,
		code:    ErrCodeNotFound,
		message: fmt.Sprintf(format, args...),
	}
}

func validationFailed(ve *validation.RequestValidationError) error {
	apiErr := ve.ToAPIError()
	return &requestError{
		status:  http.StatusBadRequest,
		code:    ErrCodeValidationFailed,
		message: apiErr.Message,
		details: apiErr.Details,
	}
}

// fieldInvalid reports a single semantic field failure in the same shape as
// validator failures.
func fieldInvalid(field, message string) error {
	return &requestError{
		status:  http.StatusBadRequest,
		code:    ErrCodeValidationFailed,
		message: message,
		details: map[string]any{"field": field},
	}
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/usagelens/internal/validation"
)

func TestResponseWriterErrors(t *testing.T) {
	tests := []struct {
		name       string
		write      func(rw *ResponseWriter)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(rw *ResponseWriter) { rw.BadRequest("nope") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"not found", func(rw *ResponseWriter) { rw.NotFound("missing") }, http.StatusNotFound, ErrCodeNotFound},
		{"unavailable", func(rw *ResponseWriter) { rw.ServiceUnavailable("later") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
		{"validation", func(rw *ResponseWriter) { rw.ValidationError("bad field", map[string]any{"field": "x"}) }, http.StatusBadRequest, ErrCodeValidationFailed},
		{"internal", func(rw *ResponseWriter) { rw.InternalError(errors.New("boom")) }, http.StatusInternalServerError, ErrCodeInternalError},
		{"fail with request error", func(rw *ResponseWriter) { rw.Fail(fmt.Errorf("wrapped: %w", notFound("gone"))) }, http.StatusNotFound, ErrCodeNotFound},
		{"fail with plain error", func(rw *ResponseWriter) { rw.Fail(errors.New("boom")) }, http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(NewResponseWriter(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Errorf("Content-Type = %q", ct)
			}
			var resp APIResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("response = %+v, want error code %s", resp, tt.wantCode)
			}
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponseWriter(rec, httptest.NewRequest(http.MethodGet, "/", nil)).InternalError(errors.New("secret detail"))

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Message == "secret detail" {
		t.Error("internal error message leaked to the client")
	}
}

func TestValidationFailedCarriesDetails(t *testing.T) {
	ve := validation.ValidateStruct(&PageRequest{Page: 0, PageSize: 1, MaxPageSize: 1})
	if ve == nil {
		t.Fatal("ValidateStruct() = nil, want failure")
	}
	re, ok := asRequestError(validationFailed(ve))
	if !ok {
		t.Fatal("validationFailed() is not a request error")
	}
	if re.code != ErrCodeValidationFailed || re.status != http.StatusBadRequest {
		t.Errorf("requestError = %+v", re)
	}
	details, ok := re.details.(map[string]any)
	if !ok || details["field"] != "Page" {
		t.Errorf("details = %#v, want field Page", re.details)
	}
}

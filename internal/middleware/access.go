// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/usagelens/internal/logging"
)

// AccessLog writes one structured log line per request. Requests slower than
// slow are logged at warn level; slow <= 0 disables the promotion.
func AccessLog(slow time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := newStatusWriter(w)

			next.ServeHTTP(wrapper, r)

			took := time.Since(start)
			log := logging.Ctx(r.Context())
			event := log.Debug()
			msg := "Request completed"
			if slow > 0 && took > slow {
				event = log.Warn().Dur("threshold", slow)
				msg = "Slow request detected"
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", RoutePattern(r)).
				Int("status", wrapper.statusCode).
				Int("bytes", wrapper.bytes).
				Dur("duration", took).
				Msg(msg)
		})
	}
}

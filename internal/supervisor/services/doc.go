// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package services provides suture.Service wrappers for usagelens components.

Each wrapper translates a component lifecycle into suture's context-aware
Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve

Pipeline Build (BuildService):
  - Runs the one-shot pipeline build under an optional timeout
  - Returns suture.ErrDoNotRestart once finished, so the build is never
    repeated; a failed build leaves the API reporting not-ready
*/
package services

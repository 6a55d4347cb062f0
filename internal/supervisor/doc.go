// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package supervisor runs the long-lived parts of usagelens under a suture v4
supervisor tree.

Tree layout:

	usagelens (root)
	├── data-layer
	│   ├── pipeline-build   (one shot; removed after it completes)
	│   └── analytics-cache  (expired entry janitor)
	└── api-layer
	    └── http-server

Supervisor events (service panics, restarts, backoff) are logged through
sutureslog using the zerolog-backed slog handler from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewBuildService(pipe, cfg.Loader.BuildTimeout))
	tree.AddDataService(responseCache)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	err = tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor

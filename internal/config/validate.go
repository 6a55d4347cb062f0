// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/usagelens/internal/validation"
)

// Validate checks the configuration. It reports every failing struct tag at
// once, then the source list.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	return c.validateSources()
}

func (c *Config) validateSources() error {
	seen := make(map[string]bool, len(c.Data.Sources))
	for _, s := range c.Data.Sources {
		if strings.TrimSpace(s) != s {
			return fmt.Errorf("source %q has surrounding whitespace", s)
		}
		if seen[s] {
			return fmt.Errorf("source %q is listed twice", s)
		}
		seen[s] = true
	}
	for name := range c.Data.Files {
		if !seen[name] {
			return fmt.Errorf("files configured for unknown source %q", name)
		}
	}
	return nil
}

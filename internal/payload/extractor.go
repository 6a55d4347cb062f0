// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package payload

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/usagelens/internal/fallback"
	"github.com/tomtom215/usagelens/internal/models"
)

// ErrNotObject is returned by the JSON tiers when the text decodes to
// something other than an object.
var ErrNotObject = errors.New("payload is not a JSON object")

// Result is the outcome of extracting one payload.
type Result struct {
	Attributes models.Attributes
	Tier       string
}

// Extractor runs the tiered extraction chain. An Extractor is immutable and
// safe for concurrent use.
type Extractor struct {
	chain *fallback.Chain[string, models.Attributes]
}

// NewExtractor creates an extractor with the standard tiers.
func NewExtractor() *Extractor {
	return &Extractor{
		chain: fallback.New(
			fallback.Strategy[string, models.Attributes]{Name: models.TierJSON, Run: decodeObject},
			fallback.Strategy[string, models.Attributes]{Name: models.TierUnescapedJSON, Run: decodeUnescaped},
			fallback.Strategy[string, models.Attributes]{Name: models.TierRegex, Run: matchFields},
		),
	}
}

// Extract parses text into attributes. It never returns nil attributes.
func (x *Extractor) Extract(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Attributes: models.Attributes{}, Tier: models.TierEmpty}
		}
	}()

	if strings.TrimSpace(text) == "" {
		return Result{Attributes: models.Attributes{}, Tier: models.TierEmpty}
	}

	out, err := x.chain.Run(text)
	if err != nil || out.Value == nil {
		return Result{Attributes: models.Attributes{}, Tier: models.TierEmpty}
	}
	if out.Strategy == models.TierRegex && len(out.Value) == 0 {
		return Result{Attributes: out.Value, Tier: models.TierEmpty}
	}
	return Result{Attributes: out.Value, Tier: out.Strategy}
}

// Extract parses text with a default extractor.
func Extract(text string) models.Attributes {
	return defaultExtractor.Extract(text).Attributes
}

var defaultExtractor = NewExtractor()

func decodeObject(text string) (models.Attributes, error) {
	var attrs map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &attrs); err != nil {
		return nil, err
	}
	if attrs == nil {
		return nil, ErrNotObject
	}
	return models.Attributes(attrs), nil
}

func decodeUnescaped(text string) (models.Attributes, error) {
	return decodeObject(unescape(text))
}

// unescape undoes the two escaping styles seen in exports: backslash-escaped
// quotes and CSV-doubled quotes. A payload left wrapped in one pair of outer
// quotes is unwrapped.
func unescape(text string) string {
	s := strings.ReplaceAll(text, `\"`, `"`)
	s = strings.ReplaceAll(s, `""`, `"`)
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"{`) && strings.HasSuffix(s, `}"`) {
		s = s[1 : len(s)-1]
	}
	return s
}

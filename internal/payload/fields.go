// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package payload

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tomtom215/usagelens/internal/models"
)

// Payload keys, verbatim as they appear in the exports.
const (
	KeyWidget     = "Widget_Name"
	KeyPage       = "Page_Name"
	KeyDuration   = "Duration"
	KeyTab        = "Tab_Name"
	KeyRoute      = "Route"
	KeyPrevRoute  = "Prev_Route"
	KeyCheckIn    = "CheckIn"
	KeyCheckOut   = "CheckOut"
	KeyConnection = "Connection"
	KeyDeviceType = "$device_type"
	KeyOS         = "$os"
	KeyCountry    = "$geoip_country_name"
	KeyCity       = "$geoip_city_name"
	KeyLatitude   = "$geoip_latitude"
	KeyLongitude  = "$geoip_longitude"
	KeySessionID  = "$session_id"
	KeyScreen     = "$screen_name"
	KeyWiFi       = "$network_wifi"
	KeyAppVersion = "$app_version"
	KeyAppBuild   = "$app_build"
	KeySet        = "$set"
)

type valueKind int

const (
	kindString valueKind = iota
	kindNumber
	kindBool
)

type fieldPattern struct {
	key  string
	kind valueKind
	re   *regexp.Regexp
}

// fieldTable is the regex tier's fixed field list.
var fieldTable = []fieldPattern{
	newFieldPattern(KeyWidget, kindString),
	newFieldPattern(KeyPage, kindString),
	newFieldPattern(KeyDuration, kindNumber),
	newFieldPattern(KeyDeviceType, kindString),
	newFieldPattern(KeyOS, kindString),
	newFieldPattern(KeyCountry, kindString),
	newFieldPattern(KeySessionID, kindString),
	newFieldPattern(KeyScreen, kindString),
	newFieldPattern(KeyConnection, kindBool),
	newFieldPattern(KeyWiFi, kindBool),
	newFieldPattern(KeyTab, kindString),
	newFieldPattern(KeyRoute, kindString),
	newFieldPattern(KeyPrevRoute, kindString),
	newFieldPattern(KeyCheckIn, kindString),
	newFieldPattern(KeyCheckOut, kindString),
	newFieldPattern(KeyAppVersion, kindString),
	newFieldPattern(KeyAppBuild, kindString),
	newFieldPattern(KeyCity, kindString),
	newFieldPattern(KeyLatitude, kindNumber),
	newFieldPattern(KeyLongitude, kindNumber),
}

// newFieldPattern builds the pattern for one key. The key must not be preceded
// by an identifier character, so "Route" never matches inside "Prev_Route".
// Quotes around the key are optional and a string value may be unterminated.
func newFieldPattern(key string, kind valueKind) fieldPattern {
	prefix := `(?:^|[^A-Za-z0-9_$])"?` + regexp.QuoteMeta(key) + `"?\s*:\s*`
	var value string
	switch kind {
	case kindNumber:
		value = `"?(-?\d+(?:\.\d+)?)`
	case kindBool:
		value = `"?((?i:true|false))`
	default:
		value = `"([^"]*)("?)`
	}
	return fieldPattern{key: key, kind: kind, re: regexp.MustCompile(prefix + value)}
}

// matchFields is the regex tier. Patterns run against the raw text; the
// unescaped text is consulted only for fields the raw text did not yield, so
// an empty value ("") is never collapsed into its neighbour. It never fails; a
// payload with no recognizable field yields an empty map.
func matchFields(text string) (models.Attributes, error) {
	attrs := models.Attributes{}
	unescaped := unescape(text)
	for _, f := range fieldTable {
		if v, ok := f.match(text); ok {
			attrs[f.key] = v
			continue
		}
		if unescaped == text {
			continue
		}
		if v, ok := f.match(unescaped); ok {
			attrs[f.key] = v
		}
	}
	return attrs, nil
}

func (f fieldPattern) match(s string) (any, bool) {
	m := f.re.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}
	switch f.kind {
	case kindNumber:
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, false
		}
		return v, true
	case kindBool:
		return strings.EqualFold(m[1], "true"), true
	default:
		v := m[1]
		if m[2] == "" {
			v = strings.TrimRight(v, " \t\r\n,}")
		}
		return v, true
	}
}

// GeoLookup reads a geographic key, preferring the nested "$set" object and
// falling back to the top level when "$set" lacks the key.
func GeoLookup(attrs models.Attributes, key string) (any, bool) {
	if set, ok := attrs[KeySet].(map[string]any); ok {
		if v, ok := set[key]; ok && v != nil {
			return v, true
		}
	}
	v, ok := attrs[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

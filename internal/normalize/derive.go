// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/usagelens/internal/models"
	"github.com/tomtom215/usagelens/internal/payload"
)

// Unknown is the default for device type, operating system and country.
const Unknown = "Unknown"

// Indonesia is the country name matched by the InIndonesia flag, together
// with its bounding box.
const (
	Indonesia       = "Indonesia"
	indonesiaMinLat = -11.0
	indonesiaMaxLat = 6.0
	indonesiaMinLon = 95.0
	indonesiaMaxLon = 141.0
)

// Derive computes the typed fields of an event from its attributes. Every
// field is a total function of attrs with a fixed default.
func Derive(attrs models.Attributes) models.Fields {
	f := models.Fields{
		Duration:   Duration(attrs),
		Page:       String(attrs, payload.KeyPage, ""),
		Widget:     String(attrs, payload.KeyWidget, ""),
		Screen:     String(attrs, payload.KeyScreen, ""),
		Tab:        String(attrs, payload.KeyTab, ""),
		Route:      String(attrs, payload.KeyRoute, ""),
		PrevRoute:  String(attrs, payload.KeyPrevRoute, ""),
		DeviceType: String(attrs, payload.KeyDeviceType, Unknown),
		OS:         String(attrs, payload.KeyOS, Unknown),
		Country:    String(attrs, payload.KeyCountry, Unknown),
		SessionID:  String(attrs, payload.KeySessionID, ""),
		Connection: Bool(attrs, payload.KeyConnection),
		WiFi:       Bool(attrs, payload.KeyWiFi),
		AppVersion: String(attrs, payload.KeyAppVersion, ""),
		AppBuild:   String(attrs, payload.KeyAppBuild, ""),
		CheckIn:    Time(attrs, payload.KeyCheckIn),
		CheckOut:   Time(attrs, payload.KeyCheckOut),

		HasCheckIn:  String(attrs, payload.KeyCheckIn, "") != "",
		HasCheckOut: String(attrs, payload.KeyCheckOut, "") != "",
	}

	if v, ok := payload.GeoLookup(attrs, payload.KeyLatitude); ok {
		f.Latitude = toFloatPtr(v)
	}
	if v, ok := payload.GeoLookup(attrs, payload.KeyLongitude); ok {
		f.Longitude = toFloatPtr(v)
	}
	if v, ok := payload.GeoLookup(attrs, payload.KeyCity); ok {
		if s, ok := toString(v); ok {
			f.City = s
		}
	}

	f.Location = Location(f.City, f.Country)
	f.InIndonesia = InIndonesia(f.Country, f.Latitude, f.Longitude)
	return f
}

// Duration returns the non-negative duration in seconds, or 0.
func Duration(attrs models.Attributes) float64 {
	v, ok := toFloat(attrs[payload.KeyDuration])
	if !ok || v < 0 {
		return 0
	}
	return v
}

// String returns the attribute as a string. Missing, empty and non-scalar
// values yield def. Numbers and booleans are formatted.
func String(attrs models.Attributes, key, def string) string {
	s, ok := toString(attrs[key])
	if !ok || s == "" {
		return def
	}
	return s
}

// Bool returns the attribute as a boolean, or nil when absent or not boolean.
func Bool(attrs models.Attributes, key string) *bool {
	switch v := attrs[key].(type) {
	case bool:
		return &v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		return &b
	case float64:
		b := v != 0
		return &b
	default:
		return nil
	}
}

// Time returns the attribute parsed as a timestamp, or nil.
func Time(attrs models.Attributes, key string) *time.Time {
	switch v := attrs[key].(type) {
	case string:
		if t, ok := ParseTimestamp(v); ok {
			return &t
		}
	case float64:
		if t, ok := parseEpoch(strconv.FormatFloat(v, 'f', -1, 64)); ok {
			return &t
		}
	}
	return nil
}

// Location renders "City, Country" when the city is known, else the country.
func Location(city, country string) string {
	if city != "" && city != Unknown {
		return city + ", " + country
	}
	return country
}

// InIndonesia reports whether the event is attributed to Indonesia by country
// name or by coordinates inside the Indonesian bounding box.
func InIndonesia(country string, lat, lon *float64) bool {
	if country == Indonesia {
		return true
	}
	if lat == nil || lon == nil {
		return false
	}
	return *lat >= indonesiaMinLat && *lat <= indonesiaMaxLat &&
		*lon >= indonesiaMinLon && *lon <= indonesiaMaxLon
}

func toString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	default:
		return "", false
	}
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloatPtr(v any) *float64 {
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

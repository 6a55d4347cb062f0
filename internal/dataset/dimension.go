// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package dataset

import (
	"fmt"

	"github.com/tomtom215/usagelens/internal/models"
)

// Dimension names a categorical column of the canonical table.
type Dimension string

// Supported dimensions.
const (
	DimensionDevice     Dimension = "device"
	DimensionOS         Dimension = "os"
	DimensionCountry    Dimension = "country"
	DimensionAppVersion Dimension = "app_version"
	DimensionEventType  Dimension = "event_type"
	DimensionPage       Dimension = "page"
	DimensionWidget     Dimension = "widget"
	DimensionTab        Dimension = "tab"
	DimensionLocation   Dimension = "location"
	DimensionScreen     Dimension = "screen"
	DimensionNetwork    Dimension = "network"
	DimensionConnection Dimension = "connection"
)

// Labels of the boolean network dimensions. Rows without the flag have no
// value and are reported as Unknown by the aggregations.
const (
	NetworkWiFi            = "WiFi"
	NetworkCellular        = "Cellular"
	ConnectionConnected    = "Connected"
	ConnectionDisconnected = "Disconnected"
)

// Dimensions lists every supported dimension.
func Dimensions() []Dimension {
	return []Dimension{
		DimensionDevice, DimensionOS, DimensionCountry, DimensionAppVersion,
		DimensionEventType, DimensionPage, DimensionWidget, DimensionTab,
		DimensionLocation, DimensionScreen, DimensionNetwork, DimensionConnection,
	}
}

// ParseDimension validates a dimension name.
func ParseDimension(name string) (Dimension, error) {
	d := Dimension(name)
	for _, known := range Dimensions() {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q", name)
}

// Value returns the event's value for the dimension. ok is false when the
// value is empty.
func (d Dimension) Value(e *models.Event) (string, bool) {
	var v string
	switch d {
	case DimensionDevice:
		v = e.DeviceType
	case DimensionOS:
		v = e.OS
	case DimensionCountry:
		v = e.Country
	case DimensionAppVersion:
		v = e.AppVersion
	case DimensionEventType:
		v = e.EventType
	case DimensionPage:
		v = e.Page
	case DimensionWidget:
		v = e.Widget
	case DimensionTab:
		v = e.Tab
	case DimensionLocation:
		v = e.Location
	case DimensionScreen:
		v = e.Screen
	case DimensionNetwork:
		v = flagLabel(e.WiFi, NetworkWiFi, NetworkCellular)
	case DimensionConnection:
		v = flagLabel(e.Connection, ConnectionConnected, ConnectionDisconnected)
	}
	return v, v != ""
}

func flagLabel(flag *bool, yes, no string) string {
	switch {
	case flag == nil:
		return ""
	case *flag:
		return yes
	default:
		return no
	}
}

// Usagelens - Event Log Ingestion and Session Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"github.com/tomtom215/usagelens/internal/models"
)

// KPIs computes the headline metrics of a subset.
//
// A session's duration is the maximum duration of its rows. When no row
// carries a session id, every row counts as a session for both the session
// count and the bounce rate.
func (e *Engine) KPIs(events []models.Event) models.KPIBlock {
	k := models.KPIBlock{TotalEvents: len(events)}

	actors := make(map[models.ActorKey]struct{})
	sources := make(map[models.Source]struct{})
	sessions := make(map[models.SessionKey]float64)

	var sum float64
	var positive int
	for i := range events {
		ev := &events[i]
		actors[ev.Actor()] = struct{}{}
		sources[ev.Source] = struct{}{}
		if ev.Duration > 0 {
			sum += ev.Duration
			positive++
		}
		if ev.HasSession() {
			key := ev.Session()
			if d, ok := sessions[key]; !ok || ev.Duration > d {
				sessions[key] = ev.Duration
			}
		}
	}

	k.UniqueActors = len(actors)
	k.ActiveSources = len(sources)
	k.AvgDuration = ratio(sum, float64(positive))

	if len(sessions) > 0 {
		k.Sessions = len(sessions)
		k.SessionsFromIDs = true
		for _, d := range sessions {
			if d < e.th.BounceSeconds {
				k.Bounced++
			}
		}
	} else {
		k.Sessions = len(events)
		for i := range events {
			if events[i].Duration < e.th.BounceSeconds {
				k.Bounced++
			}
		}
	}
	k.BounceRate = ratio(float64(k.Bounced), float64(k.Sessions))
	return k
}

// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package fleet

import (
	"testing"
	"time"

	"github.com/tidewatch/fleetsync/internal/geo"
	"github.com/tidewatch/fleetsync/internal/models"
)

func TestResolveMotionFromSpeed(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		want  MotionState
	}{
		{"dead stop", 0.0, MotionStopped},
		{"just under stopped threshold", 0.49, MotionStopped},
		{"at stopped threshold", 0.5, MotionManeuvering},
		{"maneuvering", 3.9, MotionManeuvering},
		{"at maneuvering threshold", 4.0, MotionSlow},
		{"slow", 9.9, MotionSlow},
		{"at slow threshold", 10.0, MotionMedium},
		{"medium", 17.9, MotionMedium},
		{"at medium threshold", 18.0, MotionFast},
		{"fast", 25.0, MotionFast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speed := tt.speed
			got := ResolveMotion(models.VesselRecord{Speed: &speed})
			if got != tt.want {
				t.Errorf("ResolveMotion(speed=%v) = %s, want %s", tt.speed, got, tt.want)
			}
		})
	}
}

func TestResolveMotionStatusTextWins(t *testing.T) {
	speed := 15.0
	rec := models.VesselRecord{Status: "At Anchor", Speed: &speed}
	if got := ResolveMotion(rec); got != MotionStopped {
		t.Errorf("ResolveMotion with anchor status = %s, want Stopped regardless of speed", got)
	}
}

func TestResolveMotionTotal(t *testing.T) {
	// An entirely empty record must still classify.
	if got := ResolveMotion(models.VesselRecord{}); got != MotionStopped {
		t.Errorf("ResolveMotion(empty) = %s, want Stopped", got)
	}
	// Unrecognized status text falls through to speed.
	speed := 12.0
	rec := models.VesselRecord{Status: "status code 14", Speed: &speed}
	if got := ResolveMotion(rec); got != MotionMedium {
		t.Errorf("ResolveMotion(unrecognized text, speed=12) = %s, want Medium", got)
	}
}

func TestResolveVoyage(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)
	moving := 14.0
	stopped := 0.1

	tests := []struct {
		name string
		rec  models.VesselRecord
		want VoyageState
	}{
		{"moored status", models.VesselRecord{Status: "Moored"}, VoyageInPort},
		{"in port status", models.VesselRecord{Status: "In Port"}, VoyageInPort},
		{"delayed status", models.VesselRecord{Status: "Delayed at canal"}, VoyageDelayed},
		{"underway status", models.VesselRecord{Status: "Underway using engine"}, VoyageAtSea},
		{"overdue eta", models.VesselRecord{ETA: &past}, VoyageDelayed},
		{"future eta moving", models.VesselRecord{ETA: &future, Speed: &moving}, VoyageAtSea},
		{"no signal", models.VesselRecord{Speed: &stopped}, VoyageUnknown},
		{"empty record", models.VesselRecord{}, VoyageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveVoyage(tt.rec, now); got != tt.want {
				t.Errorf("ResolveVoyage = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveRegionFromDestination(t *testing.T) {
	filter := geo.NewFilter()

	tests := []struct {
		dest string
		want string
	}{
		{"ROTTERDAM", "Northwest Europe"},
		{"Port of Singapore", "Southeast Asia"},
		{"Houston, TX", "US Gulf"},
		{"Fujairah Anchorage", "Middle East Gulf"},
		{"NINGBO-ZHOUSHAN", "East Asia"},
	}

	for _, tt := range tests {
		t.Run(tt.dest, func(t *testing.T) {
			rec := models.VesselRecord{DestinationPort: tt.dest}
			if got := ResolveRegion(rec, filter); got != tt.want {
				t.Errorf("ResolveRegion(dest=%q) = %q, want %q", tt.dest, got, tt.want)
			}
		})
	}
}

func TestResolveRegionFromCoordinates(t *testing.T) {
	filter := geo.NewFilter()
	lat, lng := 27.0, 51.0 // Persian Gulf

	rec := models.VesselRecord{Lat: &lat, Lng: &lng}
	if got := ResolveRegion(rec, filter); got != "Middle East Gulf" {
		t.Errorf("ResolveRegion(Persian Gulf coords) = %q, want Middle East Gulf", got)
	}
}

func TestResolveRegionUnknown(t *testing.T) {
	filter := geo.NewFilter()

	if got := ResolveRegion(models.VesselRecord{}, filter); got != RegionUnknown {
		t.Errorf("ResolveRegion(empty) = %q, want %q", got, RegionUnknown)
	}

	rec := models.VesselRecord{DestinationPort: "Nowhere Special"}
	if got := ResolveRegion(rec, filter); got != RegionUnknown {
		t.Errorf("ResolveRegion(unmatched dest) = %q, want %q", got, RegionUnknown)
	}
}

func TestWaterBodyRegionsCoverAllowlist(t *testing.T) {
	// Every named water body the filter can return must bucket to a
	// region, or the coordinate fallback silently degrades to Unknown.
	filter := geo.NewFilter()

	probes := []struct {
		lat float64
		lng float64
	}{
		{55, 3}, {27, 51}, {3, 100}, {27, -90}, {40, -40},
	}
	for _, p := range probes {
		body := filter.ClassifyWater(p.lat, p.lng)
		if body == "" {
			t.Fatalf("probe (%v, %v) unexpectedly not water", p.lat, p.lng)
		}
		if _, ok := waterBodyRegions[body]; !ok {
			t.Errorf("water body %q has no region bucket", body)
		}
	}
}

// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package fleet

import (
	"strings"
	"time"

	"github.com/tidewatch/fleetsync/internal/geo"
	"github.com/tidewatch/fleetsync/internal/models"
)

// MotionState is the speed-derived status used by the map views.
type MotionState string

const (
	MotionStopped     MotionState = "Stopped"
	MotionManeuvering MotionState = "Maneuvering"
	MotionSlow        MotionState = "Slow"
	MotionMedium      MotionState = "Medium"
	MotionFast        MotionState = "Fast"
)

// VoyageState is the voyage-phase status used by the listing views.
type VoyageState string

const (
	VoyageAtSea   VoyageState = "AtSea"
	VoyageInPort  VoyageState = "InPort"
	VoyageDelayed VoyageState = "Delayed"
	VoyageUnknown VoyageState = "Unknown"
)

// Speed thresholds in knots for the motion classification.
const (
	stoppedMaxKnots     = 0.5
	maneuveringMaxKnots = 4.0
	slowMaxKnots        = 10.0
	mediumMaxKnots      = 18.0
)

// ResolveMotion classifies a vessel's motion from its upstream status text
// when present, falling back to speed thresholds. Total: always returns a
// value, including for a fully empty record (a vessel reporting nothing is
// treated as stopped).
func ResolveMotion(rec models.VesselRecord) MotionState {
	if s := motionFromStatusText(rec.Status); s != "" {
		return s
	}
	if rec.Speed == nil {
		return MotionStopped
	}
	switch speed := *rec.Speed; {
	case speed < stoppedMaxKnots:
		return MotionStopped
	case speed < maneuveringMaxKnots:
		return MotionManeuvering
	case speed < slowMaxKnots:
		return MotionSlow
	case speed < mediumMaxKnots:
		return MotionMedium
	default:
		return MotionFast
	}
}

// motionFromStatusText maps upstream free-text status to a motion state,
// or "" when the text is absent or unrecognized.
func motionFromStatusText(status string) MotionState {
	s := strings.ToLower(status)
	switch {
	case s == "":
		return ""
	case strings.Contains(s, "anchor"), strings.Contains(s, "moor"),
		strings.Contains(s, "stopped"), strings.Contains(s, "berth"):
		return MotionStopped
	case strings.Contains(s, "maneuver"), strings.Contains(s, "manoeuvr"):
		return MotionManeuvering
	default:
		return ""
	}
}

// ResolveVoyage classifies the voyage phase. Upstream status keywords win;
// otherwise an ETA in the past marks the voyage delayed, movement marks it
// at sea, and anything else is unknown. Total.
func ResolveVoyage(rec models.VesselRecord, now time.Time) VoyageState {
	s := strings.ToLower(rec.Status)
	switch {
	case strings.Contains(s, "port"), strings.Contains(s, "berth"),
		strings.Contains(s, "moor"), strings.Contains(s, "anchor"):
		return VoyageInPort
	case strings.Contains(s, "delay"):
		return VoyageDelayed
	case strings.Contains(s, "underway"), strings.Contains(s, "at sea"),
		strings.Contains(s, "transit"):
		return VoyageAtSea
	}
	if rec.ETA != nil && now.After(*rec.ETA) {
		return VoyageDelayed
	}
	if rec.Speed != nil && *rec.Speed >= stoppedMaxKnots {
		return VoyageAtSea
	}
	return VoyageUnknown
}

// RegionUnknown is returned when neither the destination text nor the
// coordinates classify the vessel.
const RegionUnknown = "Unknown"

// destinationRegions maps lowercase destination keywords to trade regions.
// First match in table order wins; more specific names go first. Extend by
// adding rows, not logic.
var destinationRegions = []struct {
	Keyword string
	Region  string
}{
	{"rotterdam", "Northwest Europe"},
	{"antwerp", "Northwest Europe"},
	{"hamburg", "Northwest Europe"},
	{"amsterdam", "Northwest Europe"},
	{"le havre", "Northwest Europe"},
	{"immingham", "Northwest Europe"},

	{"singapore", "Southeast Asia"},
	{"port klang", "Southeast Asia"},
	{"tanjung", "Southeast Asia"},
	{"map ta phut", "Southeast Asia"},

	{"houston", "US Gulf"},
	{"corpus christi", "US Gulf"},
	{"new orleans", "US Gulf"},
	{"beaumont", "US Gulf"},
	{"galveston", "US Gulf"},

	{"fujairah", "Middle East Gulf"},
	{"jebel ali", "Middle East Gulf"},
	{"ras tanura", "Middle East Gulf"},
	{"mina al ahmadi", "Middle East Gulf"},
	{"basrah", "Middle East Gulf"},

	{"ningbo", "East Asia"},
	{"qingdao", "East Asia"},
	{"ulsan", "East Asia"},
	{"yokohama", "East Asia"},
	{"zhoushan", "East Asia"},

	{"santos", "South America"},
	{"sao sebastiao", "South America"},
	{"jose terminal", "South America"},

	{"lagos", "West Africa"},
	{"bonny", "West Africa"},
	{"lome", "West Africa"},

	{"novorossiysk", "Black Sea"},
	{"constanta", "Black Sea"},

	{"sikka", "Indian Subcontinent"},
	{"jamnagar", "Indian Subcontinent"},
	{"vadinar", "Indian Subcontinent"},
}

// waterBodyRegions buckets water-body names from the plausibility
// allowlist into the same trade regions as the destination table.
var waterBodyRegions = map[string]string{
	"North Sea":            "Northwest Europe",
	"Baltic Sea":           "Northwest Europe",
	"English Channel":      "Northwest Europe",
	"Norwegian Sea":        "Northwest Europe",
	"Mediterranean Sea":    "Mediterranean",
	"Strait of Gibraltar":  "Mediterranean",
	"Suez Approaches":      "Mediterranean",
	"Black Sea":            "Black Sea",
	"Bosporus Approaches":  "Black Sea",
	"Persian Gulf":         "Middle East Gulf",
	"Strait of Hormuz":     "Middle East Gulf",
	"Gulf of Oman":         "Middle East Gulf",
	"Red Sea":              "Middle East Gulf",
	"Arabian Sea":          "Indian Subcontinent",
	"Bay of Bengal":        "Indian Subcontinent",
	"Indian Ocean":         "Indian Subcontinent",
	"Strait of Malacca":    "Southeast Asia",
	"South China Sea":      "Southeast Asia",
	"East China Sea":       "East Asia",
	"Sea of Japan":         "East Asia",
	"North Pacific West":   "East Asia",
	"Gulf of Mexico":       "US Gulf",
	"Caribbean Sea":        "Caribbean",
	"Panama Approaches":    "Caribbean",
	"North Atlantic":       "Atlantic",
	"South Atlantic":       "Atlantic",
	"North Pacific East":   "Americas Pacific",
	"South Pacific East":   "Americas Pacific",
	"South Pacific West":   "Oceania",
}

// ResolveRegion infers the vessel's trade region: destination keyword
// match first, then coordinate bucketing against the named water bodies,
// then Unknown. Total.
func ResolveRegion(rec models.VesselRecord, filter *geo.Filter) string {
	dest := strings.ToLower(rec.DestinationPort)
	if dest != "" {
		for _, row := range destinationRegions {
			if strings.Contains(dest, row.Keyword) {
				return row.Region
			}
		}
	}
	if rec.HasValidPosition() && filter != nil {
		if body := filter.ClassifyWater(*rec.Lat, *rec.Lng); body != "" {
			if region, ok := waterBodyRegions[body]; ok {
				return region
			}
		}
	}
	return RegionUnknown
}

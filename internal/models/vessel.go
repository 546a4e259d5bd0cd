// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package models

import "time"

// VesselRecord is the canonical vessel record produced by every source
// adapter. ID is the stable primary identity across all sources; IMO and
// MMSI are secondary identities used when a provider omits ID.
//
// Lat/Lng, Speed, Course, CargoCapacity and the timestamps are pointers
// because providers routinely omit them; absence and zero are different
// facts for all of these (a vessel at 0,0 is in the Gulf of Guinea, not
// unlocated).
type VesselRecord struct {
	ID   int64  `json:"id"`
	IMO  string `json:"imo,omitempty"`
	MMSI string `json:"mmsi,omitempty"`

	Name       string `json:"name"`
	VesselType string `json:"vesselType"`
	Flag       string `json:"flag,omitempty"`

	Lat    *float64 `json:"currentLat,omitempty"`
	Lng    *float64 `json:"currentLng,omitempty"`
	Speed  *float64 `json:"speed,omitempty"`  // knots
	Course *float64 `json:"course,omitempty"` // degrees, 0-359

	// Status is free text from the provider; empty when the provider does
	// not report one. Derived states are computed in internal/fleet.
	Status string `json:"status,omitempty"`

	DeparturePort   string     `json:"departurePort,omitempty"`
	DestinationPort string     `json:"destinationPort,omitempty"`
	DepartureTime   *time.Time `json:"departureTime,omitempty"`
	ETA             *time.Time `json:"eta,omitempty"`

	CargoType     string   `json:"cargoType,omitempty"`
	CargoCapacity *float64 `json:"cargoCapacity,omitempty"`
}

// HasPosition reports whether both coordinates are present.
func (v *VesselRecord) HasPosition() bool {
	return v.Lat != nil && v.Lng != nil
}

// HasValidPosition reports whether both coordinates are present and inside
// the numeric range invariant: lat in [-90,90], lng in [-180,180].
// A record with a position failing this invariant is unusable and must be
// excluded before merge.
func (v *VesselRecord) HasValidPosition() bool {
	if !v.HasPosition() {
		return false
	}
	return *v.Lat >= -90 && *v.Lat <= 90 && *v.Lng >= -180 && *v.Lng <= 180
}

// Identity returns the strongest identity the record carries, for logging
// and diagnostics. Merge resolution order lives in internal/fleet.
func (v *VesselRecord) Identity() string {
	switch {
	case v.ID != 0:
		return "id"
	case v.IMO != "":
		return "imo"
	case v.MMSI != "":
		return "mmsi"
	default:
		return "anonymous"
	}
}

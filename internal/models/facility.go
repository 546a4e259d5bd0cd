// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package models

// FacilityKind discriminates port and refinery records, which share a
// shape and an endpoint family upstream.
type FacilityKind string

const (
	FacilityPort     FacilityKind = "port"
	FacilityRefinery FacilityKind = "refinery"
)

// FacilityRecord is a port or refinery.
type FacilityRecord struct {
	ID       int64        `json:"id"`
	Kind     FacilityKind `json:"kind"`
	Name     string       `json:"name"`
	Country  string       `json:"country,omitempty"`
	Region   string       `json:"region,omitempty"`
	Lat      float64      `json:"lat"`
	Lng      float64      `json:"lng"`
	Capacity *float64     `json:"capacity,omitempty"`
	Status   string       `json:"status,omitempty"`
}

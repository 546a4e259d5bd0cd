// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package models

import "time"

// EnrichedVesselProfile is expensive, rarely-changing supplemental data
// about one vessel, produced by the enrichment collaborator at most once
// per vessel per process lifetime.
//
// Profiles are immutable once cached: the enrichment cache is the only
// writer, and replaces a profile wholesale on explicit invalidation.
// Fallback marks profiles synthesized locally after a production failure;
// fallback profiles are never cached, so a later request may retry.
type EnrichedVesselProfile struct {
	VesselID int64  `json:"vesselId"`
	Owner    string `json:"owner,omitempty"`
	Operator string `json:"operator,omitempty"`
	Captain  string `json:"captain,omitempty"`

	VoyageNotes      string     `json:"voyageNotes,omitempty"`
	EstimatedArrival *time.Time `json:"estimatedArrival,omitempty"`

	// Technical specs.
	BuiltYear    int     `json:"builtYear,omitempty"`
	LengthMeters float64 `json:"lengthMeters,omitempty"`
	DraftMeters  float64 `json:"draftMeters,omitempty"`

	Fallback    bool      `json:"fallback,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

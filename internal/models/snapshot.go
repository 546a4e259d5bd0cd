// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package models

import "time"

// FleetSnapshot is one complete, internally-consistent view of the fleet.
//
// The failover coordinator replaces the current snapshot wholesale on every
// successful sync cycle; a snapshot is never mutated in place after
// publication, so readers holding a reference always see a fully merged,
// fully filtered fleet. Vessels is keyed by the stable vessel ID.
type FleetSnapshot struct {
	Vessels     map[int64]VesselRecord `json:"vessels"`
	SourceLabel string                 `json:"sourceLabel"`
	AsOf        time.Time              `json:"asOf"`
}

// NewFleetSnapshot returns an empty snapshot stamped with the given source
// and time.
func NewFleetSnapshot(sourceLabel string, asOf time.Time) *FleetSnapshot {
	return &FleetSnapshot{
		Vessels:     make(map[int64]VesselRecord),
		SourceLabel: sourceLabel,
		AsOf:        asOf,
	}
}

// Len returns the number of vessels in the snapshot. Nil-safe.
func (s *FleetSnapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Vessels)
}

// Clone returns a deep copy of the snapshot. Merge operates on copies so
// the previous snapshot stays untouched for in-flight readers.
func (s *FleetSnapshot) Clone() *FleetSnapshot {
	if s == nil {
		return nil
	}
	out := &FleetSnapshot{
		Vessels:     make(map[int64]VesselRecord, len(s.Vessels)),
		SourceLabel: s.SourceLabel,
		AsOf:        s.AsOf,
	}
	for id, v := range s.Vessels {
		out.Vessels[id] = v
	}
	return out
}

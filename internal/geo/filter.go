// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package geo

import "github.com/tidewatch/fleetsync/internal/metrics"

// Filter classifies coordinates as plausible vessel positions. Stateless
// and safe for concurrent use; construct once and share.
type Filter struct {
	deny  []BoundingCircle
	allow []BoundingBox
}

// NewFilter returns a filter over the curated region tables.
func NewFilter() *Filter {
	return &Filter{deny: landDenylist, allow: waterAllowlist}
}

// NewFilterWithRegions returns a filter over caller-supplied tables.
// Used by tests and by deployments that extend the curated tables.
func NewFilterWithRegions(deny []BoundingCircle, allow []BoundingBox) *Filter {
	return &Filter{deny: deny, allow: allow}
}

// Plausible reports whether the coordinate is a geographically sane vessel
// position. Evaluation order:
//
//  1. Out-of-range coordinates are rejected without further computation.
//  2. Any land denylist circle match rejects (cheap rejection of
//     previously observed bad fixes).
//  3. Any water allowlist box match accepts.
//  4. Anything unclassified is rejected: points are land until proven
//     water.
func (f *Filter) Plausible(lat, lng float64) bool {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		metrics.PlausibilityRejections.WithLabelValues("out_of_range").Inc()
		return false
	}
	for _, c := range f.deny {
		if c.Contains(lat, lng) {
			metrics.PlausibilityRejections.WithLabelValues("land").Inc()
			return false
		}
	}
	for _, b := range f.allow {
		if b.Contains(lat, lng) {
			return true
		}
	}
	metrics.PlausibilityRejections.WithLabelValues("unclassified").Inc()
	return false
}

// ClassifyWater returns the name of the first water body containing the
// coordinate, or "" when the coordinate is not plausible water. Used by
// the region resolver's coordinate fallback.
func (f *Filter) ClassifyWater(lat, lng float64) string {
	if !f.Plausible(lat, lng) {
		return ""
	}
	for _, b := range f.allow {
		if b.Contains(lat, lng) {
			return b.Name
		}
	}
	return ""
}

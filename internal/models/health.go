// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package models

import "time"

// SourceState is the availability state of one source adapter.
type SourceState string

const (
	// SourceConnected: the adapter's most recent attempt succeeded with a
	// non-empty result.
	SourceConnected SourceState = "connected"

	// SourceDegraded: intermittent failures, but the adapter has produced
	// data within its freshness window and remains eligible for selection.
	SourceDegraded SourceState = "degraded"

	// SourceFailed: exhausted retries, a request error, or an
	// empty/malformed response; the adapter is skipped until its next
	// successful non-empty fetch.
	SourceFailed SourceState = "failed"
)

// SourceHealth tracks one adapter's availability. Created when the adapter
// starts, updated by the failover coordinator on every attempt, never
// persisted past process lifetime.
type SourceHealth struct {
	Source              string      `json:"source"`
	State               SourceState `json:"state"`
	LastSuccessAt       time.Time   `json:"lastSuccessAt"`
	ConsecutiveFailures int         `json:"consecutiveFailures"`
}

// FreshWithin reports whether the adapter has produced a successful result
// within the given window of now.
func (h *SourceHealth) FreshWithin(window time.Duration, now time.Time) bool {
	if h.LastSuccessAt.IsZero() {
		return false
	}
	return now.Sub(h.LastSuccessAt) <= window
}

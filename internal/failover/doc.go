// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

/*
Package failover owns source selection and the current fleet snapshot.

The Coordinator holds the ordered adapter list, runs each polling
adapter's timer, receives push batches from the stream adapter, and on
every delivery updates that adapter's health and re-selects the active
source by priority. A successful cycle runs merge, plausibility filtering
and derived-state resolution to completion, then replaces the published
snapshot atomically; readers mid-cycle keep the previous complete
snapshot. When every source is failed the last-known-good snapshot is
retained and flagged stale instead of being cleared.

This is pure priority failover, not quorum or quality voting: one source
is active at a time, chosen by rank among the sources that are alive and
fresh. The coordinator is the only component that mutates the current
snapshot or the per-source health records.
*/
package failover

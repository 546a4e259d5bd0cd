// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

/*
Package fleet contains the pure transformation steps of a sync cycle:
merging an incoming batch against the previous snapshot, filtering
implausible positions, deriving missing status/region fields, and windowing
the result for consumers.

Every function here takes snapshots in and returns new snapshots out; the
inputs are never mutated. The failover coordinator owns sequencing
(merge, then filter, then resolve, then publish) and is the only component
that makes a snapshot "current".
*/
package fleet

// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

/*
Package models defines the canonical data structures for the fleet
synchronization engine.

Every upstream provider has its own field names and shapes; adapters in
internal/source normalize those into the types defined here, and nothing
downstream of an adapter ever sees a provider-specific shape. This package
is the single source of truth for record definitions.

Key types:

  - VesselRecord: canonical vessel position/voyage record
  - FacilityRecord: port or refinery
  - FleetSnapshot: one complete, internally-consistent view of the fleet
  - SourceHealth: per-adapter availability state
  - EnrichedVesselProfile: expensive per-vessel supplemental data
*/
package models

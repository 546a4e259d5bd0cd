// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

/*
Package source contains one adapter per upstream vessel-data provider plus
the facility (ports/refineries) client.

Adapters normalize provider-specific schemas into the canonical
models.VesselRecord and never let provider shapes or panics cross their
boundary: every failure comes back as an empty result plus an error so the
failover coordinator can react without exceptions in the control path.

Four adapters ship today, in failover priority order:

  1. StreamAdapter    push WebSocket feed, reconnects with capped backoff
  2. FleetAPIAdapter  canonical REST endpoint (wrapped or bare array)
  3. SpectrumAdapter  "Spectrum AIS" third-party schema
  4. MeridianAdapter  "Meridian Marine" third-party schema, last resort

The REST adapters are wrapped in circuit breakers (sony/gobreaker) so a
flapping provider is backed off instead of hammered.
*/
package source

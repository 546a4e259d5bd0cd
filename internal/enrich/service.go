// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package enrich

import (
	"context"

	"github.com/tidewatch/fleetsync/internal/fleet"
	"github.com/tidewatch/fleetsync/internal/geo"
	"github.com/tidewatch/fleetsync/internal/models"
)

// Service ties the profile cache to the generation backend. Profiles are
// produced on first request per vessel and served from memory after that.
type Service struct {
	cache  *Cache
	client *ProfileClient
	filter *geo.Filter
}

func NewService(cache *Cache, client *ProfileClient, filter *geo.Filter) *Service {
	return &Service{cache: cache, client: client, filter: filter}
}

// ProfileFor returns the cached profile for the vessel, producing one if
// needed. Generation failures yield an uncached fallback profile.
func (s *Service) ProfileFor(ctx context.Context, vessel models.VesselRecord) *models.EnrichedVesselProfile {
	region := fleet.ResolveRegion(vessel, s.filter)
	return s.cache.GetOrCreate(ctx, vessel, s.client.ProducerFor(vessel, region))
}

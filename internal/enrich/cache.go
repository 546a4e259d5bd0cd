// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

// Package enrich memoizes expensive per-vessel profile production.
//
// Profiles are effectively static facts about a vessel for a session, so
// the cache has no TTL and no eviction: one successful production per
// vessel per process lifetime. The cache is an explicit injected instance
// with a documented lifetime, not a hidden package-level map, so tests can
// isolate it and callers can invalidate explicitly.
package enrich

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tidewatch/fleetsync/internal/logging"
	"github.com/tidewatch/fleetsync/internal/metrics"
	"github.com/tidewatch/fleetsync/internal/models"
)

// Producer generates one vessel's profile. Expensive; the cache guarantees
// at most one in-flight call per vessel ID.
type Producer func(ctx context.Context) (*models.EnrichedVesselProfile, error)

// Cache memoizes enriched vessel profiles. It is the exclusive owner and
// only writer of the cached profiles; cached profiles are immutable and
// only ever replaced wholesale via Invalidate.
type Cache struct {
	mu       sync.RWMutex
	profiles map[int64]*models.EnrichedVesselProfile
	group    singleflight.Group

	// now is injectable for deterministic fallback timestamps in tests.
	now func() time.Time
}

// NewCache creates an empty profile cache.
func NewCache() *Cache {
	return &Cache{
		profiles: make(map[int64]*models.EnrichedVesselProfile),
		now:      time.Now,
	}
}

// GetOrCreate returns the cached profile for the vessel, producing it on
// first request. Concurrent requests for the same ID while production is
// in flight share the single pending result; the producer runs at most
// once per miss.
//
// On producer failure a deterministic minimal fallback profile (from
// vessel type and flag only) is returned and nothing is cached, so a
// later request may retry production. The producer owns its own
// completion: it may finish after the requesting consumer has gone away,
// and the result is still cached.
func (c *Cache) GetOrCreate(ctx context.Context, vessel models.VesselRecord, produce Producer) *models.EnrichedVesselProfile {
	c.mu.RLock()
	cached, ok := c.profiles[vessel.ID]
	c.mu.RUnlock()
	if ok {
		metrics.EnrichmentRequests.WithLabelValues("hit").Inc()
		return cached
	}

	key := fmt.Sprintf("%d", vessel.ID)
	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check under the flight: a previous flight may have filled
		// the cache between our miss and this call.
		c.mu.RLock()
		existing, ok := c.profiles[vessel.ID]
		c.mu.RUnlock()
		if ok {
			return existing, nil
		}

		// The flight is shared by every concurrent waiter and its result
		// is cached past all of them, so production must not die with
		// the first caller's request context.
		profile, err := produce(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, fmt.Errorf("enrichment produced nil profile for vessel %d", vessel.ID)
		}
		profile.VesselID = vessel.ID

		c.mu.Lock()
		c.profiles[vessel.ID] = profile
		size := len(c.profiles)
		c.mu.Unlock()
		metrics.EnrichmentProfiles.Set(float64(size))
		return profile, nil
	})

	if err != nil {
		logging.Warn().Err(err).Int64("vessel_id", vessel.ID).Msg("enrichment failed, serving fallback profile")
		metrics.EnrichmentRequests.WithLabelValues("fallback").Inc()
		return c.fallbackProfile(vessel)
	}

	metrics.EnrichmentRequests.WithLabelValues("produced").Inc()
	return result.(*models.EnrichedVesselProfile)
}

// Invalidate drops the cached profile for one vessel; the next request
// re-produces and replaces it wholesale.
func (c *Cache) Invalidate(vesselID int64) {
	c.mu.Lock()
	delete(c.profiles, vesselID)
	size := len(c.profiles)
	c.mu.Unlock()
	metrics.EnrichmentProfiles.Set(float64(size))
}

// Len returns the number of cached profiles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.profiles)
}

// fallbackProfile is the deterministic degraded profile: derived from
// vessel type and flag only, marked Fallback, never cached.
func (c *Cache) fallbackProfile(vessel models.VesselRecord) *models.EnrichedVesselProfile {
	vesselType := vessel.VesselType
	if vesselType == "" {
		vesselType = "vessel"
	}
	notes := fmt.Sprintf("No detailed profile available for this %s.", vesselType)
	if vessel.Flag != "" {
		notes = fmt.Sprintf("No detailed profile available for this %s-flagged %s.", vessel.Flag, vesselType)
	}
	return &models.EnrichedVesselProfile{
		VesselID:    vessel.ID,
		VoyageNotes: notes,
		Fallback:    true,
		GeneratedAt: c.now(),
	}
}

// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package fleet

import (
	"hash/fnv"
	"time"

	"github.com/tidewatch/fleetsync/internal/geo"
	"github.com/tidewatch/fleetsync/internal/models"
)

// Merge reconciles one incoming batch against the previous snapshot and
// returns a new snapshot. The previous snapshot is never modified, so
// in-flight readers of it are safe.
//
// Identity resolution per incoming record: the stable ID when the record
// carries one; otherwise IMO matched against the previous snapshot;
// otherwise MMSI; otherwise the record is a new entity under a synthetic
// ID derived from its strongest secondary identity. Records carrying no
// identity at all are skipped.
//
// Within one batch the last writer wins: a later record for the same
// identity replaces the earlier one field-for-field. There is no
// field-level reconciliation across sources inside a cycle.
//
// Entities present in previous but absent from incoming are dropped. The
// merge reflects the latest full sync, not an accumulating superset: a
// vanished vessel has almost always left the polled scope, not sunk.
//
// Records violating the coordinate invariant are excluded before merging:
// a coordinate pair must be absent together or present together and in
// range.
func Merge(previous *models.FleetSnapshot, incoming []models.VesselRecord, sourceLabel string, asOf time.Time) *models.FleetSnapshot {
	result := models.NewFleetSnapshot(sourceLabel, asOf)

	// Secondary-identity index over the previous snapshot.
	imoIndex := make(map[string]int64)
	mmsiIndex := make(map[string]int64)
	if previous != nil {
		for id, v := range previous.Vessels {
			if v.IMO != "" {
				imoIndex[v.IMO] = id
			}
			if v.MMSI != "" {
				mmsiIndex[v.MMSI] = id
			}
		}
	}

	for _, rec := range incoming {
		if (rec.Lat == nil) != (rec.Lng == nil) {
			// Half a position is unusable.
			continue
		}
		if rec.HasPosition() && !rec.HasValidPosition() {
			// Range invariant violated; unusable.
			continue
		}

		id := resolveIdentity(&rec, imoIndex, mmsiIndex)
		if id == 0 {
			continue
		}
		rec.ID = id
		result.Vessels[id] = rec
	}

	return result
}

// resolveIdentity returns the stable ID for an incoming record, or 0 when
// the record carries no identity at all.
func resolveIdentity(rec *models.VesselRecord, imoIndex, mmsiIndex map[string]int64) int64 {
	if rec.ID != 0 {
		return rec.ID
	}
	if rec.IMO != "" {
		if id, ok := imoIndex[rec.IMO]; ok {
			return id
		}
	}
	if rec.MMSI != "" {
		if id, ok := mmsiIndex[rec.MMSI]; ok {
			return id
		}
	}
	// New entity without a provider ID: derive a deterministic synthetic
	// ID from the strongest secondary identity so repeated merges of the
	// same batch agree.
	switch {
	case rec.IMO != "":
		return syntheticID("imo:" + rec.IMO)
	case rec.MMSI != "":
		return syntheticID("mmsi:" + rec.MMSI)
	default:
		return 0
	}
}

// syntheticID hashes a secondary identity into the negative ID space so it
// can never collide with a provider-assigned positive ID.
func syntheticID(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	v := int64(h.Sum64() >> 1) // clear the sign bit before negating
	if v == 0 {
		v = 1
	}
	return -v
}

// FilterPlausible returns a new snapshot with every vessel whose position
// fails the plausibility filter removed. Vessels without any position are
// kept: they are listable even when they are not mappable.
func FilterPlausible(snapshot *models.FleetSnapshot, filter *geo.Filter) *models.FleetSnapshot {
	if snapshot == nil {
		return nil
	}
	result := models.NewFleetSnapshot(snapshot.SourceLabel, snapshot.AsOf)
	for id, v := range snapshot.Vessels {
		if v.HasPosition() && !filter.Plausible(*v.Lat, *v.Lng) {
			continue
		}
		result.Vessels[id] = v
	}
	return result
}

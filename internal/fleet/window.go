// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package fleet

import (
	"sort"

	"github.com/tidewatch/fleetsync/internal/models"
)

// AllowedPageSizes are the page sizes consumers may request. Requests for
// any other size are snapped to the nearest allowed value to bound
// rendering cost downstream.
var AllowedPageSizes = []int{50, 100, 200, 500}

// DefaultPageSize is used when a consumer does not specify a size.
const DefaultPageSize = 100

// PageResult is one window over a snapshot.
type PageResult struct {
	Items      []models.VesselRecord `json:"items"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalCount int                   `json:"totalCount"`
	TotalPages int                   `json:"totalPages"`
}

// Page slices the snapshot into a window. Pure: the caller passes one
// atomically-read snapshot reference, so a page never observes a snapshot
// being replaced mid-read.
//
// pageNumber is clamped to [1, totalPages]; pageSize is snapped to the
// allowed set. Items are ordered by vessel ID so pages partition the fleet
// and the union of all pages equals the snapshot.
func Page(snapshot *models.FleetSnapshot, pageNumber, pageSize int) PageResult {
	pageSize = ClampPageSize(pageSize)

	if snapshot == nil {
		return PageResult{
			Items:      []models.VesselRecord{},
			Page:       1,
			PageSize:   pageSize,
			TotalCount: 0,
			TotalPages: 1,
		}
	}

	total := len(snapshot.Vessels)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > totalPages {
		pageNumber = totalPages
	}

	ids := make([]int64, 0, total)
	for id := range snapshot.Vessels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]models.VesselRecord, 0, end-start)
	for _, id := range ids[start:end] {
		items = append(items, snapshot.Vessels[id])
	}

	return PageResult{
		Items:      items,
		Page:       pageNumber,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}
}

// ClampPageSize snaps a requested page size to the allowed set. Zero and
// negative requests get the default; anything else snaps to the nearest
// allowed size, preferring the smaller on ties.
func ClampPageSize(requested int) int {
	if requested <= 0 {
		return DefaultPageSize
	}
	best := AllowedPageSizes[0]
	bestDist := distance(requested, best)
	for _, size := range AllowedPageSizes[1:] {
		if d := distance(requested, size); d < bestDist {
			best = size
			bestDist = d
		}
	}
	return best
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

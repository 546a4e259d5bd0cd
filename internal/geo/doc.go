// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

/*
Package geo implements the coordinate plausibility filter.

The filter is a coarse heuristic, not a GIS engine: it classifies a
coordinate as "on water" using two ordered, named tables (a denylist of
interior-landmass circles checked first, then an allowlist of water-body
bounding boxes). Coordinates matching neither table are treated as land;
unclassified is not proof of water.

New regions are added by extending the tables in regions.go; the algorithm
in filter.go never changes for that.
*/
package geo

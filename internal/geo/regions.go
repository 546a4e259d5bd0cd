// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package geo

// BoundingBox is a named latitude/longitude rectangle. Boxes never span
// the antimeridian; water bodies that cross it are listed as two boxes.
type BoundingBox struct {
	Name   string
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains reports whether the coordinate falls inside the box (inclusive).
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// BoundingCircle is a named circle with its radius in degrees. Degree
// radii distort toward the poles; that coarseness is acceptable because
// the denylist only covers continental interiors where nothing floats.
type BoundingCircle struct {
	Name      string
	Lat       float64
	Lng       float64
	RadiusDeg float64
}

// Contains reports whether the coordinate falls inside the circle.
func (c BoundingCircle) Contains(lat, lng float64) bool {
	dLat := lat - c.Lat
	dLng := lng - c.Lng
	return dLat*dLat+dLng*dLng <= c.RadiusDeg*c.RadiusDeg
}

// landDenylist covers continental interiors where bad fixes have been
// observed (GPS glitches, provider sentinel values landing inland).
// Checked before the water allowlist; a match rejects immediately.
var landDenylist = []BoundingCircle{
	{Name: "Sahara Interior", Lat: 23.0, Lng: 10.0, RadiusDeg: 9.0},
	{Name: "Amazon Basin", Lat: -5.0, Lng: -63.0, RadiusDeg: 8.0},
	{Name: "Congo Basin", Lat: -1.0, Lng: 23.0, RadiusDeg: 6.0},
	{Name: "Central Asian Steppe", Lat: 47.0, Lng: 68.0, RadiusDeg: 8.0},
	{Name: "Siberian Interior", Lat: 63.0, Lng: 105.0, RadiusDeg: 10.0},
	{Name: "Tibetan Plateau", Lat: 33.0, Lng: 88.0, RadiusDeg: 6.0},
	{Name: "Australian Outback", Lat: -25.0, Lng: 135.0, RadiusDeg: 7.0},
	{Name: "North American Interior", Lat: 41.0, Lng: -100.0, RadiusDeg: 7.0},
}

// waterAllowlist covers the oceans, seas, straits and canal approaches the
// tracked fleet operates in. Box membership after passing the denylist
// classifies a coordinate as water.
var waterAllowlist = []BoundingBox{
	// Oceans. The Pacific is split at the antimeridian.
	{Name: "North Atlantic", MinLat: 0, MaxLat: 65, MinLng: -80, MaxLng: -5},
	{Name: "South Atlantic", MinLat: -60, MaxLat: 0, MinLng: -65, MaxLng: 15},
	{Name: "North Pacific West", MinLat: 0, MaxLat: 60, MinLng: 125, MaxLng: 180},
	{Name: "North Pacific East", MinLat: 0, MaxLat: 60, MinLng: -180, MaxLng: -105},
	{Name: "South Pacific West", MinLat: -55, MaxLat: 0, MinLng: 150, MaxLng: 180},
	{Name: "South Pacific East", MinLat: -55, MaxLat: 0, MinLng: -180, MaxLng: -75},
	{Name: "Indian Ocean", MinLat: -55, MaxLat: 10, MinLng: 45, MaxLng: 100},

	// Seas and gulfs.
	{Name: "Mediterranean Sea", MinLat: 30, MaxLat: 46, MinLng: -6, MaxLng: 36},
	{Name: "Black Sea", MinLat: 41, MaxLat: 47, MinLng: 27, MaxLng: 42},
	{Name: "North Sea", MinLat: 51, MaxLat: 62, MinLng: -4, MaxLng: 9},
	{Name: "Baltic Sea", MinLat: 53, MaxLat: 66, MinLng: 10, MaxLng: 30},
	{Name: "Norwegian Sea", MinLat: 62, MaxLat: 75, MinLng: -10, MaxLng: 15},
	{Name: "Red Sea", MinLat: 12, MaxLat: 30, MinLng: 32, MaxLng: 44},
	{Name: "Persian Gulf", MinLat: 23, MaxLat: 31, MinLng: 47, MaxLng: 57},
	{Name: "Gulf of Oman", MinLat: 22, MaxLat: 27, MinLng: 56, MaxLng: 62},
	{Name: "Arabian Sea", MinLat: 5, MaxLat: 25, MinLng: 55, MaxLng: 75},
	{Name: "Bay of Bengal", MinLat: 5, MaxLat: 23, MinLng: 80, MaxLng: 95},
	{Name: "South China Sea", MinLat: 0, MaxLat: 23, MinLng: 105, MaxLng: 121},
	{Name: "East China Sea", MinLat: 23, MaxLat: 33, MinLng: 120, MaxLng: 130},
	{Name: "Sea of Japan", MinLat: 34, MaxLat: 48, MinLng: 128, MaxLng: 142},
	{Name: "Gulf of Mexico", MinLat: 18, MaxLat: 30, MinLng: -98, MaxLng: -81},
	{Name: "Caribbean Sea", MinLat: 9, MaxLat: 22, MinLng: -88, MaxLng: -60},

	// Straits and canal approaches; narrow, so listed separately even
	// where an ocean box comes close.
	{Name: "English Channel", MinLat: 48, MaxLat: 52, MinLng: -6, MaxLng: 2},
	{Name: "Strait of Gibraltar", MinLat: 35, MaxLat: 37, MinLng: -7, MaxLng: -4},
	{Name: "Strait of Malacca", MinLat: -1, MaxLat: 7, MinLng: 95, MaxLng: 105},
	{Name: "Strait of Hormuz", MinLat: 25, MaxLat: 28, MinLng: 55, MaxLng: 58},
	{Name: "Suez Approaches", MinLat: 29, MaxLat: 32.5, MinLng: 31, MaxLng: 34},
	{Name: "Panama Approaches", MinLat: 6, MaxLat: 10, MinLng: -81, MaxLng: -77},
	{Name: "Bosporus Approaches", MinLat: 40, MaxLat: 42, MinLng: 26, MaxLng: 30},
}

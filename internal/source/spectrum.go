// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package source

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tidewatch/fleetsync/internal/models"
)

// SpectrumAdapter consumes the Spectrum AIS provider. Spectrum returns a
// flat snake_case schema with positions encoded as strings and no stable
// integer ID; vessels are identified by IMO (preferred) or MMSI and keyed
// through merge-time identity resolution.
type SpectrumAdapter struct {
	baseURL    string
	apiKey     string
	priority   int
	interval   time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

// spectrumVessel is the provider's wire shape. Never leaves this file.
type spectrumVessel struct {
	ShipName    string `json:"ship_name"`
	ShipType    string `json:"ship_type"`
	IMONumber   string `json:"imo_number"`
	MMSI        string `json:"mmsi"`
	FlagState   string `json:"flag_state"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	SpeedKnots  string `json:"speed_knots"`
	CourseTrue  string `json:"course_true"`
	NavStatus   string `json:"nav_status"`
	Destination string `json:"destination"`
	ETAUtc      string `json:"eta_utc"` // RFC3339 or empty
}

// NewSpectrumAdapter creates the Spectrum AIS adapter.
func NewSpectrumAdapter(baseURL, apiKey string, priority int, interval time.Duration) *SpectrumAdapter {
	return &SpectrumAdapter{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiKey:   apiKey,
		priority: priority,
		interval: interval,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// Name implements Adapter.
func (a *SpectrumAdapter) Name() string { return "spectrum-ais" }

// Priority implements Adapter.
func (a *SpectrumAdapter) Priority() int { return a.priority }

// PollInterval implements Adapter.
func (a *SpectrumAdapter) PollInterval() time.Duration { return a.interval }

// FetchOnce fetches the provider's full position report and normalizes it.
// Rows that fail numeric parsing are skipped individually; a body that is
// not valid JSON fails the whole fetch.
func (a *SpectrumAdapter) FetchOnce(ctx context.Context) ([]models.VesselRecord, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("spectrum rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/v2/positions", nil)
	if err != nil {
		return nil, fmt.Errorf("spectrum build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spectrum request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spectrum returned status %d", resp.StatusCode)
	}

	var payload struct {
		Data []spectrumVessel `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("spectrum decode: %w", err)
	}

	records := make([]models.VesselRecord, 0, len(payload.Data))
	for _, sv := range payload.Data {
		records = append(records, normalizeSpectrum(sv))
	}
	return records, nil
}

// normalizeSpectrum maps one Spectrum row to the canonical shape.
// Unparseable optional fields are dropped, not fatal.
func normalizeSpectrum(sv spectrumVessel) models.VesselRecord {
	rec := models.VesselRecord{
		IMO:             sv.IMONumber,
		MMSI:            sv.MMSI,
		Name:            sv.ShipName,
		VesselType:      sv.ShipType,
		Flag:            sv.FlagState,
		Status:          sv.NavStatus,
		DestinationPort: sv.Destination,
	}

	if lat, ok := parseCoord(sv.Latitude); ok {
		if lng, ok := parseCoord(sv.Longitude); ok {
			rec.Lat, rec.Lng = &lat, &lng
		}
	}
	if speed, err := strconv.ParseFloat(sv.SpeedKnots, 64); err == nil {
		rec.Speed = &speed
	}
	if course, err := strconv.ParseFloat(sv.CourseTrue, 64); err == nil {
		rec.Course = &course
	}
	if sv.ETAUtc != "" {
		if eta, err := time.Parse(time.RFC3339, sv.ETAUtc); err == nil {
			rec.ETA = &eta
		}
	}
	return rec
}

func parseCoord(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

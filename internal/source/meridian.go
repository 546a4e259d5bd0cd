// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tidewatch/fleetsync/internal/models"
)

// MeridianAdapter consumes the Meridian Marine provider, the last-resort
// fallback. Meridian nests position and voyage data in sub-objects and
// uses Unix-second timestamps. Coverage is partial (tankers only), which
// is acceptable for a last resort: a partial fleet beats a stale one.
type MeridianAdapter struct {
	baseURL    string
	token      string
	priority   int
	interval   time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

// meridianShip is the provider's wire shape. Never leaves this file.
type meridianShip struct {
	ShipID   int64  `json:"shipId"`
	IMO      string `json:"imo"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Flag     string `json:"flag"`

	Position *struct {
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		SogKn   float64 `json:"sogKn"`
		CogDeg  float64 `json:"cogDeg"`
		AtEpoch int64   `json:"atEpoch"`
	} `json:"position"`

	Voyage *struct {
		From        string  `json:"from"`
		To          string  `json:"to"`
		DepEpoch    int64   `json:"depEpoch"`
		EtaEpoch    int64   `json:"etaEpoch"`
		Cargo       string  `json:"cargo"`
		CapacityDwt float64 `json:"capacityDwt"`
	} `json:"voyage"`
}

// NewMeridianAdapter creates the Meridian Marine adapter.
func NewMeridianAdapter(baseURL, token string, priority int, interval time.Duration) *MeridianAdapter {
	return &MeridianAdapter{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		token:    token,
		priority: priority,
		interval: interval,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(5*time.Second), 1),
	}
}

// Name implements Adapter.
func (a *MeridianAdapter) Name() string { return "meridian-marine" }

// Priority implements Adapter.
func (a *MeridianAdapter) Priority() int { return a.priority }

// PollInterval implements Adapter.
func (a *MeridianAdapter) PollInterval() time.Duration { return a.interval }

// FetchOnce fetches and normalizes Meridian's ship listing.
func (a *MeridianAdapter) FetchOnce(ctx context.Context) ([]models.VesselRecord, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("meridian rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/ships", nil)
	if err != nil {
		return nil, fmt.Errorf("meridian build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meridian request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("meridian returned status %d", resp.StatusCode)
	}

	var ships []meridianShip
	if err := json.NewDecoder(resp.Body).Decode(&ships); err != nil {
		return nil, fmt.Errorf("meridian decode: %w", err)
	}

	records := make([]models.VesselRecord, 0, len(ships))
	for _, ship := range ships {
		records = append(records, normalizeMeridian(ship))
	}
	return records, nil
}

// normalizeMeridian maps one Meridian ship to the canonical shape.
func normalizeMeridian(ship meridianShip) models.VesselRecord {
	rec := models.VesselRecord{
		ID:         ship.ShipID,
		IMO:        ship.IMO,
		Name:       ship.Name,
		VesselType: ship.Category,
		Flag:       ship.Flag,
	}

	if pos := ship.Position; pos != nil {
		lat, lng := pos.Lat, pos.Lon
		speed, course := pos.SogKn, pos.CogDeg
		rec.Lat, rec.Lng = &lat, &lng
		rec.Speed, rec.Course = &speed, &course
	}

	if voy := ship.Voyage; voy != nil {
		rec.DeparturePort = voy.From
		rec.DestinationPort = voy.To
		rec.CargoType = voy.Cargo
		if voy.CapacityDwt > 0 {
			capacity := voy.CapacityDwt
			rec.CargoCapacity = &capacity
		}
		if voy.DepEpoch > 0 {
			dep := time.Unix(voy.DepEpoch, 0).UTC()
			rec.DepartureTime = &dep
		}
		if voy.EtaEpoch > 0 {
			eta := time.Unix(voy.EtaEpoch, 0).UTC()
			rec.ETA = &eta
		}
	}
	return rec
}

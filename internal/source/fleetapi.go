// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tidewatch/fleetsync/internal/models"
)

// FleetAPIAdapter consumes the canonical vessel-listing endpoint. The
// endpoint historically returned a bare array and now returns a
// {"vessels": [...]} wrapper; both shapes are accepted.
type FleetAPIAdapter struct {
	baseURL    string
	priority   int
	interval   time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewFleetAPIAdapter creates the canonical REST adapter.
//
// Parameters:
//   - baseURL: vessel API base URL (e.g. http://fleet-api:8080)
//   - priority: failover rank assigned by configuration
//   - interval: polling cadence while this adapter is the fallback
func NewFleetAPIAdapter(baseURL string, priority int, interval time.Duration) *FleetAPIAdapter {
	return &FleetAPIAdapter{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		priority: priority,
		interval: interval,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// One request burst at the polling cadence; protects the
		// collaborator when TriggerSync is spammed.
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// Name implements Adapter.
func (a *FleetAPIAdapter) Name() string { return "fleet-api" }

// Priority implements Adapter.
func (a *FleetAPIAdapter) Priority() int { return a.priority }

// PollInterval implements Adapter.
func (a *FleetAPIAdapter) PollInterval() time.Duration { return a.interval }

// FetchOnce fetches and normalizes one full vessel listing.
func (a *FleetAPIAdapter) FetchOnce(ctx context.Context) ([]models.VesselRecord, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fleet-api rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/vessels", nil)
	if err != nil {
		return nil, fmt.Errorf("fleet-api build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fleet-api request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fleet-api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fleet-api read body: %w", err)
	}

	records, err := decodeVesselListing(body)
	if err != nil {
		return nil, fmt.Errorf("fleet-api decode: %w", err)
	}
	return records, nil
}

// decodeVesselListing accepts either {"vessels": [...]} or a bare array.
func decodeVesselListing(body []byte) ([]models.VesselRecord, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var records []models.VesselRecord
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var wrapper struct {
		Vessels []models.VesselRecord `json:"vessels"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Vessels, nil
}

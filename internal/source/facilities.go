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

	"github.com/tidewatch/fleetsync/internal/models"
)

// FacilityClient fetches port and refinery listings from the collaborator
// facility endpoints. Facilities change rarely, so the API layer caches
// responses briefly; this client stays a thin fetch-and-normalize.
type FacilityClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFacilityClient creates a facility client against the canonical API.
func NewFacilityClient(baseURL string) *FacilityClient {
	return &FacilityClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch retrieves all facilities of one kind. The endpoints share a shape;
// the kind discriminant is stamped on during normalization.
func (c *FacilityClient) Fetch(ctx context.Context, kind models.FacilityKind) ([]models.FacilityRecord, error) {
	var endpoint string
	switch kind {
	case models.FacilityPort:
		endpoint = "/api/ports"
	case models.FacilityRefinery:
		endpoint = "/api/refineries"
	default:
		return nil, fmt.Errorf("facility client: unknown kind %q", kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("facility build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facility request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facility endpoint %s returned status %d", endpoint, resp.StatusCode)
	}

	var records []models.FacilityRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("facility decode: %w", err)
	}
	for i := range records {
		records[i].Kind = kind
	}
	return records, nil
}

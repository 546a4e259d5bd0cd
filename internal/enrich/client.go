// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package enrich

import (
	"bytes"
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

// ProfileClient invokes the external generative completion provider that
// produces vessel profiles. The provider is asked for a JSON object; the
// completion text is parsed into EnrichedVesselProfile, and any non-JSON
// or malformed response is an error so the cache can degrade to its
// fallback.
type ProfileClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// profileRequest is the completion request body.
type profileRequest struct {
	VesselType string `json:"vesselType"`
	VesselName string `json:"vesselName"`
	Flag       string `json:"flag"`
	Region     string `json:"region"`
}

// profileResponse wraps the provider's completion text.
type profileResponse struct {
	Completion string `json:"completion"`
}

// NewProfileClient creates a client for the enrichment collaborator.
func NewProfileClient(endpoint, apiKey string) *ProfileClient {
	return &ProfileClient{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 45 * time.Second, // generative providers are slow
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

// ProducerFor returns a Producer bound to one vessel, suitable for
// Cache.GetOrCreate.
func (pc *ProfileClient) ProducerFor(vessel models.VesselRecord, region string) Producer {
	return func(ctx context.Context) (*models.EnrichedVesselProfile, error) {
		return pc.Generate(ctx, vessel, region)
	}
}

// Generate requests one profile from the provider.
func (pc *ProfileClient) Generate(ctx context.Context, vessel models.VesselRecord, region string) (*models.EnrichedVesselProfile, error) {
	if err := pc.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("enrichment rate limit wait: %w", err)
	}

	body, err := json.Marshal(profileRequest{
		VesselType: vessel.VesselType,
		VesselName: vessel.Name,
		Flag:       vessel.Flag,
		Region:     region,
	})
	if err != nil {
		return nil, fmt.Errorf("enrichment encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pc.endpoint+"/v1/complete", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("enrichment build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if pc.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+pc.apiKey)
	}

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enrichment request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("enrichment provider returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("enrichment read body: %w", err)
	}

	var wrapper profileResponse
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("enrichment decode envelope: %w", err)
	}

	profile, err := parseCompletion(wrapper.Completion)
	if err != nil {
		return nil, err
	}
	profile.GeneratedAt = time.Now()
	return profile, nil
}

// parseCompletion extracts the profile JSON from completion text. The
// provider usually returns bare JSON but sometimes wraps it in prose or
// code fences; the parser tolerates both and rejects anything else.
func parseCompletion(text string) (*models.EnrichedVesselProfile, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("enrichment completion is empty")
	}

	// Cut to the outermost JSON object when the completion carries prose
	// or fences around it.
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("enrichment completion contains no JSON object")
	}

	var profile models.EnrichedVesselProfile
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &profile); err != nil {
		return nil, fmt.Errorf("enrichment completion is malformed JSON: %w", err)
	}
	return &profile, nil
}

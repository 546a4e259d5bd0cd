// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks tag rules plus the cross-field rules tags cannot
// express.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// At least one vessel source must be enabled or the engine has
	// nothing to synchronize.
	if !cfg.Stream.Enabled && !cfg.FleetAPI.Enabled && !cfg.Spectrum.Enabled && !cfg.Meridian.Enabled {
		return fmt.Errorf("config validation: no vessel source enabled")
	}

	if cfg.Stream.Enabled && cfg.Stream.Endpoint == "" {
		return fmt.Errorf("config validation: stream enabled without endpoint")
	}
	if cfg.FleetAPI.Enabled && cfg.FleetAPI.URL == "" {
		return fmt.Errorf("config validation: fleet_api enabled without url")
	}
	if cfg.Spectrum.Enabled && cfg.Spectrum.URL == "" {
		return fmt.Errorf("config validation: spectrum enabled without url")
	}
	if cfg.Meridian.Enabled && cfg.Meridian.URL == "" {
		return fmt.Errorf("config validation: meridian enabled without url")
	}
	if cfg.Enrichment.Enabled && cfg.Enrichment.Endpoint == "" {
		return fmt.Errorf("config validation: enrichment enabled without endpoint")
	}

	if cfg.FleetAPI.Enabled && cfg.FleetAPI.PollInterval <= 0 {
		return fmt.Errorf("config validation: fleet_api poll_interval must be positive")
	}
	if cfg.Spectrum.Enabled && cfg.Spectrum.PollInterval <= 0 {
		return fmt.Errorf("config validation: spectrum poll_interval must be positive")
	}
	if cfg.Meridian.Enabled && cfg.Meridian.PollInterval <= 0 {
		return fmt.Errorf("config validation: meridian poll_interval must be positive")
	}
	if cfg.Failover.Freshness <= 0 {
		return fmt.Errorf("config validation: failover freshness must be positive")
	}

	return nil
}

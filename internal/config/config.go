// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

// Package config loads engine configuration: struct defaults, then an
// optional YAML file, then FLEETSYNC_-prefixed environment variables,
// last writer wins.
package config

import "time"

// Config is the full engine configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Stream     StreamConfig     `koanf:"stream"`
	FleetAPI   FleetAPIConfig   `koanf:"fleet_api"`
	Spectrum   SpectrumConfig   `koanf:"spectrum"`
	Meridian   MeridianConfig   `koanf:"meridian"`
	Failover   FailoverConfig   `koanf:"failover"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`
	API        APIConfig        `koanf:"api"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig configures the zerolog output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// StreamConfig configures the push position feed (priority 1).
type StreamConfig struct {
	Enabled              bool   `koanf:"enabled"`
	Endpoint             string `koanf:"endpoint" validate:"omitempty,url"`
	MaxReconnectAttempts int    `koanf:"max_reconnect_attempts" validate:"gte=0"`
}

// FleetAPIConfig configures the canonical vessel REST endpoint
// (priority 2, primary fallback, shortest poll interval).
type FleetAPIConfig struct {
	Enabled      bool          `koanf:"enabled"`
	URL          string        `koanf:"url" validate:"omitempty,url"`
	PollInterval time.Duration `koanf:"poll_interval"`
}

// SpectrumConfig configures the Spectrum AIS provider (priority 3).
type SpectrumConfig struct {
	Enabled      bool          `koanf:"enabled"`
	URL          string        `koanf:"url" validate:"omitempty,url"`
	APIKey       string        `koanf:"api_key"`
	PollInterval time.Duration `koanf:"poll_interval"`
}

// MeridianConfig configures the Meridian Marine provider (priority 4,
// last resort, longest poll interval).
type MeridianConfig struct {
	Enabled      bool          `koanf:"enabled"`
	URL          string        `koanf:"url" validate:"omitempty,url"`
	Token        string        `koanf:"token"`
	PollInterval time.Duration `koanf:"poll_interval"`
}

// FailoverConfig tunes source selection.
type FailoverConfig struct {
	// Freshness is how recently a source must have produced data to stay
	// eligible.
	Freshness time.Duration `koanf:"freshness"`
}

// EnrichmentConfig configures the generative profile provider.
type EnrichmentConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Endpoint string `koanf:"endpoint" validate:"omitempty,url"`
	APIKey   string `koanf:"api_key"`
}

// APIConfig configures the serving surface.
type APIConfig struct {
	DefaultPageSize int      `koanf:"default_page_size" validate:"gt=0"`
	RateLimitReqs   int      `koanf:"rate_limit_reqs" validate:"gt=0"`
	AllowedOrigins  []string `koanf:"allowed_origins"`
}

// defaultConfig returns every default; file and env layers override.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8583,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Stream: StreamConfig{
			Enabled:              false,
			Endpoint:             "",
			MaxReconnectAttempts: 10,
		},
		FleetAPI: FleetAPIConfig{
			Enabled:      true,
			URL:          "http://localhost:8080",
			PollInterval: 30 * time.Second,
		},
		Spectrum: SpectrumConfig{
			Enabled:      false,
			PollInterval: 60 * time.Second,
		},
		Meridian: MeridianConfig{
			Enabled:      false,
			PollInterval: 120 * time.Second,
		},
		Failover: FailoverConfig{
			Freshness: 5 * time.Minute,
		},
		Enrichment: EnrichmentConfig{
			Enabled: false,
		},
		API: APIConfig{
			DefaultPageSize: 100,
			RateLimitReqs:   100,
			AllowedOrigins:  []string{"*"},
		},
	}
}

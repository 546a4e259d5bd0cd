// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default configuration does not validate: %v", err)
	}
	if cfg.Server.Port != 8583 {
		t.Errorf("default port = %d, want 8583", cfg.Server.Port)
	}
	if cfg.API.DefaultPageSize != 100 {
		t.Errorf("default page size = %d, want 100", cfg.API.DefaultPageSize)
	}
}

func TestPollIntervalOrdering(t *testing.T) {
	// Fallback cadence grows with failover rank: the primary fallback
	// polls fastest, the last resort slowest.
	cfg := defaultConfig()
	if cfg.FleetAPI.PollInterval >= cfg.Spectrum.PollInterval {
		t.Error("fleet_api must poll faster than spectrum")
	}
	if cfg.Spectrum.PollInterval >= cfg.Meridian.PollInterval {
		t.Error("spectrum must poll faster than meridian")
	}
}

func TestEnvKeyTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FLEETSYNC_SERVER__PORT", "server.port"},
		{"FLEETSYNC_FLEET_API__POLL_INTERVAL", "fleet_api.poll_interval"},
		{"FLEETSYNC_LOGGING__LEVEL", "logging.level"},
	}
	for _, tt := range tests {
		if got := envKeyTransform(tt.in); got != tt.want {
			t.Errorf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadLayersFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9999
logging:
  level: debug
fleet_api:
  enabled: true
  url: http://fleet.internal:8080
  poll_interval: 15s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("FLEETSYNC_SERVER__PORT", "7777") // env wins over file

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("Port = %d, want env override 7777", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want file value debug", cfg.Logging.Level)
	}
	if cfg.FleetAPI.PollInterval != 15*time.Second {
		t.Errorf("PollInterval = %v, want 15s", cfg.FleetAPI.PollInterval)
	}
	if cfg.Failover.Freshness != 5*time.Minute {
		t.Errorf("Freshness = %v, want default 5m", cfg.Failover.Freshness)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no source enabled", func(c *Config) {
			c.Stream.Enabled = false
			c.FleetAPI.Enabled = false
			c.Spectrum.Enabled = false
			c.Meridian.Enabled = false
		}},
		{"stream without endpoint", func(c *Config) {
			c.Stream.Enabled = true
			c.Stream.Endpoint = ""
		}},
		{"spectrum without url", func(c *Config) {
			c.Spectrum.Enabled = true
			c.Spectrum.URL = ""
		}},
		{"zero poll interval", func(c *Config) {
			c.FleetAPI.PollInterval = 0
		}},
		{"negative freshness", func(c *Config) {
			c.Failover.Freshness = -time.Second
		}},
		{"port out of range", func(c *Config) {
			c.Server.Port = 70000
		}},
		{"bad log level", func(c *Config) {
			c.Logging.Level = "verbose"
		}},
		{"enrichment without endpoint", func(c *Config) {
			c.Enrichment.Enabled = true
			c.Enrichment.Endpoint = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

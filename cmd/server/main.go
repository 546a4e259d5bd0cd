// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

// Package main is the entry point for the fleetsync server.
//
// Fleetsync keeps a live, deduplicated picture of a vessel fleet by
// merging several tracking providers behind a priority failover chain
// and serving the result over REST and WebSocket.
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered loading (defaults, YAML, env)
//  2. Geographic filter: land denylist and water allowlist regions
//  3. Source adapters: push stream plus polled REST providers, each
//     REST provider wrapped in a circuit breaker
//  4. Failover coordinator: merges batches and publishes snapshots
//  5. WebSocket hub: pushes each published snapshot to the dashboard
//  6. HTTP server: fleet pages, vessel detail, facilities, health
//
// All long-running components run under a Suture supervisor tree with
// three layers (ingest, messaging, api) for failure isolation.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (FLEETSYNC_ prefix, __ for nesting)
//   - Config file (config.yaml, or FLEETSYNC_CONFIG_PATH)
//   - Built-in defaults
//
// At least one source must be enabled. Example standalone setup against
// the canonical fleet endpoint:
//
//	export FLEETSYNC_FLEET_API__ENABLED=true
//	export FLEETSYNC_FLEET_API__URL=http://fleet.example.com
//	./fleetsync
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP
// listener drains in-flight requests, pollers stop, and the stream
// socket closes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tidewatch/fleetsync/internal/api"
	"github.com/tidewatch/fleetsync/internal/config"
	"github.com/tidewatch/fleetsync/internal/enrich"
	"github.com/tidewatch/fleetsync/internal/failover"
	"github.com/tidewatch/fleetsync/internal/geo"
	"github.com/tidewatch/fleetsync/internal/logging"
	"github.com/tidewatch/fleetsync/internal/models"
	"github.com/tidewatch/fleetsync/internal/source"
	"github.com/tidewatch/fleetsync/internal/supervisor"
	ws "github.com/tidewatch/fleetsync/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Bool("stream", cfg.Stream.Enabled).
		Bool("fleet_api", cfg.FleetAPI.Enabled).
		Bool("spectrum", cfg.Spectrum.Enabled).
		Bool("meridian", cfg.Meridian.Enabled).
		Bool("enrichment", cfg.Enrichment.Enabled).
		Msg("Configuration loaded")

	filter := geo.NewFilter()

	// Adapter priority mirrors provider trust: the push stream first,
	// then REST providers in order of data quality.
	var adapters []source.Adapter
	var stream *source.StreamAdapter

	if cfg.Stream.Enabled {
		stream = source.NewStreamAdapter(cfg.Stream.Endpoint, 1, cfg.Stream.MaxReconnectAttempts)
		adapters = append(adapters, stream)
		logging.Info().Str("endpoint", cfg.Stream.Endpoint).Msg("Position stream enabled")
	}
	if cfg.FleetAPI.Enabled {
		adapters = append(adapters, source.NewBreakerAdapter(
			source.NewFleetAPIAdapter(cfg.FleetAPI.URL, 2, cfg.FleetAPI.PollInterval)))
		logging.Info().Str("url", cfg.FleetAPI.URL).Dur("interval", cfg.FleetAPI.PollInterval).Msg("Fleet API provider enabled")
	}
	if cfg.Spectrum.Enabled {
		adapters = append(adapters, source.NewBreakerAdapter(
			source.NewSpectrumAdapter(cfg.Spectrum.URL, cfg.Spectrum.APIKey, 3, cfg.Spectrum.PollInterval)))
		logging.Info().Str("url", cfg.Spectrum.URL).Dur("interval", cfg.Spectrum.PollInterval).Msg("Spectrum AIS provider enabled")
	}
	if cfg.Meridian.Enabled {
		adapters = append(adapters, source.NewBreakerAdapter(
			source.NewMeridianAdapter(cfg.Meridian.URL, cfg.Meridian.Token, 4, cfg.Meridian.PollInterval)))
		logging.Info().Str("url", cfg.Meridian.URL).Dur("interval", cfg.Meridian.PollInterval).Msg("Meridian Marine provider enabled")
	}

	coordinator := failover.NewCoordinator(adapters, stream, filter, failover.Config{
		Freshness: cfg.Failover.Freshness,
	})

	wsHub := ws.NewHub()
	coordinator.SetOnPublish(func(snap *models.FleetSnapshot) {
		wsHub.BroadcastJSON(ws.MessageTypeSnapshot, map[string]interface{}{
			"source":  snap.SourceLabel,
			"asOf":    snap.AsOf,
			"vessels": snap.Len(),
		})
	})

	var enricher api.Enricher
	if cfg.Enrichment.Enabled {
		client := enrich.NewProfileClient(cfg.Enrichment.Endpoint, cfg.Enrichment.APIKey)
		enricher = enrich.NewService(enrich.NewCache(), client, filter)
		logging.Info().Str("endpoint", cfg.Enrichment.Endpoint).Msg("Profile enrichment enabled")
	}

	// Facility listings come from the canonical fleet provider.
	var facilities api.FacilityFetcher
	if cfg.FleetAPI.Enabled {
		facilities = source.NewFacilityClient(cfg.FleetAPI.URL)
	}

	handler := api.NewHandler(coordinator, facilities, enricher, wsHub, filter, api.Config{
		DefaultPageSize: cfg.API.DefaultPageSize,
		RateLimitReqs:   cfg.API.RateLimitReqs,
		AllowedOrigins:  cfg.API.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler.Router(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if stream != nil {
		tree.AddIngestService(supervisor.NewLifecycleService("position-stream", stream))
	}
	tree.AddIngestService(supervisor.NewLifecycleService("failover-coordinator", coordinator))
	tree.AddMessagingService(supervisor.NewHubService(wsHub))
	tree.AddAPIService(supervisor.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

// Package metrics provides Prometheus instrumentation for the engine:
// source fetch outcomes, circuit breaker state, failover transitions,
// snapshot freshness, plausibility filtering, and enrichment cache
// efficiency.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Source adapter metrics.
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetsync_source_fetch_duration_seconds",
			Help:    "Duration of source adapter fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	SourceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetsync_source_fetches_total",
			Help: "Total source adapter fetch attempts by outcome",
		},
		[]string{"source", "outcome"}, // "success", "empty", "error"
	)

	SourceRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fleetsync_source_records",
			Help: "Records returned by the most recent fetch per source",
		},
		[]string{"source"},
	)

	StreamReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetsync_stream_reconnects_total",
			Help: "Total push-stream reconnect attempts",
		},
	)

	// Circuit breaker metrics.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fleetsync_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"source"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetsync_circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"source", "from", "to"},
	)

	// Failover coordinator metrics.
	FailoverTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetsync_failover_transitions_total",
			Help: "Total active-source changes",
		},
		[]string{"from", "to"},
	)

	ActiveSourcePriority = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetsync_active_source_priority",
			Help: "Priority rank of the active source (1 = highest, 0 = none)",
		},
	)

	SnapshotVessels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetsync_snapshot_vessels",
			Help: "Vessels in the current published snapshot",
		},
	)

	SnapshotAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetsync_snapshot_age_seconds",
			Help: "Age of the current published snapshot in seconds",
		},
	)

	SnapshotStale = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetsync_snapshot_stale",
			Help: "1 when all sources are failed and the last-known-good snapshot is being served",
		},
	)

	// Plausibility filter metrics.
	PlausibilityRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetsync_plausibility_rejections_total",
			Help: "Coordinates rejected by the plausibility filter",
		},
		[]string{"reason"}, // "out_of_range", "land", "unclassified"
	)

	// Enrichment cache metrics.
	EnrichmentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetsync_enrichment_requests_total",
			Help: "Enrichment cache requests by outcome",
		},
		[]string{"outcome"}, // "hit", "produced", "fallback"
	)

	EnrichmentProfiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetsync_enrichment_profiles",
			Help: "Profiles currently held by the enrichment cache",
		},
	)

	// HTTP API metrics.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetsync_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetsync_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetsync_http_active_requests",
			Help: "HTTP requests currently being served",
		},
	)

	// Dashboard WebSocket metrics.
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetsync_websocket_clients",
			Help: "Connected dashboard WebSocket clients",
		},
	)
)

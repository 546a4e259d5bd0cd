// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

// Package api exposes the engine over HTTP: the paged fleet, per-vessel
// detail with lazy enrichment, facilities, source health, and the
// dashboard WebSocket.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tidewatch/fleetsync/internal/geo"
	mw "github.com/tidewatch/fleetsync/internal/middleware"
	"github.com/tidewatch/fleetsync/internal/models"
	ws "github.com/tidewatch/fleetsync/internal/websocket"
)

// FleetSource is the coordinator surface the API consumes.
type FleetSource interface {
	Snapshot() *models.FleetSnapshot
	Stale() bool
	Active() string
	Health() []models.SourceHealth
	TriggerSync(ctx context.Context)
}

// FacilityFetcher fetches port/refinery listings.
type FacilityFetcher interface {
	Fetch(ctx context.Context, kind models.FacilityKind) ([]models.FacilityRecord, error)
}

// Enricher produces (or serves cached) vessel profiles.
type Enricher interface {
	ProfileFor(ctx context.Context, vessel models.VesselRecord) *models.EnrichedVesselProfile
}

// Config tunes the router.
type Config struct {
	DefaultPageSize int
	RateLimitReqs   int
	AllowedOrigins  []string
}

// Handler bundles the API dependencies.
type Handler struct {
	fleet      FleetSource
	facilities FacilityFetcher
	enricher   Enricher // nil when enrichment is disabled
	hub        *ws.Hub
	filter     *geo.Filter
	cfg        Config

	facilityCache facilityCache
}

// NewHandler wires the API against its collaborators. enricher may be nil.
func NewHandler(fleet FleetSource, facilities FacilityFetcher, enricher Enricher, hub *ws.Hub, filter *geo.Filter, cfg Config) *Handler {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 100
	}
	if cfg.RateLimitReqs <= 0 {
		cfg.RateLimitReqs = 100
	}
	return &Handler{
		fleet:      fleet,
		facilities: facilities,
		enricher:   enricher,
		hub:        hub,
		filter:     filter,
		cfg:        cfg,
	}
}

// Router builds the chi router with the standard middleware chain.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(mw.Metrics)
	r.Use(httprate.LimitByIP(h.cfg.RateLimitReqs, time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/fleet", h.handleFleet)
		r.Get("/vessels/{id}", h.handleVessel)
		r.Get("/facilities", h.handleFacilities)
		r.Get("/sources", h.handleSources)
		r.Post("/sync", h.handleTriggerSync)
	})

	r.Get("/healthz", h.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	if h.hub != nil {
		r.Get("/ws", h.handleWebSocket)
	}

	return r
}

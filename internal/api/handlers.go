// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tidewatch/fleetsync/internal/fleet"
	"github.com/tidewatch/fleetsync/internal/logging"
	"github.com/tidewatch/fleetsync/internal/models"
	ws "github.com/tidewatch/fleetsync/internal/websocket"
)

const facilityCacheTTL = 60 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is enforced by the CORS middleware on the REST
	// surface; the socket accepts any origin the dashboard presents.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// vesselView is a vessel record annotated with its derived state.
type vesselView struct {
	models.VesselRecord
	Motion string `json:"motion"`
	Voyage string `json:"voyage"`
	Region string `json:"region"`
}

type fleetResponse struct {
	Source     string       `json:"source"`
	AsOf       time.Time    `json:"asOf"`
	Stale      bool         `json:"stale"`
	Items      []vesselView `json:"items"`
	Page       int          `json:"page"`
	PageSize   int          `json:"pageSize"`
	TotalCount int          `json:"totalCount"`
	TotalPages int          `json:"totalPages"`
}

type vesselResponse struct {
	vesselView
	Profile *models.EnrichedVesselProfile `json:"profile,omitempty"`
}

type sourcesResponse struct {
	Active  string                `json:"active"`
	Stale   bool                  `json:"stale"`
	Sources []models.SourceHealth `json:"sources"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) view(rec models.VesselRecord, now time.Time) vesselView {
	return vesselView{
		VesselRecord: rec,
		Motion:       string(fleet.ResolveMotion(rec)),
		Voyage:       string(fleet.ResolveVoyage(rec, now)),
		Region:       fleet.ResolveRegion(rec, h.filter),
	}
}

func (h *Handler) handleFleet(w http.ResponseWriter, r *http.Request) {
	pageSize := h.cfg.DefaultPageSize
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "pageSize must be an integer")
			return
		}
		pageSize = fleet.ClampPageSize(n)
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = n
	}

	snap := h.fleet.Snapshot()
	result := fleet.Page(snap, page, pageSize)

	now := time.Now().UTC()
	items := make([]vesselView, 0, len(result.Items))
	for _, rec := range result.Items {
		items = append(items, h.view(rec, now))
	}

	resp := fleetResponse{
		Source:     h.fleet.Active(),
		Stale:      h.fleet.Stale(),
		Items:      items,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
	}
	if snap != nil {
		resp.AsOf = snap.AsOf
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleVessel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "vessel id must be an integer")
		return
	}

	snap := h.fleet.Snapshot()
	if snap == nil {
		writeError(w, http.StatusNotFound, "vessel not found")
		return
	}
	rec, ok := snap.Vessels[id]
	if !ok {
		writeError(w, http.StatusNotFound, "vessel not found")
		return
	}

	resp := vesselResponse{vesselView: h.view(rec, time.Now().UTC())}
	if h.enricher != nil {
		resp.Profile = h.enricher.ProfileFor(r.Context(), rec)
	}
	writeJSON(w, http.StatusOK, resp)
}

// facilityCache holds the last good listing per facility kind. Port and
// refinery sets change rarely, so a short TTL keeps the upstream quiet.
type facilityCache struct {
	mu      sync.Mutex
	entries map[models.FacilityKind]facilityEntry
}

type facilityEntry struct {
	records   []models.FacilityRecord
	fetchedAt time.Time
}

func (h *Handler) handleFacilities(w http.ResponseWriter, r *http.Request) {
	kind := models.FacilityKind(r.URL.Query().Get("kind"))
	switch kind {
	case models.FacilityPort, models.FacilityRefinery:
	case "":
		kind = models.FacilityPort
	default:
		writeError(w, http.StatusBadRequest, "kind must be port or refinery")
		return
	}

	if h.facilities == nil {
		writeJSON(w, http.StatusOK, []models.FacilityRecord{})
		return
	}

	h.facilityCache.mu.Lock()
	if h.facilityCache.entries == nil {
		h.facilityCache.entries = make(map[models.FacilityKind]facilityEntry)
	}
	entry, ok := h.facilityCache.entries[kind]
	h.facilityCache.mu.Unlock()

	if ok && time.Since(entry.fetchedAt) < facilityCacheTTL {
		writeJSON(w, http.StatusOK, entry.records)
		return
	}

	records, err := h.facilities.Fetch(r.Context(), kind)
	if err != nil {
		logging.Warn().Err(err).Str("kind", string(kind)).Msg("Facility fetch failed")
		if ok {
			// Serve the expired listing rather than an error.
			writeJSON(w, http.StatusOK, entry.records)
			return
		}
		writeError(w, http.StatusBadGateway, "facility provider unavailable")
		return
	}

	h.facilityCache.mu.Lock()
	h.facilityCache.entries[kind] = facilityEntry{records: records, fetchedAt: time.Now()}
	h.facilityCache.mu.Unlock()

	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sourcesResponse{
		Active:  h.fleet.Active(),
		Stale:   h.fleet.Stale(),
		Sources: h.fleet.Health(),
	})
}

func (h *Handler) handleTriggerSync(w http.ResponseWriter, r *http.Request) {
	h.fleet.TriggerSync(r.Context())
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.fleet.Stale() {
		status = "stale"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": status,
		"source": h.fleet.Active(),
	})
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	client := ws.NewClient(h.hub, conn)
	client.Start()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

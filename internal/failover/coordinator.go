// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package failover

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tidewatch/fleetsync/internal/fleet"
	"github.com/tidewatch/fleetsync/internal/geo"
	"github.com/tidewatch/fleetsync/internal/logging"
	"github.com/tidewatch/fleetsync/internal/metrics"
	"github.com/tidewatch/fleetsync/internal/models"
	"github.com/tidewatch/fleetsync/internal/source"
)

// ErrNoActiveSource is reported through health queries while every adapter
// is failed; the published snapshot is the last known good one, stale.
var ErrNoActiveSource = errors.New("failover: no active source")

// degradedFailureLimit is how many consecutive failures an adapter with
// otherwise-fresh data may accumulate before it is marked failed rather
// than degraded.
const degradedFailureLimit = 3

// Config tunes the coordinator.
type Config struct {
	// Freshness is how recently an adapter must have produced a non-empty
	// result to be eligible for selection.
	Freshness time.Duration
}

// fetchResult is one adapter delivery: a batch, or a failure.
type fetchResult struct {
	sourceName string
	records    []models.VesselRecord
	err        error
	at         time.Time
}

// inboxEntry is the latest successful non-empty batch for one adapter.
type inboxEntry struct {
	records []models.VesselRecord
	at      time.Time
}

// Coordinator owns the ordered adapter list, the per-adapter health, and
// the current snapshot. All state mutation happens on the run loop
// goroutine; the mutex exists only so readers on other goroutines get a
// consistent view.
type Coordinator struct {
	adapters []source.Adapter // sorted by priority, 1 first
	stream   *source.StreamAdapter
	filter   *geo.Filter
	cfg      Config

	mu      sync.RWMutex
	current *models.FleetSnapshot
	stale   bool
	active  string
	health  map[string]*models.SourceHealth

	inbox map[string]inboxEntry // run-loop-only, no lock needed

	results   chan fetchResult
	stopChan  chan struct{}
	wg        sync.WaitGroup
	running   bool
	runMu     sync.Mutex
	onPublish func(*models.FleetSnapshot)

	// now is injectable for deterministic tests.
	now func() time.Time
}

// NewCoordinator creates a coordinator over the given adapters. The
// stream adapter, when present in adapters, must also be passed as stream
// so its push deliveries and permanent-failure reports can be wired in.
func NewCoordinator(adapters []source.Adapter, stream *source.StreamAdapter, filter *geo.Filter, cfg Config) *Coordinator {
	if cfg.Freshness <= 0 {
		cfg.Freshness = 5 * time.Minute
	}

	sorted := make([]source.Adapter, len(adapters))
	copy(sorted, adapters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})

	c := &Coordinator{
		adapters: sorted,
		stream:   stream,
		filter:   filter,
		cfg:      cfg,
		health:   make(map[string]*models.SourceHealth, len(sorted)),
		inbox:    make(map[string]inboxEntry, len(sorted)),
		results:  make(chan fetchResult, 16),
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
	for _, a := range sorted {
		c.health[a.Name()] = &models.SourceHealth{
			Source: a.Name(),
			State:  models.SourceFailed, // unproven until first success
		}
	}
	return c
}

// SetOnPublish registers a callback invoked after every snapshot
// publication, on the run loop goroutine. Used by the dashboard hub.
func (c *Coordinator) SetOnPublish(fn func(*models.FleetSnapshot)) {
	c.onPublish = fn
}

// Start launches the run loop and one poller per timer-driven adapter,
// and wires the stream adapter's push delivery.
func (c *Coordinator) Start(ctx context.Context) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.running {
		return fmt.Errorf("failover coordinator is already running")
	}
	c.running = true
	// Fresh channel so a supervised restart after Stop works.
	c.stopChan = make(chan struct{})

	logging.Info().Int("adapters", len(c.adapters)).Dur("freshness", c.cfg.Freshness).Msg("starting failover coordinator")

	if c.stream != nil {
		c.stream.SetHandlers(
			func(batch []models.VesselRecord) {
				c.deliver(fetchResult{sourceName: c.stream.Name(), records: batch, at: c.now()})
			},
			func(err error) {
				c.deliver(fetchResult{sourceName: c.stream.Name(), err: err, at: c.now()})
			},
		)
	}

	c.wg.Add(1)
	go c.run()

	for _, a := range c.adapters {
		if a.PollInterval() <= 0 {
			continue // push-driven
		}
		c.wg.Add(1)
		go c.pollLoop(ctx, a)
	}
	return nil
}

// Stop shuts down pollers and the run loop.
func (c *Coordinator) Stop() error {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if !c.running {
		return fmt.Errorf("failover coordinator is not running")
	}
	c.running = false

	close(c.stopChan)
	c.wg.Wait()
	logging.Info().Msg("failover coordinator stopped")
	return nil
}

// TriggerSync forces an immediate fetch of every timer-driven adapter.
// Deliveries flow through the normal selection path. The fetches outlive
// the caller's context: a sync forced from an HTTP handler must not be
// canceled (and charged against source health) the moment the handler
// writes its response.
func (c *Coordinator) TriggerSync(ctx context.Context) {
	fetchCtx := context.WithoutCancel(ctx)
	for _, a := range c.adapters {
		if a.PollInterval() <= 0 {
			continue
		}
		adapter := a
		go func() {
			c.deliver(c.fetch(fetchCtx, adapter))
		}()
	}
}

// Snapshot returns the current published snapshot; nil before the first
// successful cycle. The returned snapshot is immutable.
func (c *Coordinator) Snapshot() *models.FleetSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Stale reports whether every source is failed and the snapshot is the
// retained last known good.
func (c *Coordinator) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

// Active returns the name of the active source, or "" when none.
func (c *Coordinator) Active() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Health returns a copy of every adapter's health, in priority order.
func (c *Coordinator) Health() []models.SourceHealth {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.SourceHealth, 0, len(c.adapters))
	for _, a := range c.adapters {
		out = append(out, *c.health[a.Name()])
	}
	return out
}

// deliver hands a result to the run loop without blocking forever on
// shutdown.
func (c *Coordinator) deliver(res fetchResult) {
	select {
	case c.results <- res:
	case <-c.stopChan:
	}
}

// run is the single goroutine that mutates coordinator state.
func (c *Coordinator) run() {
	defer c.wg.Done()
	for {
		select {
		case res := <-c.results:
			c.handleResult(res)
		case <-c.stopChan:
			return
		}
	}
}

// pollLoop fetches one timer-driven adapter at its own cadence. The first
// fetch is immediate so startup does not wait a full interval.
func (c *Coordinator) pollLoop(ctx context.Context, a source.Adapter) {
	defer c.wg.Done()

	c.deliver(c.fetch(ctx, a))

	ticker := time.NewTicker(a.PollInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.deliver(c.fetch(ctx, a))
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		}
	}
}

// fetch runs one instrumented FetchOnce.
func (c *Coordinator) fetch(ctx context.Context, a source.Adapter) fetchResult {
	start := c.now()
	records, err := a.FetchOnce(ctx)
	elapsed := time.Since(start)

	metrics.SourceFetchDuration.WithLabelValues(a.Name()).Observe(elapsed.Seconds())
	switch {
	case err != nil:
		metrics.SourceFetches.WithLabelValues(a.Name(), "error").Inc()
	case len(records) == 0:
		metrics.SourceFetches.WithLabelValues(a.Name(), "empty").Inc()
	default:
		metrics.SourceFetches.WithLabelValues(a.Name(), "success").Inc()
		metrics.SourceRecords.WithLabelValues(a.Name()).Set(float64(len(records)))
	}

	return fetchResult{sourceName: a.Name(), records: records, err: err, at: c.now()}
}

// handleResult applies one delivery: health transition, inbox update,
// then re-selection. Runs on the run loop goroutine only.
func (c *Coordinator) handleResult(res fetchResult) {
	h := c.health[res.sourceName]
	if h == nil {
		return // not one of ours
	}

	c.mu.Lock()
	if res.err == nil && len(res.records) > 0 {
		// Recovery trigger: any successful non-empty response.
		h.State = models.SourceConnected
		h.LastSuccessAt = res.at
		h.ConsecutiveFailures = 0
		c.inbox[res.sourceName] = inboxEntry{records: res.records, at: res.at}
	} else {
		// Request error and empty/malformed response are the same
		// failover signal at this boundary.
		h.ConsecutiveFailures++
		if h.ConsecutiveFailures < degradedFailureLimit && h.FreshWithin(c.cfg.Freshness, c.now()) {
			h.State = models.SourceDegraded
		} else {
			h.State = models.SourceFailed
		}
		if res.err != nil {
			logging.Warn().Err(res.err).Str("source", res.sourceName).Int("consecutive_failures", h.ConsecutiveFailures).Str("state", string(h.State)).Msg("source fetch failed")
		} else {
			logging.Warn().Str("source", res.sourceName).Str("state", string(h.State)).Msg("source returned empty batch")
		}
	}
	c.mu.Unlock()

	c.selectAndPublish()
}

// selectAndPublish picks the highest-priority eligible adapter and, when
// one qualifies, runs the merge-filter-resolve pipeline to completion and
// replaces the published snapshot. With no eligible adapter the last
// snapshot is retained and flagged stale.
func (c *Coordinator) selectAndPublish() {
	now := c.now()

	var selected source.Adapter
	var selectedRank int
	var entry inboxEntry
	for rank, a := range c.adapters {
		c.mu.RLock()
		h := c.health[a.Name()]
		eligible := h.State != models.SourceFailed && h.FreshWithin(c.cfg.Freshness, now)
		c.mu.RUnlock()
		if !eligible {
			continue
		}
		e, ok := c.inbox[a.Name()]
		if !ok || len(e.records) == 0 || now.Sub(e.at) > c.cfg.Freshness {
			continue
		}
		selected, selectedRank, entry = a, rank+1, e
		break
	}

	if selected == nil {
		c.mu.Lock()
		if !c.stale {
			logging.Warn().Msg("all sources failed; retaining last-known-good snapshot")
		}
		c.stale = true
		c.active = ""
		c.mu.Unlock()
		metrics.SnapshotStale.Set(1)
		metrics.ActiveSourcePriority.Set(0)
		return
	}

	// Full pipeline before publication: merge, filter, resolve. Readers
	// mid-cycle keep the previous complete snapshot.
	previous := c.Snapshot()
	merged := fleet.Merge(previous, entry.records, selected.Name(), entry.at)
	filtered := fleet.FilterPlausible(merged, c.filter)
	resolveGaps(filtered)

	c.mu.Lock()
	prevActive := c.active
	c.current = filtered
	c.active = selected.Name()
	c.stale = false
	c.mu.Unlock()

	if prevActive != selected.Name() {
		metrics.FailoverTransitions.WithLabelValues(orNone(prevActive), selected.Name()).Inc()
		logging.Info().Str("from", orNone(prevActive)).Str("to", selected.Name()).Int("priority", selectedRank).Msg("active source changed")
	}

	metrics.SnapshotStale.Set(0)
	metrics.ActiveSourcePriority.Set(float64(selectedRank))
	metrics.SnapshotVessels.Set(float64(filtered.Len()))
	metrics.SnapshotAge.Set(now.Sub(filtered.AsOf).Seconds())

	if c.onPublish != nil {
		c.onPublish(filtered)
	}
}

// resolveGaps fills derived fields the upstream omitted. Runs on the
// not-yet-published snapshot, so this is not in-place mutation of shared
// state.
func resolveGaps(snapshot *models.FleetSnapshot) {
	for id, v := range snapshot.Vessels {
		if v.Status == "" {
			v.Status = string(fleet.ResolveMotion(v))
			snapshot.Vessels[id] = v
		}
	}
}

func orNone(name string) string {
	if name == "" {
		return "none"
	}
	return name
}

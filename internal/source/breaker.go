// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package source

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tidewatch/fleetsync/internal/logging"
	"github.com/tidewatch/fleetsync/internal/metrics"
	"github.com/tidewatch/fleetsync/internal/models"
)

// BreakerAdapter wraps a REST adapter with a circuit breaker so a provider
// that is down or slow is backed off instead of polled at full cadence.
//
// The breaker uses real time for its interval and timeout; tests exercise
// the wrapped adapter directly.
type BreakerAdapter struct {
	inner Adapter
	cb    *gobreaker.CircuitBreaker[[]models.VesselRecord]
}

// NewBreakerAdapter wraps adapter with a circuit breaker. Configuration:
// opens after a 60% failure rate with at least 5 requests in a 1 minute
// window, allows 2 trial requests half-open, and waits 2 minutes before
// trialing.
func NewBreakerAdapter(inner Adapter) *BreakerAdapter {
	name := inner.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]models.VesselRecord](gobreaker.Settings{
		Name:        name,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := breakerStateString(from), breakerStateString(to)
			logging.Info().Str("source", name).Str("from", fromStr).Str("to", toStr).Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerAdapter{inner: inner, cb: cb}
}

// Name implements Adapter.
func (b *BreakerAdapter) Name() string { return b.inner.Name() }

// Priority implements Adapter.
func (b *BreakerAdapter) Priority() int { return b.inner.Priority() }

// PollInterval implements Adapter.
func (b *BreakerAdapter) PollInterval() time.Duration { return b.inner.PollInterval() }

// FetchOnce executes the wrapped fetch under the breaker. An open circuit
// surfaces as an ordinary fetch error; the coordinator treats it like any
// other source failure.
func (b *BreakerAdapter) FetchOnce(ctx context.Context) ([]models.VesselRecord, error) {
	return b.cb.Execute(func() ([]models.VesselRecord, error) {
		return b.inner.FetchOnce(ctx)
	})
}

func breakerStateFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func breakerStateString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package source

import (
	"context"
	"errors"
	"time"

	"github.com/tidewatch/fleetsync/internal/models"
)

// Adapter is one upstream vessel-data provider normalized to the canonical
// record shape.
//
// FetchOnce performs a single fetch-and-normalize. It must not panic past
// its boundary: any transport or schema failure is returned as an error
// with a nil slice, and an empty (but successful) response is returned as
// an empty slice so the coordinator can treat it as a failover signal.
type Adapter interface {
	// Name is the stable label used in health reports, snapshot
	// attribution, logs, and metrics.
	Name() string

	// Priority is the failover rank; 1 is highest.
	Priority() int

	// PollInterval is the adapter's own polling cadence. Zero means
	// push-driven: no timer, the adapter delivers on its own events.
	PollInterval() time.Duration

	// FetchOnce fetches and normalizes one batch.
	FetchOnce(ctx context.Context) ([]models.VesselRecord, error)
}

// ConnectionState describes the push adapter's socket.
type ConnectionState string

const (
	StateConnecting ConnectionState = "connecting"
	StateOpen       ConnectionState = "open"
	StateClosed     ConnectionState = "closed"
)

// ErrReconnectExhausted is reported by the push adapter once its capped
// reconnect attempts are spent; the coordinator then relies on the REST
// adapters alone.
var ErrReconnectExhausted = errors.New("source: stream reconnect attempts exhausted")

// ErrNotConnected is returned by the push adapter's FetchOnce while the
// socket is down and no buffered batch exists.
var ErrNotConnected = errors.New("source: stream not connected")

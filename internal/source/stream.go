// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package source

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tidewatch/fleetsync/internal/logging"
	"github.com/tidewatch/fleetsync/internal/metrics"
	"github.com/tidewatch/fleetsync/internal/models"
)

const (
	streamHandshakeTimeout   = 10 * time.Second
	streamReadDeadline       = 60 * time.Second
	streamInitialBackoff     = 1 * time.Second
	streamMaxBackoff         = 32 * time.Second
	defaultReconnectAttempts = 10
)

// streamMessage is the push feed's wire shape. "full" batches replace the
// buffered fleet; "delta" batches patch it. Reconnection uses the same
// logical handshake as a fresh subscribe, and the server answers a new
// subscriber with a full batch, so the buffer is always coherent after a
// reconnect.
type streamMessage struct {
	Type    string                `json:"type"` // "full" or "delta"
	Vessels []models.VesselRecord `json:"vessels"`
}

// StreamAdapter is the push-channel source: a WebSocket subscription
// delivering vessel-position batches. Highest priority in the failover
// order because it is the freshest feed.
//
// The adapter buffers the latest coherent fleet view; FetchOnce returns a
// copy of that buffer. Each processed message also triggers the OnBatch
// handler so the coordinator can run a sync cycle without polling.
//
// Reconnects use exponential backoff (1s doubling to 32s) and are capped;
// when the cap is exhausted the adapter reports ErrReconnectExhausted
// through OnDown and stays closed until restarted.
type StreamAdapter struct {
	endpoint    string
	priority    int
	maxAttempts int

	conn   *websocket.Conn
	connMu sync.RWMutex
	state  ConnectionState

	bufMu  sync.RWMutex
	buffer map[string]models.VesselRecord
	hasBuf bool

	onBatch func([]models.VesselRecord)
	onDown  func(error)

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewStreamAdapter creates the push adapter. maxReconnectAttempts <= 0
// selects the default cap.
func NewStreamAdapter(endpoint string, priority int, maxReconnectAttempts int) *StreamAdapter {
	if maxReconnectAttempts <= 0 {
		maxReconnectAttempts = defaultReconnectAttempts
	}
	return &StreamAdapter{
		endpoint:    endpoint,
		priority:    priority,
		maxAttempts: maxReconnectAttempts,
		state:       StateClosed,
		buffer:      make(map[string]models.VesselRecord),
		stopChan:    make(chan struct{}),
	}
}

// SetHandlers registers the coordinator callbacks. Must be called before
// Start.
func (a *StreamAdapter) SetHandlers(onBatch func([]models.VesselRecord), onDown func(error)) {
	a.onBatch = onBatch
	a.onDown = onDown
}

// Name implements Adapter.
func (a *StreamAdapter) Name() string { return "position-stream" }

// Priority implements Adapter.
func (a *StreamAdapter) Priority() int { return a.priority }

// PollInterval implements Adapter. Zero: push-driven, no timer.
func (a *StreamAdapter) PollInterval() time.Duration { return 0 }

// ConnectionState returns the socket state.
func (a *StreamAdapter) ConnectionState() ConnectionState {
	a.connMu.RLock()
	defer a.connMu.RUnlock()
	return a.state
}

// FetchOnce returns a copy of the buffered fleet view. It never performs
// network I/O; the socket owns delivery. Returns ErrNotConnected when the
// socket is down and nothing has been buffered yet.
func (a *StreamAdapter) FetchOnce(_ context.Context) ([]models.VesselRecord, error) {
	a.bufMu.RLock()
	defer a.bufMu.RUnlock()
	if !a.hasBuf {
		return nil, ErrNotConnected
	}
	out := make([]models.VesselRecord, 0, len(a.buffer))
	for _, v := range a.buffer {
		out = append(out, v)
	}
	return out, nil
}

// Start connects and launches the listen loop. Non-blocking; reconnects
// are handled inside the loop.
func (a *StreamAdapter) Start(ctx context.Context) error {
	// Fresh stop state so a supervised restart after Stop works.
	a.stopChan = make(chan struct{})
	a.stopOnce = sync.Once{}
	if err := a.connect(ctx); err != nil {
		// First connect failing is not fatal: the listen loop retries
		// under the same cap.
		logging.Warn().Err(err).Msg("stream initial connect failed, will retry")
	}
	a.wg.Add(1)
	go a.listen(ctx)
	return nil
}

// Stop closes the socket and waits for the listen loop to exit.
func (a *StreamAdapter) Stop() error {
	a.stopOnce.Do(func() { close(a.stopChan) })
	a.closeConnection()
	a.wg.Wait()
	return nil
}

// connect dials the subscription endpoint. A fresh dial is a fresh
// subscribe; the server responds with a full batch.
func (a *StreamAdapter) connect(ctx context.Context) error {
	a.connMu.Lock()
	defer a.connMu.Unlock()

	if a.conn != nil {
		return nil
	}
	a.state = StateConnecting

	wsURL, err := buildStreamURL(a.endpoint)
	if err != nil {
		a.state = StateClosed
		return fmt.Errorf("stream build url: %w", err)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout:  streamHandshakeTimeout,
		EnableCompression: true,
	}
	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		a.state = StateClosed
		if resp != nil {
			return fmt.Errorf("stream dial failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("stream dial: %w", err)
	}

	a.conn = conn
	a.state = StateOpen
	logging.Info().Str("endpoint", a.endpoint).Msg("position stream connected")
	return nil
}

// buildStreamURL converts an http(s) endpoint to its ws(s) form.
func buildStreamURL(endpoint string) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	}
	return parsed.String(), nil
}

// listen reads messages until stopped, reconnecting with capped
// exponential backoff on connection loss.
func (a *StreamAdapter) listen(ctx context.Context) {
	defer a.wg.Done()

	backoff := streamInitialBackoff
	attempts := 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.stopChan:
			return
		default:
		}

		a.connMu.RLock()
		conn := a.conn
		a.connMu.RUnlock()

		if conn == nil {
			if attempts >= a.maxAttempts {
				logging.Error().Int("attempts", attempts).Msg("position stream reconnect cap exhausted")
				a.connMu.Lock()
				a.state = StateClosed
				a.connMu.Unlock()
				if a.onDown != nil {
					a.onDown(ErrReconnectExhausted)
				}
				return
			}

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			case <-a.stopChan:
				return
			}

			backoff *= 2
			if backoff > streamMaxBackoff {
				backoff = streamMaxBackoff
			}
			attempts++
			metrics.StreamReconnects.Inc()

			if err := a.connect(ctx); err != nil {
				logging.Warn().Err(err).Int("attempt", attempts).Msg("position stream reconnect failed")
				continue
			}
			backoff = streamInitialBackoff
			continue
		}

		if err := conn.SetReadDeadline(time.Now().Add(streamReadDeadline)); err != nil {
			logging.Warn().Err(err).Msg("position stream: failed to set read deadline")
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-a.stopChan:
				return
			default:
			}
			logging.Warn().Err(err).Msg("position stream read error, reconnecting")
			a.closeConnection()
			continue
		}

		// A delivered message proves the subscription is healthy again.
		attempts = 0
		backoff = streamInitialBackoff

		a.handleMessage(message)
	}
}

// handleMessage applies one batch to the buffer and notifies the
// coordinator with the resulting coherent fleet view. Malformed messages
// are dropped; the subscription stays up.
func (a *StreamAdapter) handleMessage(data []byte) {
	var msg streamMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logging.Warn().Err(err).Msg("position stream: malformed message dropped")
		return
	}

	a.bufMu.Lock()
	if msg.Type == "full" {
		a.buffer = make(map[string]models.VesselRecord, len(msg.Vessels))
	}
	for _, v := range msg.Vessels {
		a.buffer[streamKey(v)] = v
	}
	a.hasBuf = true
	batch := make([]models.VesselRecord, 0, len(a.buffer))
	for _, v := range a.buffer {
		batch = append(batch, v)
	}
	a.bufMu.Unlock()

	if a.onBatch != nil {
		a.onBatch(batch)
	}
}

// streamKey is the buffer key: the strongest identity the record carries.
func streamKey(v models.VesselRecord) string {
	switch {
	case v.ID != 0:
		return fmt.Sprintf("id:%d", v.ID)
	case v.IMO != "":
		return "imo:" + v.IMO
	case v.MMSI != "":
		return "mmsi:" + v.MMSI
	default:
		return "name:" + v.Name
	}
}

func (a *StreamAdapter) closeConnection() {
	a.connMu.Lock()
	defer a.connMu.Unlock()
	if a.conn != nil {
		_ = a.conn.Close()
		a.conn = nil
	}
	if a.state != StateClosed {
		a.state = StateClosed
	}
}

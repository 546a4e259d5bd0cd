// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tidewatch/fleetsync/internal/models"
)

func TestBuildStreamURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://feed.example.com/stream", "ws://feed.example.com/stream"},
		{"https://feed.example.com/stream", "wss://feed.example.com/stream"},
		{"ws://feed.example.com/stream", "ws://feed.example.com/stream"},
	}
	for _, tt := range tests {
		got, err := buildStreamURL(tt.in)
		if err != nil {
			t.Fatalf("buildStreamURL(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("buildStreamURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHandleMessageFullReplacesBuffer(t *testing.T) {
	a := NewStreamAdapter("http://feed.example.com", 1, 3)

	a.handleMessage([]byte(`{"type": "full", "vessels": [{"id": 1, "name": "Aurora"}, {"id": 2, "name": "Borealis"}]}`))
	a.handleMessage([]byte(`{"type": "full", "vessels": [{"id": 3, "name": "Cassiopeia"}]}`))

	records, err := a.FetchOnce(context.Background())
	if err != nil {
		t.Fatalf("FetchOnce() error: %v", err)
	}
	if len(records) != 1 || records[0].ID != 3 {
		t.Errorf("full batch must replace the buffer, got %+v", records)
	}
}

func TestHandleMessageDeltaPatchesBuffer(t *testing.T) {
	a := NewStreamAdapter("http://feed.example.com", 1, 3)

	a.handleMessage([]byte(`{"type": "full", "vessels": [{"id": 1, "name": "Aurora"}, {"id": 2, "name": "Borealis"}]}`))
	a.handleMessage([]byte(`{"type": "delta", "vessels": [{"id": 1, "name": "Aurora Renamed"}]}`))

	records, err := a.FetchOnce(context.Background())
	if err != nil {
		t.Fatalf("FetchOnce() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("delta must patch, not replace: got %d records", len(records))
	}
	byID := make(map[int64]models.VesselRecord)
	for _, r := range records {
		byID[r.ID] = r
	}
	if byID[1].Name != "Aurora Renamed" {
		t.Error("delta did not update vessel 1")
	}
	if byID[2].Name != "Borealis" {
		t.Error("delta removed untouched vessel 2")
	}
}

func TestHandleMessageMalformedDropped(t *testing.T) {
	a := NewStreamAdapter("http://feed.example.com", 1, 3)

	a.handleMessage([]byte(`{"type": "full", "vessels": [{"id": 1}]}`))
	a.handleMessage([]byte(`{not json`))

	records, err := a.FetchOnce(context.Background())
	if err != nil {
		t.Fatalf("FetchOnce() error after malformed message: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("malformed message must not disturb the buffer, got %d records", len(records))
	}
}

func TestHandleMessageNotifiesCoordinator(t *testing.T) {
	a := NewStreamAdapter("http://feed.example.com", 1, 3)

	var got []models.VesselRecord
	a.SetHandlers(func(batch []models.VesselRecord) { got = batch }, nil)

	a.handleMessage([]byte(`{"type": "full", "vessels": [{"id": 1}, {"id": 2}]}`))

	if len(got) != 2 {
		t.Errorf("onBatch got %d records, want 2 (the coherent view, not the raw delta)", len(got))
	}
}

func TestFetchOnceBeforeFirstMessage(t *testing.T) {
	a := NewStreamAdapter("http://feed.example.com", 1, 3)

	if _, err := a.FetchOnce(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("FetchOnce before any message: err = %v, want ErrNotConnected", err)
	}
}

func TestStreamKeyIdentityPreference(t *testing.T) {
	tests := []struct {
		rec  models.VesselRecord
		want string
	}{
		{models.VesselRecord{ID: 7, IMO: "9", MMSI: "8"}, "id:7"},
		{models.VesselRecord{IMO: "9321483", MMSI: "8"}, "imo:9321483"},
		{models.VesselRecord{MMSI: "235099999"}, "mmsi:235099999"},
		{models.VesselRecord{Name: "Ghost"}, "name:Ghost"},
	}
	for _, tt := range tests {
		if got := streamKey(tt.rec); got != tt.want {
			t.Errorf("streamKey(%+v) = %q, want %q", tt.rec, got, tt.want)
		}
	}
}

func TestStreamLifecycleAgainstServer(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		// A fresh subscriber gets a full batch.
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type": "full", "vessels": [{"id": 1, "name": "Aurora"}]}`))
		// Hold the connection until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	a := NewStreamAdapter(server.URL, 1, 3)

	batches := make(chan []models.VesselRecord, 4)
	a.SetHandlers(func(batch []models.VesselRecord) { batches <- batch }, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() { _ = a.Stop() }()

	select {
	case batch := <-batches:
		if len(batch) != 1 || batch[0].Name != "Aurora" {
			t.Errorf("unexpected batch: %+v", batch)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no batch delivered within 5s")
	}

	if a.ConnectionState() != StateOpen {
		t.Errorf("ConnectionState() = %v, want open", a.ConnectionState())
	}

	records, err := a.FetchOnce(context.Background())
	if err != nil {
		t.Fatalf("FetchOnce() error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("buffer has %d records, want 1", len(records))
	}
}

// Tidewatch - Maritime Fleet Tracking and Synchronization
// Copyright 2026 Tidewatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tidewatch/fleetsync

package websocket

import (
	"context"
	"testing"
	"time"
)

// startHub runs the hub until the test ends and returns a cancel to stop it.
func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("hub did not stop after context cancel")
		}
	})
	return hub, cancel
}

// awaitClientCount polls until the hub reports the expected client count.
func awaitClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ClientCount = %d, want %d", hub.ClientCount(), want)
}

func TestHubRegisterUnregister(t *testing.T) {
	hub, _ := startHub(t)

	c1 := NewClient(hub, nil)
	c2 := NewClient(hub, nil)
	hub.Register <- c1
	hub.Register <- c2
	awaitClientCount(t, hub, 2)

	hub.Unregister <- c1
	awaitClientCount(t, hub, 1)

	// The hub closes the send channel of unregistered clients.
	select {
	case _, ok := <-c1.send:
		if ok {
			t.Error("expected closed send channel for unregistered client")
		}
	case <-time.After(2 * time.Second):
		t.Error("send channel not closed after unregister")
	}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub, _ := startHub(t)

	clients := []*Client{NewClient(hub, nil), NewClient(hub, nil), NewClient(hub, nil)}
	for _, c := range clients {
		hub.Register <- c
	}
	awaitClientCount(t, hub, len(clients))

	hub.BroadcastJSON(MessageTypeSnapshot, map[string]int{"vessels": 7})

	for i, c := range clients {
		select {
		case msg := <-c.send:
			if msg.Type != MessageTypeSnapshot {
				t.Errorf("client %d: message type = %q, want %q", i, msg.Type, MessageTypeSnapshot)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("client %d never received the broadcast", i)
		}
	}
}

func TestHubDropsStalledClient(t *testing.T) {
	hub, _ := startHub(t)

	healthy := NewClient(hub, nil)
	stalled := NewClient(hub, nil)
	// Zero-capacity send channel with nobody reading simulates a wedged socket.
	stalled.send = make(chan Message)
	hub.Register <- healthy
	hub.Register <- stalled
	awaitClientCount(t, hub, 2)

	hub.BroadcastJSON(MessageTypeStale, nil)
	awaitClientCount(t, hub, 1)

	select {
	case msg := <-healthy.send:
		if msg.Type != MessageTypeStale {
			t.Errorf("message type = %q, want %q", msg.Type, MessageTypeStale)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("healthy client never received the broadcast")
	}
}

func TestHubBroadcastNeverBlocks(t *testing.T) {
	// Not running the hub: the broadcast queue fills up and further
	// frames must be dropped rather than block the caller.
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.BroadcastJSON(MessageTypeSnapshot, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("BroadcastJSON blocked on a full queue")
	}
}

func TestHubClosesClientsOnShutdown(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.RunWithContext(ctx) }()

	c := NewClient(hub, nil)
	hub.Register <- c
	awaitClientCount(t, hub, 1)

	cancel()
	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("RunWithContext returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop after cancel")
	}

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected closed send channel after shutdown")
		}
	default:
		t.Error("send channel still open after shutdown")
	}

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount after shutdown = %d, want 0", hub.ClientCount())
	}
}

func TestClientIDsAreUnique(t *testing.T) {
	hub := NewHub()
	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	if a.ID() == b.ID() {
		t.Errorf("two clients share id %d", a.ID())
	}
}

// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/gabinete/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}

// startHub runs a hub until the test ends.
func startHub(t *testing.T) (*Hub, context.CancelFunc, <-chan error) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel, done
}

func newTestClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func nextMessage(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestHub_RegisterBroadcastUnregister(t *testing.T) {
	hub, _, _ := startHub(t)
	a, b := newTestClient(hub, 8), newTestClient(hub, 8)
	hub.Register <- a
	hub.Register <- b
	waitFor(t, "two clients", func() bool { return hub.GetClientCount() == 2 })

	hub.BroadcastJSON(MessageTypeSyncCompleted, map[string]int{"new_items": 3})
	for _, c := range []*Client{a, b} {
		msg := nextMessage(t, c)
		if msg.Type != MessageTypeSyncCompleted {
			t.Errorf("client %d got %q", c.id, msg.Type)
		}
	}

	hub.Unregister <- a
	waitFor(t, "one client", func() bool { return hub.GetClientCount() == 1 })
	if _, ok := <-a.send; ok {
		t.Error("unregistered client's send channel should be closed")
	}
}

func TestHub_SnapshotOnConnect(t *testing.T) {
	hub := NewHub()
	hub.SetSnapshot(func() interface{} { return map[string]bool{"is_running": false} })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	c := newTestClient(hub, 8)
	hub.Register <- c
	msg := nextMessage(t, c)
	if msg.Type != MessageTypeStatus {
		t.Fatalf("first message = %q, want status", msg.Type)
	}
	if data, ok := msg.Data.(map[string]bool); !ok || data["is_running"] {
		t.Errorf("status data = %#v", msg.Data)
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub, _, _ := startHub(t)
	slow, fast := newTestClient(hub, 1), newTestClient(hub, 16)
	hub.Register <- slow
	hub.Register <- fast
	waitFor(t, "two clients", func() bool { return hub.GetClientCount() == 2 })

	hub.BroadcastJSON(MessageTypeSyncStarted, nil)
	hub.BroadcastJSON(MessageTypeSyncCompleted, nil)
	waitFor(t, "slow client dropped", func() bool { return hub.GetClientCount() == 1 })

	if got := nextMessage(t, fast).Type; got != MessageTypeSyncStarted {
		t.Errorf("fast first = %q", got)
	}
	if got := nextMessage(t, fast).Type; got != MessageTypeSyncCompleted {
		t.Errorf("fast second = %q", got)
	}
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	hub := NewHub() // not running: nothing drains the queue
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.BroadcastJSON(MessageTypeSyncCompleted, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("BroadcastJSON blocked on a full queue")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, cancel, done := startHub(t)
	c := newTestClient(hub, 8)
	hub.Register <- c
	waitFor(t, "client", func() bool { return hub.GetClientCount() == 1 })

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("clients after shutdown = %d", hub.GetClientCount())
	}
	if _, ok := <-c.send; ok {
		t.Error("client channel should be closed on shutdown")
	}
}

// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package websocket

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/gabinete/internal/logging"
)

// EventBridge forwards event bus messages on one topic to the hub.
type EventBridge struct {
	hub         *Hub
	subscriber  message.Subscriber
	topic       string
	messageType string
}

// NewEventBridge forwards messages on topic as messageType broadcasts.
func NewEventBridge(hub *Hub, subscriber message.Subscriber, topic, messageType string) *EventBridge {
	return &EventBridge{
		hub:         hub,
		subscriber:  subscriber,
		topic:       topic,
		messageType: messageType,
	}
}

// Run subscribes and forwards until ctx is done or the subscription closes.
func (b *EventBridge) Run(ctx context.Context) error {
	msgs, err := b.subscriber.Subscribe(ctx, b.topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", b.topic, err)
	}
	logging.Info().Str("topic", b.topic).Msg("websocket event bridge started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			b.forward(msg)
		}
	}
}

func (b *EventBridge) forward(msg *message.Message) {
	// Acked either way: a malformed payload will not get better on redelivery.
	defer msg.Ack()

	if !json.Valid(msg.Payload) {
		logging.Warn().Str("topic", b.topic).Str("message_uuid", msg.UUID).Msg("skipping non-JSON event")
		return
	}
	b.hub.BroadcastJSON(b.messageType, json.RawMessage(msg.Payload))
}

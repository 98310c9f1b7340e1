// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/gabinete/internal/config"
	"github.com/tomtom215/gabinete/internal/logging"
)

// Transport names reported by Bus.Transport.
const (
	TransportChannel = "channel"
	TransportNATS    = "nats"
)

// Bus bundles the publisher with whatever infrastructure backs it.
type Bus struct {
	Publisher *Publisher

	// Subscriber is set for the in-process transport only.
	Subscriber message.Subscriber

	server    *EmbeddedServer
	transport string
}

// Open builds the event bus selected by cfg:
//   - EmbeddedServer: start an in-process NATS server and publish to it
//   - URL set: publish to the external NATS server
//   - otherwise: in-process gochannel
func Open(ctx context.Context, cfg config.EventsConfig) (*Bus, error) {
	prefix := cfg.TopicPrefix
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}

	if !cfg.EmbeddedServer && cfg.URL == "" {
		pub, pubSub := NewChannelPublisher(prefix)
		logging.Info().Str("transport", TransportChannel).Msg("Event bus ready")
		return &Bus{Publisher: pub, Subscriber: pubSub, transport: TransportChannel}, nil
	}

	bus := &Bus{transport: TransportNATS}
	url := cfg.URL
	if cfg.EmbeddedServer {
		srv, err := NewEmbeddedServer(ServerConfig{
			Host:      cfg.Host,
			Port:      cfg.Port,
			JetStream: cfg.JetStream,
			StoreDir:  cfg.StoreDir,
		})
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		bus.server = srv
		url = srv.ClientURL()
	}

	if cfg.JetStream {
		info, err := EnsureStream(ctx, url, DefaultStreamSettings(prefix))
		if err != nil {
			return nil, errors.Join(fmt.Errorf("ensure stream: %w", err), bus.shutdownServer(ctx))
		}
		logging.Info().Str("stream", info.Config.Name).Strs("subjects", info.Config.Subjects).Msg("JetStream stream ready")
	}

	pub, err := NewNATSPublisher(NATSPublisherConfig{URL: url, JetStream: cfg.JetStream}, prefix)
	if err != nil {
		return nil, errors.Join(err, bus.shutdownServer(ctx))
	}
	bus.Publisher = pub

	logging.Info().
		Str("transport", TransportNATS).
		Str("url", url).
		Bool("embedded", cfg.EmbeddedServer).
		Bool("jetstream", cfg.JetStream).
		Msg("Event bus ready")
	return bus, nil
}

// Transport reports which transport Open selected.
func (b *Bus) Transport() string {
	return b.transport
}

// Server returns the embedded NATS server, or nil.
func (b *Bus) Server() *EmbeddedServer {
	return b.server
}

// Close closes the publisher, then the embedded server.
func (b *Bus) Close(ctx context.Context) error {
	var errs []error
	if b.Publisher != nil {
		if err := b.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	// The channel transport shares one GoChannel; a second Close is a no-op.
	if b.Subscriber != nil {
		if err := b.Subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if err := b.shutdownServer(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (b *Bus) shutdownServer(ctx context.Context) error {
	if b.server == nil {
		return nil
	}
	srv := b.server
	b.server = nil
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown embedded NATS: %w", err)
	}
	return nil
}

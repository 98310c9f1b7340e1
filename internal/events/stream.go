// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamSettings describes the JetStream stream holding gabinete events.
type StreamSettings struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	DuplicateWindow time.Duration
}

// DefaultStreamSettings covers every topic under prefix.
func DefaultStreamSettings(prefix string) StreamSettings {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return StreamSettings{
		Name:            strings.ToUpper(strings.NewReplacer(".", "_", "*", "_", ">", "_").Replace(prefix)) + "_EVENTS",
		Subjects:        []string{prefix + ".>"},
		MaxAge:          30 * 24 * time.Hour,
		DuplicateWindow: 2 * time.Minute,
	}
}

// EnsureStream creates the stream or updates it in place.
func EnsureStream(ctx context.Context, url string, settings StreamSettings) (*jetstream.StreamInfo, error) {
	nc, err := natsgo.Connect(url, natsgo.Name("gabinete-stream-init"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	streamCfg := jetstream.StreamConfig{
		Name:       settings.Name,
		Subjects:   settings.Subjects,
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     settings.MaxAge,
		Duplicates: settings.DuplicateWindow,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
	}

	var stream jetstream.Stream
	if _, err = js.Stream(ctx, settings.Name); err == nil {
		stream, err = js.UpdateStream(ctx, streamCfg)
		if err != nil {
			return nil, fmt.Errorf("update stream: %w", err)
		}
	} else if errors.Is(err, jetstream.ErrStreamNotFound) {
		stream, err = js.CreateStream(ctx, streamCfg)
		if err != nil {
			return nil, fmt.Errorf("create stream: %w", err)
		}
	} else {
		return nil, fmt.Errorf("lookup stream: %w", err)
	}

	return stream.Info(ctx)
}

// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/gabinete/internal/metrics"
	"github.com/tomtom215/gabinete/internal/models"
)

// Topic suffixes, joined to the configured prefix with a dot.
const (
	TopicSyncCompleted    = "sync.completed"
	TopicKnowledgeCreated = "knowledge.created"
)

// DefaultTopicPrefix is used when no prefix is configured.
const DefaultTopicPrefix = "gabinete"

// ErrPublisherClosed is returned by publish calls after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// SyncCompletedEvent is the payload of <prefix>.sync.completed.
type SyncCompletedEvent struct {
	EventID    string            `json:"event_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Record     models.SyncRecord `json:"record"`
}

// KnowledgeCreatedEvent is the payload of <prefix>.knowledge.created.
type KnowledgeCreatedEvent struct {
	EventID    string          `json:"event_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	KBID       string          `json:"kb_id"`
	Proposal   models.Proposal `json:"proposal"`
}

// Publisher encodes sync outcomes and hands them to a Watermill publisher.
// It satisfies the sync manager's EventPublisher interface.
type Publisher struct {
	publisher message.Publisher
	prefix    string
	now       func() time.Time

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps an existing Watermill publisher.
func NewPublisher(pub message.Publisher, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return &Publisher{publisher: pub, prefix: prefix, now: time.Now}
}

// NewChannelPublisher returns a publisher backed by an in-process gochannel
// pub/sub. The GoChannel is returned so in-process consumers can subscribe.
func NewChannelPublisher(prefix string) (*Publisher, *gochannel.GoChannel) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, NewWatermillLogger("events"))
	return NewPublisher(pubSub, prefix), pubSub
}

// NATSPublisherConfig configures NewNATSPublisher.
type NATSPublisherConfig struct {
	URL           string
	JetStream     bool
	MaxReconnects int
	ReconnectWait time.Duration
}

// NewNATSPublisher connects a Watermill NATS publisher. With JetStream the
// stream must already exist (see EnsureStream); Nats-Msg-Id tracking is on.
func NewNATSPublisher(cfg NATSPublisherConfig, prefix string) (*Publisher, error) {
	logger := NewWatermillLogger("events")
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = -1
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}

	natsOpts := []natsgo.Option{
		natsgo.Name("gabinete-events"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      !cfg.JetStream,
			AutoProvision: false,
			TrackMsgId:    cfg.JetStream,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return NewPublisher(pub, prefix), nil
}

// Topic returns the full topic name for a suffix.
func (p *Publisher) Topic(suffix string) string {
	return p.prefix + "." + suffix
}

// PublishSyncCompleted publishes one recorded run.
func (p *Publisher) PublishSyncCompleted(ctx context.Context, record *models.SyncRecord) error {
	if record == nil {
		return errors.New("nil sync record")
	}
	event := SyncCompletedEvent{
		EventID:    uuid.NewString(),
		OccurredAt: p.now().UTC(),
		Record:     *record,
	}
	return p.publish(ctx, p.Topic(TopicSyncCompleted), event.EventID, "sync-"+record.ID, event)
}

// PublishKnowledgeCreated publishes one inserted knowledge item. The message
// dedup ID is derived from the kb_id so a replayed insert is dropped by JetStream.
func (p *Publisher) PublishKnowledgeCreated(ctx context.Context, kbID string, proposal *models.Proposal) error {
	if proposal == nil {
		return errors.New("nil proposal")
	}
	event := KnowledgeCreatedEvent{
		EventID:    uuid.NewString(),
		OccurredAt: p.now().UTC(),
		KBID:       kbID,
		Proposal:   *proposal,
	}
	return p.publish(ctx, p.Topic(TopicKnowledgeCreated), event.EventID, "kb-"+kbID, event)
}

func (p *Publisher) publish(ctx context.Context, topic, id, dedupID string, payload any) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", topic, err)
	}

	msg := message.NewMessage(id, data)
	msg.Metadata.Set(natsgo.MsgIdHdr, dedupID)
	msg.Metadata.Set("content_type", "application/json")
	msg.SetContext(ctx)

	err = p.publisher.Publish(topic, msg)
	metrics.RecordEventPublish(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Close closes the underlying publisher. Safe to call more than once.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/meeplerank/internal/metrics"
)

// TopicCatalogChanged is the topic catalog change events are published on.
const TopicCatalogChanged = "catalog.changed"

// ChangeKind names what kind of write produced an event.
type ChangeKind string

const (
	ChangeGamePut      ChangeKind = "game_put"
	ChangeGameDeleted  ChangeKind = "game_deleted"
	ChangeBatch        ChangeKind = "batch"
	ChangePlayRecorded ChangeKind = "play_recorded"
)

// ChangeEvent describes a committed catalog write.
type ChangeEvent struct {
	Kind    ChangeKind `json:"kind"`
	GameIDs []string   `json:"game_ids"`
	Version uint64     `json:"version"`
	At      time.Time  `json:"at"`
}

// ChangeNotifier receives change events from the store.
type ChangeNotifier interface {
	NotifyChanged(ctx context.Context, ev ChangeEvent)
}

// EventsConfig configures the in-process event bus.
type EventsConfig struct {
	// OutputBuffer is the per-subscriber channel buffer.
	OutputBuffer int64
}

// Events is an in-process pub/sub for catalog changes backed by a watermill
// GoChannel. Publishing never blocks the writer on a slow subscriber.
type Events struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewEvents creates the event bus. logger may be nil.
func NewEvents(cfg EventsConfig, logger watermill.LoggerAdapter) *Events {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &Events{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.OutputBuffer,
		}, logger),
		logger: logger,
	}
}

// NotifyChanged publishes ev. Failures are logged and counted, not returned:
// the write has already been committed.
func (e *Events) NotifyChanged(_ context.Context, ev ChangeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		e.logger.Error("Failed to encode catalog change event", err, nil)
		metrics.RecordCatalogEvent("dropped")
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("kind", string(ev.Kind))

	if err := e.pubsub.Publish(TopicCatalogChanged, msg); err != nil {
		e.logger.Error("Failed to publish catalog change event", err, watermill.LogFields{
			"kind":    string(ev.Kind),
			"version": ev.Version,
		})
		metrics.RecordCatalogEvent("dropped")
		return
	}

	metrics.RecordCatalogEvent("published")
}

// Subscribe returns a channel of change messages. Subscribers must Ack
// every message. The channel closes when ctx is done or the bus closes.
func (e *Events) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	messages, err := e.pubsub.Subscribe(ctx, TopicCatalogChanged)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", TopicCatalogChanged, err)
	}
	return messages, nil
}

// Close shuts the bus down and closes all subscriber channels.
func (e *Events) Close() error {
	return e.pubsub.Close()
}

// DecodeChangeEvent parses the payload of a change message.
func DecodeChangeEvent(msg *message.Message) (ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return ChangeEvent{}, fmt.Errorf("decode catalog change event: %w", err)
	}
	return ev, nil
}

var _ ChangeNotifier = (*Events)(nil)

// Package progress forwards migration job snapshots to Redis so operators
// can follow a run from outside the process. The publisher is optional:
// when no Redis client is configured the bridge runs without it and the
// in-memory bus alone carries the events.
package progress

import (
	"context"
	"encoding/json"

	"cms-bridge/internal/bridge/domain/model"
	"cms-bridge/internal/shared/eventbus"
	"cms-bridge/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher relays migration bus events to a Redis pub/sub channel
// as JSON-encoded job snapshots.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	log     logger.Logger
}

// NewRedisPublisher creates a publisher for the given channel.
func NewRedisPublisher(client *redis.Client, channel string, log logger.Logger) *RedisPublisher {
	if log == nil {
		log = logger.NewLogger()
	}
	return &RedisPublisher{
		client:  client,
		channel: channel,
		log:     log.WithComponent("progress"),
	}
}

// Subscribe attaches the publisher to every migration event type on the bus.
func (p *RedisPublisher) Subscribe(bus *eventbus.EventBus) {
	for _, eventType := range []string{
		eventbus.EventTypeMigrationStarted,
		eventbus.EventTypeMigrationBatchCompleted,
		eventbus.EventTypeMigrationCollectionCompleted,
		eventbus.EventTypeMigrationCompleted,
	} {
		bus.Subscribe(eventType, p.handle)
	}
}

// handle publishes one event's snapshot. Publish failures are logged and
// swallowed: progress reporting must never fail a migration batch.
func (p *RedisPublisher) handle(ctx context.Context, event eventbus.Event) error {
	snap, ok := event.Data().(model.MigrationSnapshot)
	if !ok {
		p.log.Warnf("Dropping %s event with unexpected payload %T", event.Type(), event.Data())
		return nil
	}

	payload, err := json.Marshal(progressMessage{
		Event:    event.Type(),
		Snapshot: snap,
	})
	if err != nil {
		p.log.Errorf("Failed to serialize snapshot for job %s: %v", snap.ID, err)
		return nil
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.Errorf("Failed to publish %s to channel %s: %v", event.Type(), p.channel, err)
	}
	return nil
}

// progressMessage is the wire shape on the progress channel.
type progressMessage struct {
	Event    string                  `json:"event"`
	Snapshot model.MigrationSnapshot `json:"snapshot"`
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChannelPrefix is the prefix for all change notification channels.
// The full channel name is ChannelPrefix + "." + table name.
const ChannelPrefix = "pos.changes"

// ChangeEvent describes a single row change pushed to subscribers.
// Terminals use these to refresh cached catalog data.
type ChangeEvent struct {
	Table      string    `json:"table"`
	Action     string    `json:"action"` // created, updated, deleted
	RecordID   uuid.UUID `json:"record_id"`
	LocationID uuid.UUID `json:"location_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher pushes change events to interested subscribers.
type Publisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
	Close() error
}

type redisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a change publisher backed by Redis pub/sub.
func NewRedisPublisher(addr, password string, db int) (Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisPublisher{client: client}, nil
}

func (p *redisPublisher) Publish(ctx context.Context, event ChangeEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	channel := ChannelPrefix + "." + event.Table
	return p.client.Publish(ctx, channel, payload).Err()
}

func (p *redisPublisher) Close() error {
	return p.client.Close()
}

// NoopPublisher discards all events. Used when Redis is not configured so
// services never have to nil-check their publisher.
type NoopPublisher struct{}

// NewNoopPublisher returns a publisher that discards everything.
func NewNoopPublisher() Publisher { return NoopPublisher{} }

func (NoopPublisher) Publish(ctx context.Context, event ChangeEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

// PublishAsync publishes on a background goroutine with its own timeout.
// Change notification is best effort and must never delay a write path.
func PublishAsync(p Publisher, event ChangeEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := p.Publish(ctx, event); err != nil {
			log.Printf("Warning: failed to publish change event for %s: %v", event.Table, err)
		}
	}()
}

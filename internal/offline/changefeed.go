package offline

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ChangeEvent mirrors the change notifications the API publishes after
// every write. Only the fields the terminal cares about are decoded.
type ChangeEvent struct {
	Table    string `json:"table"`
	Action   string `json:"action"`
	RecordID string `json:"record_id"`
}

// ChangeFeed delivers server-side change events, used to refresh the
// local product cache without polling.
type ChangeFeed interface {
	Subscribe(ctx context.Context, table string, fn func(ChangeEvent))
	Close() error
}

// RedisChangeFeed subscribes to the API's per-table pub/sub channels.
type RedisChangeFeed struct {
	client *redis.Client
	log    *logrus.Logger
}

// NewRedisChangeFeed connects to Redis and verifies reachability.
func NewRedisChangeFeed(addr, password string, db int, log *logrus.Logger) (*RedisChangeFeed, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisChangeFeed{client: client, log: log}, nil
}

// Subscribe listens for change events on one table's channel until the
// context is cancelled. Malformed messages are logged and skipped.
func (f *RedisChangeFeed) Subscribe(ctx context.Context, table string, fn func(ChangeEvent)) {
	sub := f.client.Subscribe(ctx, "pos.changes."+table)

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.log.WithError(err).Warn("skipping malformed change event")
					continue
				}
				fn(event)
			}
		}
	}()
}

// Close releases the Redis connection.
func (f *RedisChangeFeed) Close() error {
	return f.client.Close()
}

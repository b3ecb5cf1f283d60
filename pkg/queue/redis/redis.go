// Package redis provides a Redis-backed outbox queue using a list.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kart-io/slackhook/pkg/message"
	"github.com/kart-io/slackhook/pkg/queue"
)

// Config contains Redis connection and queue configuration.
type Config struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	Key      string `json:"key" yaml:"key"`
}

// DefaultConfig returns the default Redis queue configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr: "localhost:6379",
		Key:  "slackhook:outbox",
	}
}

// Queue implements queue.Queue backed by a Redis list. Messages are pushed
// with LPUSH and popped with BRPOP, so delivery order matches enqueue order.
type Queue struct {
	client         *redis.Client
	key            string
	externalClient bool
	closed         bool
}

var _ queue.Queue = (*Queue)(nil)

// NewQueue creates a queue with its own Redis connection.
func NewQueue(cfg *Config) (*Queue, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Queue{client: client, key: cfg.Key}, nil
}

// NewQueueWithClient creates a queue using an existing Redis client. The
// caller is responsible for the client's lifecycle.
func NewQueueWithClient(client *redis.Client, key string) (*Queue, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if key == "" {
		key = DefaultConfig().Key
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connection test failed: %w", err)
	}

	return &Queue{client: client, key: key, externalClient: true}, nil
}

// Enqueue serializes the message and pushes it onto the list.
func (q *Queue) Enqueue(ctx context.Context, msg *message.Message) error {
	if q.closed {
		return fmt.Errorf("queue closed")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("serialize message: %w", err)
	}

	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("push to list: %w", err)
	}
	return nil
}

// Dequeue blocks until a message is available or the context is done.
func (q *Queue) Dequeue(ctx context.Context) (*message.Message, error) {
	for {
		if q.closed {
			return nil, fmt.Errorf("queue closed")
		}

		// Bounded block so context cancellation is observed promptly.
		vals, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err != nil {
			if err == redis.Nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("pop from list: %w", err)
		}

		if len(vals) != 2 {
			return nil, fmt.Errorf("unexpected BRPOP reply length %d", len(vals))
		}

		var msg message.Message
		if err := json.Unmarshal([]byte(vals[1]), &msg); err != nil {
			return nil, fmt.Errorf("deserialize message: %w", err)
		}
		return &msg, nil
	}
}

// Close closes the queue and, when owned, the Redis connection.
func (q *Queue) Close() error {
	if q.closed {
		return nil
	}
	q.closed = true
	if !q.externalClient {
		return q.client.Close()
	}
	return nil
}

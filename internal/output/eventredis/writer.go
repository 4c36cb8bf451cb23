// Package eventredis pushes events onto a Redis list, the producing side of
// the list-based queue a downstream detector pops with BLPOP.
package eventredis

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	redis "github.com/redis/go-redis/v9"

	"trafficforge/pkg/models"
)

// Config configures the Redis writer.
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// Writer wraps a Redis list pusher.
type Writer struct {
	client *redis.Client
	key    string
}

// NewWriter creates a Redis writer for list-based queues.
func NewWriter(cfg Config) (*Writer, error) {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("redis key is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Writer{
		client: client,
		key:    cfg.Key,
	}, nil
}

// WriteEvent RPUSHes one event as a JSON line payload. A canceled run
// context aborts an in-flight push.
func (w *Writer) WriteEvent(ctx context.Context, ev *models.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := w.client.RPush(ctx, w.key, payload).Err(); err != nil {
		return fmt.Errorf("redis rpush failed: %w", err)
	}
	return nil
}

// Close closes the client.
func (w *Writer) Close() error {
	return w.client.Close()
}

// Package views counts article page views. The stats endpoint reports a
// per-day total; storage backends know nothing about views, this collaborator
// owns them entirely.
package views

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter records article reads and reports today's total.
type Counter interface {
	// Hit records one view. Failures are logged, not returned — a view
	// counter must never break an article read.
	Hit(ctx context.Context)

	// Today returns the number of views recorded since midnight.
	Today(ctx context.Context) (int, error)
}

// keyTTL keeps a day key around long enough to survive timezone skew and
// end-of-day reads, then lets Redis drop it.
const keyTTL = 48 * time.Hour

// RedisCounter keeps one Redis key per calendar day and increments it on
// every view.
type RedisCounter struct {
	client *redis.Client
}

// Connect creates a Redis-backed counter and verifies the connection.
func Connect(addr, password string) (*RedisCounter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("views redis ping: %w", err)
	}

	slog.Info("view counter connected", "addr", addr)
	return &RedisCounter{client: client}, nil
}

func dayKey(now time.Time) string {
	return "views:" + now.Format("2006-01-02")
}

func (c *RedisCounter) Hit(ctx context.Context) {
	key := dayKey(time.Now())
	pipe := c.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, keyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("view counter increment failed", "error", err)
	}
}

func (c *RedisCounter) Today(ctx context.Context) (int, error) {
	n, err := c.client.Get(ctx, dayKey(time.Now())).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("views redis get: %w", err)
	}
	return n, nil
}

// Close releases the Redis connection.
func (c *RedisCounter) Close() error {
	return c.client.Close()
}

// Noop is the counter used when Redis is not configured. It records nothing
// and always reports zero.
type Noop struct{}

func (Noop) Hit(context.Context) {}

func (Noop) Today(context.Context) (int, error) { return 0, nil }

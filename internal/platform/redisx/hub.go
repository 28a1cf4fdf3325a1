// Package redisx is the Redis connection hub backing the bounded-TTL
// popular-tags cache and the per-place-id indexer lock, grounded on
// the teacher's common/mredis.RedisConnection.
package redisx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Hub holds a singleton Redis client.
type Hub struct {
	URL string

	client *redis.Client
}

// Connect parses URL and verifies connectivity with a PING.
func (h *Hub) Connect(ctx context.Context) error {
	opts, err := redis.ParseURL(h.URL)
	if err != nil {
		return fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}

	h.client = client

	return nil
}

// Client returns the connected client, connecting lazily if needed.
func (h *Hub) Client(ctx context.Context) (*redis.Client, error) {
	if h.client == nil {
		if err := h.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return h.client, nil
}

package redisx

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TagCache is a bounded-TTL cache for the popular-tags read model
// (spec.md §4.5: "implementations MAY cache this result for a bounded
// period"). One key per result-set size, since distinct limits are
// distinct cache entries.
type TagCache struct {
	Hub *Hub
	TTL time.Duration
}

// TagCount pairs a tag label with its occurrence count.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

func tagCacheKey(limit int) string {
	return fmt.Sprintf("ofdb:popular_tags:%d", limit)
}

// Get returns the cached result for limit, or ok=false on a miss.
func (c *TagCache) Get(ctx context.Context, limit int) ([]TagCount, bool, error) {
	client, err := c.Hub.Client(ctx)
	if err != nil {
		return nil, false, err
	}

	raw, err := client.Get(ctx, tagCacheKey(limit)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("redisx: tag cache get: %w", err)
	}

	var tags []TagCount
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, false, fmt.Errorf("redisx: tag cache decode: %w", err)
	}

	return tags, true, nil
}

// Set stores tags under limit's key with the configured TTL.
func (c *TagCache) Set(ctx context.Context, limit int, tags []TagCount) error {
	client, err := c.Hub.Client(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("redisx: tag cache encode: %w", err)
	}

	if err := client.Set(ctx, tagCacheKey(limit), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("redisx: tag cache set: %w", err)
	}

	return nil
}

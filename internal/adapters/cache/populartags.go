// Package cache wraps internal/platform/redisx's bounded-TTL tag cache
// with the "GET / SETNX-guarded single-flight recompute" behavior
// spec.md §5 calls for: when a read misses, one caller wins a short
// SETNX lock and repopulates the cache while every other concurrent
// miss waits on the lock's release rather than all hammering Postgres
// at once, grounded on common/mredis's use of raw redis commands
// rather than a higher-level singleflight library (none appears
// anywhere in the retrieval pack).
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/openfairdb/ofdb-core/internal/platform/redisx"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// recomputeLockTTL bounds how long one goroutine may hold the
// repopulate lock before another is allowed to try.
const recomputeLockTTL = 5 * time.Second

// PopularTags is the read-through cache for the most-popular-tags view.
type PopularTags struct {
	Hub   *redisx.Hub
	Cache *redisx.TagCache
}

func New(hub *redisx.Hub, ttl time.Duration) *PopularTags {
	return &PopularTags{Hub: hub, Cache: &redisx.TagCache{Hub: hub, TTL: ttl}}
}

// GetOrLoad returns the cached popular-tags list for limit, calling
// load on a miss. If another goroutine already holds the recompute
// lock for this limit, GetOrLoad polls briefly for the winner's result
// instead of calling load itself, bounding redundant Postgres load
// under a cache stampede.
func (c *PopularTags) GetOrLoad(ctx context.Context, limit int, load func(ctx context.Context) ([]repo.TagCount, error)) ([]repo.TagCount, error) {
	if tags, ok, err := c.Cache.Get(ctx, limit); err == nil && ok {
		return fromCacheCounts(tags), nil
	}

	client, err := c.Hub.Client(ctx)
	if err != nil {
		return load(ctx)
	}

	lockKey := recomputeLockKey(limit)
	acquired, err := client.SetNX(ctx, lockKey, "1", recomputeLockTTL).Result()
	if err != nil {
		return load(ctx)
	}

	if !acquired {
		return c.waitForRecompute(ctx, limit, load)
	}
	defer client.Del(ctx, lockKey)

	tags, err := load(ctx)
	if err != nil {
		return nil, err
	}

	_ = c.Cache.Set(ctx, limit, toCacheCounts(tags))

	return tags, nil
}

// waitForRecompute polls the cache a few times while another goroutine
// holds the recompute lock, falling back to calling load itself if the
// lock outlives the poll budget (e.g. the winner crashed mid-recompute).
func (c *PopularTags) waitForRecompute(ctx context.Context, limit int, load func(ctx context.Context) ([]repo.TagCount, error)) ([]repo.TagCount, error) {
	const (
		attempts = 5
		interval = 100 * time.Millisecond
	)

	for i := 0; i < attempts; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		if tags, ok, err := c.Cache.Get(ctx, limit); err == nil && ok {
			return fromCacheCounts(tags), nil
		}
	}

	return load(ctx)
}

func recomputeLockKey(limit int) string {
	return "ofdb:popular_tags:recompute:" + strconv.Itoa(limit)
}

func toCacheCounts(tags []repo.TagCount) []redisx.TagCount {
	out := make([]redisx.TagCount, len(tags))
	for i, t := range tags {
		out[i] = redisx.TagCount{Tag: t.Tag, Count: t.Count}
	}

	return out
}

func fromCacheCounts(tags []redisx.TagCount) []repo.TagCount {
	out := make([]repo.TagCount, len(tags))
	for i, t := range tags {
		out[i] = repo.TagCount{Tag: t.Tag, Count: t.Count}
	}

	return out
}

package usecase

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
	"github.com/openfairdb/ofdb-core/internal/repo"
	"github.com/openfairdb/ofdb-core/internal/search"
)

// PopularTagsCache is the read-through, stampede-guarded view
// internal/adapters/cache.PopularTags implements.
type PopularTagsCache interface {
	GetOrLoad(ctx context.Context, limit int, load func(ctx context.Context) ([]repo.TagCount, error)) ([]repo.TagCount, error)
}

// MostPopularTags serves the popular-tags read model from a bounded-TTL,
// single-flight-guarded cache, falling back to repo.TagRepo on a miss
// (spec.md §4.5).
type MostPopularTags struct {
	Tags  repo.TagRepo
	Cache PopularTagsCache
}

func (uc *MostPopularTags) Do(ctx context.Context, q pg.Queryer, limit int) ([]repo.TagCount, error) {
	ctx, span := otelx.StartSpan(ctx, "most_popular_tags")
	defer span.End()

	if err := validateLimit(limit, search.MaxLimit); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, err
	}

	load := func(ctx context.Context) ([]repo.TagCount, error) {
		return uc.Tags.MostPopular(ctx, q, limit)
	}

	if uc.Cache == nil {
		return load(ctx)
	}

	tags, err := uc.Cache.GetOrLoad(ctx, limit, load)
	if err != nil {
		otelx.Fail(span, "load", err)
		return nil, err
	}

	return tags, nil
}

package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfairdb/ofdb-core/internal/platform/pg"
	"github.com/openfairdb/ofdb-core/internal/repo"
	"github.com/openfairdb/ofdb-core/internal/usecase"
)

type fakeTagRepo struct {
	calls int
	tags  []repo.TagCount
}

func (f *fakeTagRepo) MostPopular(_ context.Context, _ pg.Queryer, limit int) ([]repo.TagCount, error) {
	f.calls++
	if limit < len(f.tags) {
		return f.tags[:limit], nil
	}
	return f.tags, nil
}

func (f *fakeTagRepo) CreateIfAbsent(context.Context, pg.Queryer, []string) error { return nil }

// fakePopularTagsCache exercises MostPopularTags.Do without a real
// redis instance: GetOrLoad always misses on the first call then
// serves the stored result, same observable contract as
// internal/adapters/cache.PopularTags.
type fakePopularTagsCache struct {
	stored map[int][]repo.TagCount
}

func newFakePopularTagsCache() *fakePopularTagsCache {
	return &fakePopularTagsCache{stored: make(map[int][]repo.TagCount)}
}

func (c *fakePopularTagsCache) GetOrLoad(ctx context.Context, limit int, load func(ctx context.Context) ([]repo.TagCount, error)) ([]repo.TagCount, error) {
	if tags, ok := c.stored[limit]; ok {
		return tags, nil
	}

	tags, err := load(ctx)
	if err != nil {
		return nil, err
	}

	c.stored[limit] = tags
	return tags, nil
}

func TestMostPopularTags_CachesAfterFirstLoad(t *testing.T) {
	tags := &fakeTagRepo{tags: []repo.TagCount{{Tag: "vegan", Count: 9}, {Tag: "cafe", Count: 4}}}
	uc := &usecase.MostPopularTags{Tags: tags, Cache: newFakePopularTagsCache()}

	got, err := uc.Do(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Equal(t, tags.tags, got)
	assert.Equal(t, 1, tags.calls)

	got, err = uc.Do(context.Background(), nil, 2)
	require.NoError(t, err)
	assert.Equal(t, tags.tags, got)
	assert.Equal(t, 1, tags.calls, "second call should be served from cache, not recomputed")
}

func TestMostPopularTags_RejectsLimitAboveMax(t *testing.T) {
	uc := &usecase.MostPopularTags{Tags: &fakeTagRepo{}, Cache: newFakePopularTagsCache()}

	_, err := uc.Do(context.Background(), nil, 100000)
	require.Error(t, err)
}

func TestMostPopularTags_WorksWithoutCache(t *testing.T) {
	tags := &fakeTagRepo{tags: []repo.TagCount{{Tag: "vegan", Count: 1}}}
	uc := &usecase.MostPopularTags{Tags: tags}

	got, err := uc.Do(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Equal(t, tags.tags, got)
}

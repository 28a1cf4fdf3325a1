package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfairdb/ofdb-core/internal/adapters/cache"
	"github.com/openfairdb/ofdb-core/internal/platform/redisx"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

func newTestHub(t *testing.T) *redisx.Hub {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	hub := &redisx.Hub{URL: "redis://" + mr.Addr()}
	require.NoError(t, hub.Connect(context.Background()))

	return hub
}

func TestPopularTags_GetOrLoad_MissRecomputesAndCaches(t *testing.T) {
	hub := newTestHub(t)
	c := cache.New(hub, time.Minute)

	calls := 0
	load := func(context.Context) ([]repo.TagCount, error) {
		calls++
		return []repo.TagCount{{Tag: "vegan", Count: 3}}, nil
	}

	got, err := c.GetOrLoad(context.Background(), 10, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, []repo.TagCount{{Tag: "vegan", Count: 3}}, got)

	got, err = c.GetOrLoad(context.Background(), 10, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second GetOrLoad should hit the cache, not recompute")
	assert.Equal(t, []repo.TagCount{{Tag: "vegan", Count: 3}}, got)
}

func TestPopularTags_GetOrLoad_DistinctLimitsAreDistinctEntries(t *testing.T) {
	hub := newTestHub(t)
	c := cache.New(hub, time.Minute)

	_, err := c.GetOrLoad(context.Background(), 5, func(context.Context) ([]repo.TagCount, error) {
		return []repo.TagCount{{Tag: "a", Count: 1}}, nil
	})
	require.NoError(t, err)

	got, err := c.GetOrLoad(context.Background(), 10, func(context.Context) ([]repo.TagCount, error) {
		return []repo.TagCount{{Tag: "b", Count: 2}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []repo.TagCount{{Tag: "b", Count: 2}}, got)
}

func TestPopularTags_GetOrLoad_ConcurrentMissWaitsForWinner(t *testing.T) {
	hub := newTestHub(t)
	c := cache.New(hub, time.Minute)

	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0

	slowLoad := func(context.Context) ([]repo.TagCount, error) {
		calls++
		close(started)
		<-release
		return []repo.TagCount{{Tag: "slow", Count: 1}}, nil
	}

	done := make(chan []repo.TagCount, 1)
	go func() {
		got, err := c.GetOrLoad(context.Background(), 7, slowLoad)
		require.NoError(t, err)
		done <- got
	}()

	<-started

	fastLoad := func(context.Context) ([]repo.TagCount, error) {
		t.Error("second caller should not recompute while the lock is held")
		return nil, nil
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()

	got, err := c.GetOrLoad(context.Background(), 7, fastLoad)
	require.NoError(t, err)
	assert.Equal(t, []repo.TagCount{{Tag: "slow", Count: 1}}, got)
	assert.Equal(t, 1, calls)

	winnerResult := <-done
	assert.Equal(t, []repo.TagCount{{Tag: "slow", Count: 1}}, winnerResult)
}

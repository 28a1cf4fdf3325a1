package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/search"
	"github.com/openfairdb/ofdb-core/internal/usecase"
)

func TestSearchPlaces_HydratesAndReordersByIndexRelevance(t *testing.T) {
	idx := newFakePlaceIndexer()
	places := newFakePlaceRepo()

	leipzig := &entity.Place{Id: "p1", Title: "Leipzig Cafe", Location: entity.Location{Pos: entity.MapPoint{Lat: 51.3, Lng: 12.37}}}
	berlin := &entity.Place{Id: "p2", Title: "Berlin Cafe", Location: entity.Location{Pos: entity.MapPoint{Lat: 52.5, Lng: 13.4}}}

	// Indexed in reverse order of id: the fake indexer returns matches
	// in insertion order, so the result should come back p2, p1.
	require.NoError(t, idx.AddOrUpdate(context.Background(), berlin, search.AverageRatings{}))
	require.NoError(t, idx.AddOrUpdate(context.Background(), leipzig, search.AverageRatings{}))
	require.NoError(t, places.Create(context.Background(), nil, leipzig))
	require.NoError(t, places.Create(context.Background(), nil, berlin))

	uc := &usecase.SearchPlaces{Index: idx, Places: places}

	bbox := entity.MapBbox{SouthWest: entity.MapPoint{Lat: 50, Lng: 10}, NorthEast: entity.MapPoint{Lat: 53, Lng: 14}}
	got, err := uc.Do(context.Background(), nil, search.QueryFilter{Bbox: &bbox, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entity.Id("p2"), got[0].Id)
	assert.Equal(t, entity.Id("p1"), got[1].Id)
}

func TestSearchPlaces_DropsIdsWithNoHydratedPlace(t *testing.T) {
	idx := newFakePlaceIndexer()
	places := newFakePlaceRepo()

	p := &entity.Place{Id: "p1", Location: entity.Location{Pos: entity.MapPoint{Lat: 0, Lng: 0}}}
	require.NoError(t, idx.AddOrUpdate(context.Background(), p, search.AverageRatings{}))
	// Deliberately not persisted to places: a reindex race can index an
	// id that the primary store no longer has.

	uc := &usecase.SearchPlaces{Index: idx, Places: places}

	bbox := entity.MapBbox{SouthWest: entity.MapPoint{Lat: -1, Lng: -1}, NorthEast: entity.MapPoint{Lat: 1, Lng: 1}}
	got, err := uc.Do(context.Background(), nil, search.QueryFilter{Bbox: &bbox, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchPlaces_RequiresBbox(t *testing.T) {
	uc := &usecase.SearchPlaces{Index: newFakePlaceIndexer(), Places: newFakePlaceRepo()}

	_, err := uc.Do(context.Background(), nil, search.QueryFilter{Limit: 10})
	require.Error(t, err)
}

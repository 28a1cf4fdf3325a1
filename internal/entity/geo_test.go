package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openfairdb/ofdb-core/internal/entity"
)

func TestMapBbox_Contains(t *testing.T) {
	box := entity.MapBbox{
		SouthWest: entity.MapPoint{Lat: 10, Lng: 10},
		NorthEast: entity.MapPoint{Lat: 20, Lng: 20},
	}

	assert.True(t, box.Contains(entity.MapPoint{Lat: 15, Lng: 15}))
	assert.False(t, box.Contains(entity.MapPoint{Lat: 25, Lng: 15}))
	assert.False(t, box.Contains(entity.MapPoint{Lat: 15, Lng: 25}))
}

func TestMapBbox_ContainsAntimeridianWrap(t *testing.T) {
	box := entity.MapBbox{
		SouthWest: entity.MapPoint{Lat: -10, Lng: 170},
		NorthEast: entity.MapPoint{Lat: 10, Lng: -170},
	}

	assert.True(t, box.Contains(entity.MapPoint{Lat: 0, Lng: 175}))
	assert.True(t, box.Contains(entity.MapPoint{Lat: 0, Lng: -175}))
	assert.False(t, box.Contains(entity.MapPoint{Lat: 0, Lng: 0}))
}

func TestMapBbox_Valid(t *testing.T) {
	valid := entity.MapBbox{
		SouthWest: entity.MapPoint{Lat: 10, Lng: 10},
		NorthEast: entity.MapPoint{Lat: 20, Lng: 20},
	}
	assert.True(t, valid.Valid())

	invalid := entity.MapBbox{
		SouthWest: entity.MapPoint{Lat: 20, Lng: 10},
		NorthEast: entity.MapPoint{Lat: 10, Lng: 20},
	}
	assert.False(t, invalid.Valid())
}

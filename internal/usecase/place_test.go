package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/log"
	"github.com/openfairdb/ofdb-core/internal/usecase"
)

func newPlaceInput(tags ...string) entity.NewPlaceInput {
	return entity.NewPlaceInput{
		Title:    "Kaffee Baum",
		Location: entity.Location{Pos: entity.MapPoint{Lat: 51.3, Lng: 12.37}},
		License:  "CC0-1.0",
		Tags:     tags,
	}
}

func TestCreatePlace_PersistsAndFiresEffects(t *testing.T) {
	places := newFakePlaceRepo()
	effects := &fakeEffects{}
	uc := &usecase.CreatePlace{
		Places:    places,
		Orgs:      newFakeOrganizationRepo(),
		Clearance: newFakeClearanceRepo(),
		Effects:   effects,
		Accepted:  usecase.NewAcceptedLicenses("CC0-1.0"),
		Logger:    log.Noop(),
	}

	place, err := uc.Do(context.Background(), nil, newPlaceInput("Cafe", "cafe"))
	require.NoError(t, err)
	assert.Equal(t, entity.Revision(0), place.Revision)
	assert.Equal(t, []string{"cafe"}, place.Tags)
	assert.Equal(t, entity.StatusCreated, place.Status)

	stored, err := places.GetCurrent(context.Background(), nil, place.Id)
	require.NoError(t, err)
	assert.Equal(t, place.Title, stored.Title)

	assert.Equal(t, []entity.Id{place.Id}, effects.reindexed)
	assert.Equal(t, []entity.Id{place.Id}, effects.added)
}

func TestCreatePlace_RejectsUnacceptedLicense(t *testing.T) {
	uc := &usecase.CreatePlace{
		Places:    newFakePlaceRepo(),
		Orgs:      newFakeOrganizationRepo(),
		Clearance: newFakeClearanceRepo(),
		Accepted:  usecase.NewAcceptedLicenses("ODbL-1.0"),
		Logger:    log.Noop(),
	}

	_, err := uc.Do(context.Background(), nil, newPlaceInput())
	require.Error(t, err)
}

func TestCreatePlace_RejectsInvalidPosition(t *testing.T) {
	uc := &usecase.CreatePlace{
		Places:    newFakePlaceRepo(),
		Orgs:      newFakeOrganizationRepo(),
		Clearance: newFakeClearanceRepo(),
		Accepted:  usecase.NewAcceptedLicenses("CC0-1.0"),
		Logger:    log.Noop(),
	}

	in := newPlaceInput()
	in.Location.Pos = entity.MapPoint{Lat: 1000, Lng: 0}

	_, err := uc.Do(context.Background(), nil, in)
	require.Error(t, err)
}

func TestUpdatePlace_ArchivesPriorRevisionAndResetsStatus(t *testing.T) {
	places := newFakePlaceRepo()
	create := &usecase.CreatePlace{
		Places:    places,
		Orgs:      newFakeOrganizationRepo(),
		Clearance: newFakeClearanceRepo(),
		Accepted:  usecase.NewAcceptedLicenses("CC0-1.0"),
		Logger:    log.Noop(),
	}

	place, err := create.Do(context.Background(), nil, newPlaceInput())
	require.NoError(t, err)

	// Simulate a confirmed place being edited again.
	stored, _ := places.GetCurrent(context.Background(), nil, place.Id)
	stored.Status = entity.StatusConfirmed
	require.NoError(t, places.Update(context.Background(), nil, stored))

	update := &usecase.UpdatePlace{
		Places:    places,
		Orgs:      newFakeOrganizationRepo(),
		Clearance: newFakeClearanceRepo(),
		Accepted:  usecase.NewAcceptedLicenses("CC0-1.0"),
		Logger:    log.Noop(),
	}

	in := newPlaceInput()
	in.Title = "Kaffee Baum Renamed"

	next, err := update.Do(context.Background(), nil, place.Id, in)
	require.NoError(t, err)
	assert.Equal(t, entity.Revision(1), next.Revision)
	assert.Equal(t, "Kaffee Baum Renamed", next.Title)
	assert.Equal(t, entity.StatusCreated, next.Status)
}

func TestReviewPlaces_PartialApplicationTolerated(t *testing.T) {
	places := newFakePlaceRepo()
	create := &usecase.CreatePlace{
		Places:    places,
		Orgs:      newFakeOrganizationRepo(),
		Clearance: newFakeClearanceRepo(),
		Accepted:  usecase.NewAcceptedLicenses("CC0-1.0"),
		Logger:    log.Noop(),
	}

	place, err := create.Do(context.Background(), nil, newPlaceInput())
	require.NoError(t, err)

	review := &usecase.ReviewPlaces{Places: places, Logger: log.Noop()}
	n, err := review.Do(context.Background(), nil, usecase.ReviewInput{
		Ids:     []entity.Id{place.Id, "does-not-exist"},
		Status:  entity.StatusConfirmed,
		By:      mustEmail(t, "scout@example.com"),
		Context: "looks good",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := places.GetCurrent(context.Background(), nil, place.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, stored.Status)
	require.Len(t, stored.ReviewLog, 1)
}

func mustEmail(t *testing.T, s string) entity.EmailAddress {
	t.Helper()
	e, err := entity.ParseEmailAddress(s)
	require.NoError(t, err)
	return e
}

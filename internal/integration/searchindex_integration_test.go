//go:build integration

// Package integration holds the testcontainers-backed suite that
// exercises adapters against a real Postgres instance rather than a
// mock, grounded on the teacher's tests/utils/redis.SetupContainer.
// Run with: go test -tags=integration ./internal/integration/...
package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/openfairdb/ofdb-core/internal/adapters/postgres/searchindex"
	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
	"github.com/openfairdb/ofdb-core/internal/search"
)

const placeSearchIndexSchema = `
CREATE TABLE place_search_index (
	id            text PRIMARY KEY,
	lat           double precision NOT NULL,
	lng           double precision NOT NULL,
	categories    text[] NOT NULL DEFAULT '{}',
	tags          text[] NOT NULL DEFAULT '{}',
	status        smallint NOT NULL,
	avg_rating    double precision NOT NULL DEFAULT 0,
	search_vector tsvector NOT NULL
)`

// setupPostgres starts a Postgres container and returns a connected
// pg.Hub with placeSearchIndexSchema already applied. Hub.Connect
// assumes the target schema exists (internal/platform/pg.Hub doc
// comment); this is where that assumption is satisfied for tests.
func setupPostgres(t *testing.T) *pg.Hub {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "ofdb",
			"POSTGRES_PASSWORD": "ofdb",
			"POSTGRES_DB":       "ofdb",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections"),
			wait.ForListeningPort("5432/tcp"),
		).WithDeadline(60 * time.Second),
	}

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start postgres container")

	t.Cleanup(func() {
		_ = ctr.Terminate(context.Background())
	})

	host, err := ctr.Host(ctx)
	require.NoError(t, err)

	port, err := ctr.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := "postgres://ofdb:ofdb@" + host + ":" + port.Port() + "/ofdb?sslmode=disable"

	hub := &pg.Hub{PrimaryDSN: dsn, ReplicaDSN: dsn}
	require.NoError(t, hub.Connect(ctx))

	err = hub.Exclusive(ctx, func(ctx context.Context, q pg.Queryer) error {
		_, err := q.ExecContext(ctx, placeSearchIndexSchema)
		return err
	})
	require.NoError(t, err, "failed to apply schema")

	return hub
}

func bbox() entity.MapBbox {
	return entity.MapBbox{
		SouthWest: entity.MapPoint{Lat: -10, Lng: -10},
		NorthEast: entity.MapPoint{Lat: 10, Lng: 10},
	}
}

func newPlace(title string, status entity.ReviewStatus) *entity.Place {
	return &entity.Place{
		Id:       entity.NewId(),
		Title:    title,
		Location: entity.Location{Pos: entity.MapPoint{Lat: 1, Lng: 1}},
		Status:   status,
	}
}

// TestPlaceIndex_QueryDefaultsToCreatedOrConfirmed exercises the
// Open Question decision 3 recorded in SPEC_FULL.md: an empty
// status[] must exclude Archived and Rejected places.
func TestPlaceIndex_QueryDefaultsToCreatedOrConfirmed(t *testing.T) {
	hub := setupPostgres(t)
	idx := searchindex.NewPlaceIndex(hub)
	ctx := context.Background()

	confirmed := newPlace("confirmed", entity.StatusConfirmed)
	archived := newPlace("archived", entity.StatusArchived)

	require.NoError(t, idx.AddOrUpdate(ctx, confirmed, search.AverageRatings{Total: decimal.NewFromInt(1)}))
	require.NoError(t, idx.AddOrUpdate(ctx, archived, search.AverageRatings{Total: decimal.NewFromInt(1)}))

	b := bbox()
	ids, err := idx.Query(ctx, search.QueryFilter{Bbox: &b, Limit: 10})
	require.NoError(t, err)

	require.Contains(t, ids, confirmed.Id)
	require.NotContains(t, ids, archived.Id)
}

// TestPlaceIndex_QueryOrdersByRelevanceWhenTextPresent exercises
// spec.md §4.4: text search sorts by relevance, not by avg_rating.
func TestPlaceIndex_QueryOrdersByRelevanceWhenTextPresent(t *testing.T) {
	hub := setupPostgres(t)
	idx := searchindex.NewPlaceIndex(hub)
	ctx := context.Background()

	onTopic := newPlace("lighthouse", entity.StatusConfirmed)
	onTopic.Title = "lighthouse lighthouse lighthouse"
	onTopic.Description = "a beacon"

	offTopic := newPlace("other", entity.StatusConfirmed)
	offTopic.Title = "lighthouse"
	offTopic.Description = "unrelated text"

	require.NoError(t, idx.AddOrUpdate(ctx, onTopic, search.AverageRatings{Total: decimal.Zero}))
	require.NoError(t, idx.AddOrUpdate(ctx, offTopic, search.AverageRatings{Total: decimal.NewFromInt(2)}))

	b := bbox()
	ids, err := idx.Query(ctx, search.QueryFilter{Bbox: &b, Text: "lighthouse", Limit: 10})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Equal(t, onTopic.Id, ids[0])
}

package usecase

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/repo"
	"github.com/openfairdb/ofdb-core/internal/search"
)

// SearchPlaces implements spec.md §6's search_places(filter): query the
// index for matching ids, then hydrate them from the primary store so
// callers never see an index that is momentarily ahead of or behind the
// primary (spec.md §4.4's eventual-consistency note applies to the
// index entries themselves, not to what SearchPlaces returns for a hit).
type SearchPlaces struct {
	Index  search.PlaceIndexer
	Places repo.PlaceRepo
}

func (uc *SearchPlaces) Do(ctx context.Context, q execQueryer, filter search.QueryFilter) ([]*entity.Place, error) {
	ctx, span := otelx.StartSpan(ctx, "search_places")
	defer span.End()

	if err := filter.Validate(true); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, err
	}

	ids, err := uc.Index.Query(ctx, filter)
	if err != nil {
		otelx.Fail(span, "query index", err)
		return nil, err
	}

	places, err := uc.Places.ByIds(ctx, q, ids)
	if err != nil {
		otelx.Fail(span, "hydrate", err)
		return nil, err
	}

	return reorderPlaces(ids, places), nil
}

// QueryEvents implements spec.md §6's query_events(filter): bbox is
// optional here, unlike SearchPlaces.
type QueryEvents struct {
	Index  search.EventIndexer
	Events repo.EventRepo
}

func (uc *QueryEvents) Do(ctx context.Context, q execQueryer, filter search.QueryFilter) ([]*entity.Event, error) {
	ctx, span := otelx.StartSpan(ctx, "query_events")
	defer span.End()

	if err := filter.Validate(false); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, err
	}

	ids, err := uc.Index.Query(ctx, filter)
	if err != nil {
		otelx.Fail(span, "query index", err)
		return nil, err
	}

	events, err := uc.Events.ByIds(ctx, q, ids)
	if err != nil {
		otelx.Fail(span, "hydrate", err)
		return nil, err
	}

	return reorderEvents(ids, events), nil
}

// reorderPlaces restores the index's relevance ordering, which ByIds
// (a set lookup) does not preserve; ids with no matching place (e.g. a
// reindex race) are dropped rather than padding the result with nils.
func reorderPlaces(ids []entity.Id, places []*entity.Place) []*entity.Place {
	byId := make(map[entity.Id]*entity.Place, len(places))
	for _, p := range places {
		byId[p.Id] = p
	}

	out := make([]*entity.Place, 0, len(ids))
	for _, id := range ids {
		if p, ok := byId[id]; ok {
			out = append(out, p)
		}
	}

	return out
}

func reorderEvents(ids []entity.Id, events []*entity.Event) []*entity.Event {
	byId := make(map[entity.Id]*entity.Event, len(events))
	for _, e := range events {
		byId[e.Id] = e
	}

	out := make([]*entity.Event, 0, len(ids))
	for _, id := range ids {
		if e, ok := byId[id]; ok {
			out = append(out, e)
		}
	}

	return out
}

// Package searchindex is the Postgres tsvector-backed
// reference implementation of search.PlaceIndexer and
// search.EventIndexer (spec.md §4.4). It is write-through from
// internal/flow's IndexerConsumer, never written synchronously by a
// use-case, and fully recoverable by reindex-from-truth: dropping and
// repopulating the index tables from place_current/event loses nothing
// but freshness.
package searchindex

import (
	"context"
	"strings"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
	"github.com/openfairdb/ofdb-core/internal/search"
)

// PlaceIndex is the Postgres-backed search.PlaceIndexer.
type PlaceIndex struct {
	Hub *pg.Hub
}

func NewPlaceIndex(hub *pg.Hub) *PlaceIndex {
	return &PlaceIndex{Hub: hub}
}

func (idx *PlaceIndex) AddOrUpdate(ctx context.Context, place *entity.Place, avg search.AverageRatings) error {
	ctx, span := otelx.StartSpan(ctx, "searchindex.place.add_or_update")
	defer span.End()

	categories := make([]string, len(place.Categories))
	for i, c := range place.Categories {
		categories[i] = string(c)
	}

	text := strings.Join(append([]string{place.Title, place.Description}, place.Tags...), " ")
	avgTotal, _ := avg.Total.Float64()

	return idx.Hub.Exclusive(ctx, func(ctx context.Context, q pg.Queryer) error {
		_, err := q.ExecContext(ctx, `INSERT INTO place_search_index
			(id, lat, lng, categories, tags, status, avg_rating, search_vector)
			VALUES ($1,$2,$3,$4,$5,$6,$7, to_tsvector('simple', $8))
			ON CONFLICT (id) DO UPDATE SET
				lat = EXCLUDED.lat, lng = EXCLUDED.lng, categories = EXCLUDED.categories,
				tags = EXCLUDED.tags, status = EXCLUDED.status, avg_rating = EXCLUDED.avg_rating,
				search_vector = EXCLUDED.search_vector`,
			string(place.Id), place.Location.Pos.Lat, place.Location.Pos.Lng,
			pq.StringArray(categories), pq.StringArray(place.Tags), int16(place.Status), avgTotal, text,
		)
		if err != nil {
			otelx.Fail(span, "exec", err)
			return apperr.Wrap("searchindex: place add_or_update", err)
		}

		return nil
	})
}

func (idx *PlaceIndex) RemoveById(ctx context.Context, id entity.Id) error {
	ctx, span := otelx.StartSpan(ctx, "searchindex.place.remove_by_id")
	defer span.End()

	return idx.Hub.Exclusive(ctx, func(ctx context.Context, q pg.Queryer) error {
		if _, err := q.ExecContext(ctx, `DELETE FROM place_search_index WHERE id = $1`, string(id)); err != nil {
			otelx.Fail(span, "exec", err)
			return apperr.Wrap("searchindex: place remove", err)
		}

		return nil
	})
}

// Flush is a no-op: every write commits immediately, there is no
// buffering layer to drain.
func (idx *PlaceIndex) Flush(ctx context.Context) error {
	return nil
}

func (idx *PlaceIndex) Query(ctx context.Context, filter search.QueryFilter) ([]entity.Id, error) {
	ctx, span := otelx.StartSpan(ctx, "searchindex.place.query")
	defer span.End()

	if err := filter.Validate(true); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, err
	}

	builder := sqrl.Select("id").From("place_search_index").
		Where(bboxWhere(*filter.Bbox)).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(sqrl.Dollar)

	if filter.Text != "" {
		builder = builder.Column("ts_rank(search_vector, plainto_tsquery('simple', ?)) AS rank", filter.Text).
			OrderBy("rank DESC", "id ASC")
	} else {
		builder = builder.OrderBy("avg_rating DESC", "id ASC")
	}

	builder = applyCommonFilters(builder, filter, true)

	var ids []entity.Id

	err := idx.Hub.Shared(ctx, func(ctx context.Context, q pg.Queryer) error {
		query, args, err := builder.ToSql()
		if err != nil {
			return apperr.Wrap("searchindex: build query", err)
		}

		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return apperr.Wrap("searchindex: place query", err)
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			var rank float64

			if filter.Text != "" {
				err = rows.Scan(&id, &rank)
			} else {
				err = rows.Scan(&id)
			}

			if err != nil {
				return apperr.Wrap("searchindex: scan", err)
			}

			ids = append(ids, entity.Id(id))
		}

		return rows.Err()
	})
	if err != nil {
		otelx.Fail(span, "query", err)
		return nil, err
	}

	return ids, nil
}

// EventIndex is the Postgres-backed search.EventIndexer.
type EventIndex struct {
	Hub *pg.Hub
}

func NewEventIndex(hub *pg.Hub) *EventIndex {
	return &EventIndex{Hub: hub}
}

func (idx *EventIndex) AddOrUpdate(ctx context.Context, event *entity.Event) error {
	ctx, span := otelx.StartSpan(ctx, "searchindex.event.add_or_update")
	defer span.End()

	var lat, lng *float64
	if event.Location != nil {
		lat, lng = &event.Location.Pos.Lat, &event.Location.Pos.Lng
	}

	text := strings.Join(append([]string{event.Title}, event.Tags...), " ")

	return idx.Hub.Exclusive(ctx, func(ctx context.Context, q pg.Queryer) error {
		_, err := q.ExecContext(ctx, `INSERT INTO event_search_index
			(id, lat, lng, tags, archived, search_vector)
			VALUES ($1,$2,$3,$4,$5, to_tsvector('simple', $6))
			ON CONFLICT (id) DO UPDATE SET
				lat = EXCLUDED.lat, lng = EXCLUDED.lng, tags = EXCLUDED.tags,
				archived = EXCLUDED.archived, search_vector = EXCLUDED.search_vector`,
			string(event.Id), lat, lng, pq.StringArray(event.Tags), event.Archived != nil, text,
		)
		if err != nil {
			otelx.Fail(span, "exec", err)
			return apperr.Wrap("searchindex: event add_or_update", err)
		}

		return nil
	})
}

func (idx *EventIndex) RemoveById(ctx context.Context, id entity.Id) error {
	ctx, span := otelx.StartSpan(ctx, "searchindex.event.remove_by_id")
	defer span.End()

	return idx.Hub.Exclusive(ctx, func(ctx context.Context, q pg.Queryer) error {
		if _, err := q.ExecContext(ctx, `DELETE FROM event_search_index WHERE id = $1`, string(id)); err != nil {
			otelx.Fail(span, "exec", err)
			return apperr.Wrap("searchindex: event remove", err)
		}

		return nil
	})
}

func (idx *EventIndex) Flush(ctx context.Context) error {
	return nil
}

func (idx *EventIndex) Query(ctx context.Context, filter search.QueryFilter) ([]entity.Id, error) {
	ctx, span := otelx.StartSpan(ctx, "searchindex.event.query")
	defer span.End()

	if err := filter.Validate(false); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, err
	}

	builder := sqrl.Select("id").From("event_search_index").
		OrderBy("id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(sqrl.Dollar)

	if filter.Bbox != nil {
		builder = builder.Where(bboxWhere(*filter.Bbox))
	}

	builder = applyCommonFilters(builder, filter, false)

	var ids []entity.Id

	err := idx.Hub.Shared(ctx, func(ctx context.Context, q pg.Queryer) error {
		query, args, err := builder.ToSql()
		if err != nil {
			return apperr.Wrap("searchindex: build query", err)
		}

		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return apperr.Wrap("searchindex: event query", err)
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return apperr.Wrap("searchindex: scan", err)
			}

			ids = append(ids, entity.Id(id))
		}

		return rows.Err()
	})
	if err != nil {
		otelx.Fail(span, "query", err)
		return nil, err
	}

	return ids, nil
}

// bboxWhere builds the antimeridian-aware containment predicate shared
// by both indexes, mirroring entity.MapBbox.Contains.
func bboxWhere(b entity.MapBbox) sqrl.Sqlizer {
	lat := sqrl.And{
		sqrl.GtOrEq{"lat": b.SouthWest.Lat},
		sqrl.LtOrEq{"lat": b.NorthEast.Lat},
	}

	if b.SouthWest.Lng <= b.NorthEast.Lng {
		return sqrl.And{lat, sqrl.GtOrEq{"lng": b.SouthWest.Lng}, sqrl.LtOrEq{"lng": b.NorthEast.Lng}}
	}

	return sqrl.And{lat, sqrl.Or{sqrl.GtOrEq{"lng": b.SouthWest.Lng}, sqrl.LtOrEq{"lng": b.NorthEast.Lng}}}
}

// applyCommonFilters adds the predicates shared by both indexes.
// isPlace gates categories and status: event_search_index carries
// neither column since events have no categories and no review-status
// state machine (spec.md §3).
func applyCommonFilters(builder sqrl.SelectBuilder, filter search.QueryFilter, isPlace bool) sqrl.SelectBuilder {
	if filter.Text != "" {
		builder = builder.Where("search_vector @@ plainto_tsquery('simple', ?)", filter.Text)
	}

	if len(filter.Tags) > 0 {
		builder = builder.Where("tags && ?", pq.StringArray(filter.Tags))
	}

	if isPlace && len(filter.Categories) > 0 {
		raw := make([]string, len(filter.Categories))
		for i, c := range filter.Categories {
			raw[i] = string(c)
		}

		builder = builder.Where("categories && ?", pq.StringArray(raw))
	}

	if isPlace {
		statuses := filter.Status
		if len(statuses) == 0 {
			// Open Question decision 3 (SPEC_FULL.md): an empty
			// status[] means "Created or Confirmed", never every
			// status, so Archived/Rejected places stay out of
			// default search results.
			statuses = []entity.ReviewStatus{entity.StatusCreated, entity.StatusConfirmed}
		}

		raw := make([]int16, len(statuses))
		for i, s := range statuses {
			raw[i] = int16(s)
		}

		builder = builder.Where(sqrl.Eq{"status": raw})
	}

	if len(filter.Ids) > 0 {
		raw := make([]string, len(filter.Ids))
		for i, id := range filter.Ids {
			raw[i] = string(id)
		}

		builder = builder.Where(sqrl.Eq{"id": raw})
	}

	return builder
}

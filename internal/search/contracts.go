// Package search declares the PlaceIndexer/EventIndexer contracts from
// spec.md §4.4, their shared QueryFilter, and the avg_ratings
// aggregation that feeds the index and its ordering. It has no direct
// pack analogue — no bleve/elasticsearch/meilisearch client appears in
// the example repos — so the reference implementation in
// internal/adapters/searchindex targets Postgres tsvector search
// instead (see DESIGN.md).
package search

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
)

// PlaceIndexer is the write/query surface for the place search index.
type PlaceIndexer interface {
	AddOrUpdate(ctx context.Context, place *entity.Place, avg AverageRatings) error
	RemoveById(ctx context.Context, id entity.Id) error
	Flush(ctx context.Context) error
	Query(ctx context.Context, filter QueryFilter) ([]entity.Id, error)
}

// EventIndexer is the write/query surface for the event search index.
type EventIndexer interface {
	AddOrUpdate(ctx context.Context, event *entity.Event) error
	RemoveById(ctx context.Context, id entity.Id) error
	Flush(ctx context.Context) error
	Query(ctx context.Context, filter QueryFilter) ([]entity.Id, error)
}

// MaxLimit is the hard upper bound on QueryFilter.Limit (spec.md §4.4:
// "pagination (offset, limit with hard upper bound)").
const MaxLimit = 500

// QueryFilter carries every dimension a place/event search can
// restrict on. Bbox is required for place search, optional for event
// search (spec.md §4.4).
type QueryFilter struct {
	Bbox       *entity.MapBbox
	Text       string
	Tags       []string
	Categories []entity.Id
	Status     []entity.ReviewStatus
	Ids        []entity.Id

	Offset int
	Limit  int
}

// Validate checks the pagination bound and, when requireBbox is set
// (place search), that Bbox is present and well-formed.
func (f QueryFilter) Validate(requireBbox bool) error {
	if requireBbox {
		if f.Bbox == nil || !f.Bbox.Valid() {
			return errInvalidBbox
		}
	} else if f.Bbox != nil && !f.Bbox.Valid() {
		return errInvalidBbox
	}

	if f.Limit <= 0 || f.Limit > MaxLimit {
		return errInvalidLimit
	}

	if f.Offset < 0 {
		return errInvalidLimit
	}

	return nil
}

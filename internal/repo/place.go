// Package repo declares the capability interfaces use-cases depend on,
// one per entity, grounded on the teacher's per-aggregate Repository
// interfaces (e.g. onboarding/organization.Repository). Every method
// takes a pg.Queryer so the same implementation runs against either
// the shared (replica) or exclusive (primary, in-transaction)
// connection mode from spec.md §4.1 — the caller decides which by
// choosing which Queryer it passes in.
package repo

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// PlaceRepo persists places and their revision history.
type PlaceRepo interface {
	// Create inserts a new place at revision 0.
	Create(ctx context.Context, q pg.Queryer, place *entity.Place) error

	// GetCurrent loads the current revision of a place by id.
	GetCurrent(ctx context.Context, q pg.Queryer, id entity.Id) (*entity.Place, error)

	// GetRevision loads a specific historical revision.
	GetRevision(ctx context.Context, q pg.Queryer, key entity.CurrentRevisionKey) (*entity.Place, error)

	// Update archives the current row as history and inserts place as
	// the new current revision.
	Update(ctx context.Context, q pg.Queryer, place *entity.Place) error

	// AppendReviewLog appends a review-log entry and updates status
	// for the current revision of id.
	AppendReviewLog(ctx context.Context, q pg.Queryer, id entity.Id, status entity.ReviewStatus, entry entity.ReviewLogEntry) error

	// ReviewBatch applies a status transition to every place in ids,
	// appending entry to each, and returns the count actually updated
	// (spec.md §4.2: "callers MUST tolerate partial application").
	ReviewBatch(ctx context.Context, q pg.Queryer, ids []entity.Id, status entity.ReviewStatus, entry entity.ReviewLogEntry) (int, error)

	// ByIds loads the current revision of every id found; missing ids
	// are silently omitted from the result.
	ByIds(ctx context.Context, q pg.Queryer, ids []entity.Id) ([]*entity.Place, error)
}

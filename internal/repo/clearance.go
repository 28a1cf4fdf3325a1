package repo

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// PlaceClearanceRepo persists the per-organization pending-clearance
// queue described in spec.md §4.3.
type PlaceClearanceRepo interface {
	// Upsert inserts or refreshes a pending row for (orgId, placeId),
	// preserving last_cleared_revision when the row already exists.
	Upsert(ctx context.Context, q pg.Queryer, pending entity.PendingClearanceForPlace) error

	// Pending paginates the queue for one organization.
	Pending(ctx context.Context, q pg.Queryer, orgId entity.Id, offset, limit int) ([]entity.PendingClearanceForPlace, error)

	// CountPending returns the total size of orgId's pending-clearance
	// queue, for count_pending_place_clearances (spec.md §6).
	CountPending(ctx context.Context, q pg.Queryer, orgId entity.Id) (int, error)

	// Get loads the pending row for (orgId, placeId), or nil if none.
	Get(ctx context.Context, q pg.Queryer, orgId, placeId entity.Id) (*entity.PendingClearanceForPlace, error)

	// Apply sets last_cleared_revision for (orgId, placeId) to clearance.
	// ClearedRevision, then deletes the row when it now equals
	// currentRevision.
	Apply(ctx context.Context, q pg.Queryer, orgId entity.Id, clearance entity.ClearanceForPlace, currentRevision entity.Revision) error
}

// Package clearance implements spec.md §4.3's clearance-application
// and read-projection rules, grounded on components/crm's flat
// service-function style: one small struct per operation holding only
// the repos it needs, not an aggregate UseCase.
package clearance

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// ListPending paginates one organization's pending-clearance queue.
type ListPending struct {
	Clearance repo.PlaceClearanceRepo
}

func (uc *ListPending) Do(ctx context.Context, q execQueryer, orgId entity.Id, offset, limit int) ([]entity.PendingClearanceForPlace, error) {
	ctx, span := otelx.StartSpan(ctx, "list_pending_clearance")
	defer span.End()

	rows, err := uc.Clearance.Pending(ctx, q, orgId, offset, limit)
	if err != nil {
		otelx.Fail(span, "load pending clearance", err)
		return nil, err
	}

	return rows, nil
}

// CountPending returns the total size of one organization's
// pending-clearance queue, independent of ListPending's pagination
// window (spec.md §6: "count_pending_place_clearances").
type CountPending struct {
	Clearance repo.PlaceClearanceRepo
}

func (uc *CountPending) Do(ctx context.Context, q execQueryer, orgId entity.Id) (int, error) {
	ctx, span := otelx.StartSpan(ctx, "count_pending_clearance")
	defer span.End()

	n, err := uc.Clearance.CountPending(ctx, q, orgId)
	if err != nil {
		otelx.Fail(span, "count", err)
		return 0, err
	}

	return n, nil
}

// ApplyBatch implements spec.md §4.3's clearance-application
// semantics: for each entry, if ClearedRevision is given it must match
// an existing revision of the place; on match, last_cleared_revision
// is set and the pending row is garbage-collected once it equals the
// place's current revision. Entries with ClearedRevision omitted leave
// the row unchanged ("decline clearance for now"). Returns the count
// of rows actually updated.
type ApplyBatch struct {
	Clearance repo.PlaceClearanceRepo
	Places    repo.PlaceRepo
}

func (uc *ApplyBatch) Do(ctx context.Context, q execQueryer, orgId entity.Id, entries []entity.ClearanceForPlace) (int, error) {
	ctx, span := otelx.StartSpan(ctx, "apply_clearance_batch")
	defer span.End()

	updated := 0

	for _, entry := range entries {
		if entry.ClearedRevision == nil {
			continue
		}

		place, err := uc.Places.GetCurrent(ctx, q, entry.PlaceId)
		if err != nil {
			otelx.Fail(span, "load place", err)
			return updated, err
		}

		if _, err := uc.Places.GetRevision(ctx, q, entity.CurrentRevisionKey{PlaceId: entry.PlaceId, Revision: *entry.ClearedRevision}); err != nil {
			otelx.Fail(span, "load cleared revision", err)
			return updated, apperr.Wrap("clearance: revision must exist", err)
		}

		if err := uc.Clearance.Apply(ctx, q, orgId, entry, place.Revision); err != nil {
			otelx.Fail(span, "apply clearance", err)
			return updated, err
		}

		updated++
	}

	return updated, nil
}

// Project implements spec.md §4.3's read-projection rule: remaps a
// place's visible revision to last_cleared_revision, falling back to
// current when no pending row exists.
type Project struct {
	Clearance repo.PlaceClearanceRepo
	Places    repo.PlaceRepo
}

// Do returns the place revision that orgId is entitled to see for
// placeId.
func (uc *Project) Do(ctx context.Context, q execQueryer, orgId, placeId entity.Id) (*entity.Place, error) {
	ctx, span := otelx.StartSpan(ctx, "project_cleared_place")
	defer span.End()

	current, err := uc.Places.GetCurrent(ctx, q, placeId)
	if err != nil {
		otelx.Fail(span, "load current revision", err)
		return nil, err
	}

	pending, err := uc.Clearance.Get(ctx, q, orgId, placeId)
	if err != nil {
		otelx.Fail(span, "load pending clearance", err)
		return nil, err
	}

	visible := pending.ClearedRevisionOrCurrent(current.Revision)
	if visible == current.Revision {
		return current, nil
	}

	return uc.Places.GetRevision(ctx, q, entity.CurrentRevisionKey{PlaceId: placeId, Revision: visible})
}

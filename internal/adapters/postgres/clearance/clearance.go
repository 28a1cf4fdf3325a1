// Package clearance is the Postgres implementation of
// repo.PlaceClearanceRepo, grounded on the unique-key upsert pattern
// holder-link.go uses for its link table, generalized to carry a
// nullable last_cleared_revision.
package clearance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sqrl "github.com/Masterminds/squirrel"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// Repository is the Postgres-backed repo.PlaceClearanceRepo.
type Repository struct{}

func New() *Repository {
	return &Repository{}
}

// Upsert inserts a pending row, or touches created_at only if one
// already exists — last_cleared_revision is never overwritten here,
// only by Apply.
func (r *Repository) Upsert(ctx context.Context, q pg.Queryer, pending entity.PendingClearanceForPlace) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.clearance.upsert")
	defer span.End()

	_, err := q.ExecContext(ctx, `INSERT INTO place_clearance (org_id, place_id, created_at, last_cleared_revision)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (org_id, place_id) DO UPDATE SET created_at = EXCLUDED.created_at`,
		string(pending.OrgId), string(pending.PlaceId), pending.CreatedAt.UnixMilli(), nullRevision(pending.LastClearedRevision),
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return pg.TranslateConstraint(err, "place_clearance", nil)
	}

	return nil
}

func (r *Repository) Pending(ctx context.Context, q pg.Queryer, orgId entity.Id, offset, limit int) ([]entity.PendingClearanceForPlace, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.clearance.pending")
	defer span.End()

	query, args, err := sqrl.Select("org_id", "place_id", "created_at", "last_cleared_revision").
		From("place_clearance").
		Where(sqrl.Eq{"org_id": string(orgId)}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(sqrl.Dollar).
		ToSql()
	if err != nil {
		otelx.Fail(span, "build query", err)
		return nil, apperr.Wrap("clearance: build query", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		otelx.Fail(span, "query", err)
		return nil, apperr.Wrap("clearance: pending", err)
	}
	defer rows.Close()

	var out []entity.PendingClearanceForPlace

	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			otelx.Fail(span, "scan", err)
			return nil, err
		}

		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		otelx.Fail(span, "rows", err)
		return nil, apperr.Wrap("clearance: rows", err)
	}

	return out, nil
}

// CountPending returns the total size of orgId's pending-clearance
// queue, independent of Pending's pagination window.
func (r *Repository) CountPending(ctx context.Context, q pg.Queryer, orgId entity.Id) (int, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.clearance.count_pending")
	defer span.End()

	row := q.QueryRowContext(ctx, `SELECT count(*) FROM place_clearance WHERE org_id = $1`, string(orgId))

	var n int
	if err := row.Scan(&n); err != nil {
		otelx.Fail(span, "scan", err)
		return 0, apperr.Wrap("clearance: count pending", err)
	}

	return n, nil
}

func (r *Repository) Get(ctx context.Context, q pg.Queryer, orgId, placeId entity.Id) (*entity.PendingClearanceForPlace, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.clearance.get")
	defer span.End()

	row := q.QueryRowContext(ctx, `SELECT org_id, place_id, created_at, last_cleared_revision
		FROM place_clearance WHERE org_id = $1 AND place_id = $2`, string(orgId), string(placeId))

	p, err := scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		otelx.Fail(span, "scan", err)
		return nil, apperr.Wrap("clearance: get", err)
	}

	return &p, nil
}

// Apply sets last_cleared_revision, then deletes the row once it
// matches currentRevision — a place with no further pending review
// obligation for this organization (spec.md §4.3).
func (r *Repository) Apply(ctx context.Context, q pg.Queryer, orgId entity.Id, c entity.ClearanceForPlace, currentRevision entity.Revision) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.clearance.apply")
	defer span.End()

	if c.ClearedRevision == nil {
		return nil
	}

	result, err := q.ExecContext(ctx, `UPDATE place_clearance SET last_cleared_revision = $3
		WHERE org_id = $1 AND place_id = $2`,
		string(orgId), string(c.PlaceId), int64(*c.ClearedRevision),
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return apperr.Wrap("clearance: apply", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap("clearance: apply", err)
	}

	if affected == 0 {
		err := apperr.NewNotFound("place_clearance", string(c.PlaceId))
		otelx.Fail(span, "apply", err)
		return err
	}

	if *c.ClearedRevision == currentRevision {
		if _, err := q.ExecContext(ctx, `DELETE FROM place_clearance WHERE org_id = $1 AND place_id = $2`,
			string(orgId), string(c.PlaceId)); err != nil {
			otelx.Fail(span, "delete cleared", err)
			return apperr.Wrap("clearance: delete cleared", err)
		}
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (entity.PendingClearanceForPlace, error) {
	var (
		orgId, placeId string
		createdAt      int64
		lastCleared    sql.NullInt64
	)

	if err := s.Scan(&orgId, &placeId, &createdAt, &lastCleared); err != nil {
		return entity.PendingClearanceForPlace{}, err
	}

	p := entity.PendingClearanceForPlace{
		OrgId:     entity.Id(orgId),
		PlaceId:   entity.Id(placeId),
		CreatedAt: time.UnixMilli(createdAt).UTC(),
	}

	if lastCleared.Valid {
		rev := entity.Revision(lastCleared.Int64)
		p.LastClearedRevision = &rev
	}

	return p, nil
}

func nullRevision(r *entity.Revision) sql.NullInt64 {
	if r == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: int64(*r), Valid: true}
}

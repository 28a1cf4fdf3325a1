// Package rating is the Postgres implementation of repo.RatingRepo
// and repo.CommentRepo.
package rating

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

const ratingColumns = `id, place_id, created_at, archived_at, title, value, context, source`
const commentColumns = `id, rating_id, created_at, archived_at, text`

// Repository is the Postgres-backed repo.RatingRepo. CreateWithComment
// also writes the comment table directly: spec.md §4.7 requires rating
// and its initial comment to be created atomically, and introducing a
// second repository dependency just for that one statement would be
// more indirection than the invariant warrants.
type Repository struct{}

func New() *Repository {
	return &Repository{}
}

// CommentRepository is the Postgres-backed repo.CommentRepo.
type CommentRepository struct{}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{}
}

// CreateWithComment inserts rating and comment in the same statement
// batch, relying on the caller having bound q to an exclusive
// transaction (spec.md §4.7).
func (r *Repository) CreateWithComment(ctx context.Context, q pg.Queryer, rating *entity.Rating, comment *entity.Comment) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.rating.create_with_comment")
	defer span.End()

	var source sql.NullString
	if rating.Source != nil {
		source = sql.NullString{String: *rating.Source, Valid: true}
	}

	_, err := q.ExecContext(ctx, `INSERT INTO rating (`+ratingColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		string(rating.Id), string(rating.PlaceId), rating.CreatedAt.UnixMilli(), nullMillis(rating.ArchivedAt),
		rating.Title, int8(rating.Value), int8(rating.Context), source,
	)
	if err != nil {
		otelx.Fail(span, "insert rating", err)
		return pg.TranslateConstraint(err, "rating", nil)
	}

	_, err = q.ExecContext(ctx, `INSERT INTO comment (`+commentColumns+`) VALUES ($1,$2,$3,$4,$5)`,
		string(comment.Id), string(comment.RatingId), comment.CreatedAt.UnixMilli(), nullMillis(comment.ArchivedAt), comment.Text,
	)
	if err != nil {
		otelx.Fail(span, "insert comment", err)
		return pg.TranslateConstraint(err, "comment", nil)
	}

	return nil
}

func (r *Repository) ByPlaceId(ctx context.Context, q pg.Queryer, placeId entity.Id) ([]*entity.Rating, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.rating.by_place_id")
	defer span.End()

	rows, err := q.QueryContext(ctx, `SELECT `+ratingColumns+` FROM rating WHERE place_id = $1`, string(placeId))
	if err != nil {
		otelx.Fail(span, "query", err)
		return nil, apperr.Wrap("rating: by place id", err)
	}
	defer rows.Close()

	var out []*entity.Rating

	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			otelx.Fail(span, "scan", err)
			return nil, err
		}

		out = append(out, rt)
	}

	if err := rows.Err(); err != nil {
		otelx.Fail(span, "rows", err)
		return nil, apperr.Wrap("rating: rows", err)
	}

	return out, nil
}

func (r *Repository) Get(ctx context.Context, q pg.Queryer, id entity.Id) (*entity.Rating, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.rating.get")
	defer span.End()

	row := q.QueryRowContext(ctx, `SELECT `+ratingColumns+` FROM rating WHERE id = $1`, string(id))

	rt, err := scanRating(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err := apperr.NewNotFound("rating", string(id))
			otelx.Fail(span, "scan", err)
			return nil, err
		}

		otelx.Fail(span, "scan", err)
		return nil, apperr.Wrap("rating: get", err)
	}

	return rt, nil
}

func (r *Repository) ArchiveByPlaceId(ctx context.Context, q pg.Queryer, placeId entity.Id, at int64) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.rating.archive_by_place_id")
	defer span.End()

	_, err := q.ExecContext(ctx, `UPDATE rating SET archived_at = $2 WHERE place_id = $1 AND archived_at IS NULL`, string(placeId), at)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return apperr.Wrap("rating: archive by place id", err)
	}

	return nil
}

func (r *Repository) Archive(ctx context.Context, q pg.Queryer, id entity.Id, at int64) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.rating.archive")
	defer span.End()

	result, err := q.ExecContext(ctx, `UPDATE rating SET archived_at = $2 WHERE id = $1 AND archived_at IS NULL`, string(id), at)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return apperr.Wrap("rating: archive", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap("rating: archive", err)
	}

	if affected == 0 {
		err := apperr.NewNotFound("rating", string(id))
		otelx.Fail(span, "archive", err)
		return err
	}

	return nil
}

func (r *CommentRepository) ByRatingId(ctx context.Context, q pg.Queryer, ratingId entity.Id) ([]*entity.Comment, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.comment.by_rating_id")
	defer span.End()

	rows, err := q.QueryContext(ctx, `SELECT `+commentColumns+` FROM comment WHERE rating_id = $1`, string(ratingId))
	if err != nil {
		otelx.Fail(span, "query", err)
		return nil, apperr.Wrap("comment: by rating id", err)
	}
	defer rows.Close()

	var out []*entity.Comment

	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			otelx.Fail(span, "scan", err)
			return nil, err
		}

		out = append(out, c)
	}

	if err := rows.Err(); err != nil {
		otelx.Fail(span, "rows", err)
		return nil, apperr.Wrap("comment: rows", err)
	}

	return out, nil
}

func (r *CommentRepository) ArchiveByPlaceId(ctx context.Context, q pg.Queryer, placeId entity.Id, at int64) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.comment.archive_by_place_id")
	defer span.End()

	_, err := q.ExecContext(ctx, `UPDATE comment SET archived_at = $2
		WHERE archived_at IS NULL AND rating_id IN (SELECT id FROM rating WHERE place_id = $1)`, string(placeId), at)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return apperr.Wrap("comment: archive by place id", err)
	}

	return nil
}

func (r *CommentRepository) Archive(ctx context.Context, q pg.Queryer, id entity.Id, at int64) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.comment.archive")
	defer span.End()

	result, err := q.ExecContext(ctx, `UPDATE comment SET archived_at = $2 WHERE id = $1 AND archived_at IS NULL`, string(id), at)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return apperr.Wrap("comment: archive", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap("comment: archive", err)
	}

	if affected == 0 {
		err := apperr.NewNotFound("comment", string(id))
		otelx.Fail(span, "archive", err)
		return err
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRating(s scanner) (*entity.Rating, error) {
	var (
		id, placeId     string
		createdAt       int64
		archivedAt      sql.NullInt64
		title           string
		value, ctxValue int8
		source          sql.NullString
	)

	if err := s.Scan(&id, &placeId, &createdAt, &archivedAt, &title, &value, &ctxValue, &source); err != nil {
		return nil, err
	}

	rt := &entity.Rating{
		Id:        entity.Id(id),
		PlaceId:   entity.Id(placeId),
		CreatedAt: time.UnixMilli(createdAt).UTC(),
		Title:     title,
		Value:     entity.RatingValue(value),
		Context:   entity.RatingContext(ctxValue),
	}

	if archivedAt.Valid {
		t := time.UnixMilli(archivedAt.Int64).UTC()
		rt.ArchivedAt = &t
	}

	if source.Valid {
		rt.Source = &source.String
	}

	return rt, nil
}

func scanComment(s scanner) (*entity.Comment, error) {
	var (
		id, ratingId string
		createdAt    int64
		archivedAt   sql.NullInt64
		text         string
	)

	if err := s.Scan(&id, &ratingId, &createdAt, &archivedAt, &text); err != nil {
		return nil, err
	}

	c := &entity.Comment{
		Id:        entity.Id(id),
		RatingId:  entity.Id(ratingId),
		CreatedAt: time.UnixMilli(createdAt).UTC(),
		Text:      text,
	}

	if archivedAt.Valid {
		t := time.UnixMilli(archivedAt.Int64).UTC()
		c.ArchivedAt = &t
	}

	return c, nil
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

// Package token is the Postgres implementation of repo.UserTokenRepo
// and repo.ReviewTokenRepo. Both tables are single-row-per-key,
// upsert-on-write, delete-on-consume.
package token

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

// UserTokenRepository is the Postgres-backed repo.UserTokenRepo.
type UserTokenRepository struct{}

func NewUserTokenRepository() *UserTokenRepository {
	return &UserTokenRepository{}
}

// Replace upserts the token for email, discarding any prior one
// (spec.md §4.6).
func (r *UserTokenRepository) Replace(ctx context.Context, q pg.Queryer, t *entity.UserToken) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.user_token.replace")
	defer span.End()

	_, err := q.ExecContext(ctx, `INSERT INTO user_token (email_key, nonce, expires_at) VALUES ($1,$2,$3)
		ON CONFLICT (email_key) DO UPDATE SET nonce = EXCLUDED.nonce, expires_at = EXCLUDED.expires_at`,
		t.Email.Key(), string(t.Nonce), t.ExpiresAt.UnixMilli(),
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return apperr.Wrap("user_token: replace", err)
	}

	return nil
}

// Consume atomically deletes and returns the row for nonce.
func (r *UserTokenRepository) Consume(ctx context.Context, q pg.Queryer, nonce entity.Nonce) (*entity.UserToken, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.user_token.consume")
	defer span.End()

	row := q.QueryRowContext(ctx, `DELETE FROM user_token WHERE nonce = $1 RETURNING email_key, nonce, expires_at`, string(nonce))

	var (
		emailKey string
		rawNonce string
		expires  int64
	)

	if err := row.Scan(&emailKey, &rawNonce, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		otelx.Fail(span, "scan", err)
		return nil, apperr.Wrap("user_token: consume", err)
	}

	email, err := entity.ParseEmailAddress(emailKey)
	if err != nil {
		return nil, apperr.Wrap("user_token: decode email", err)
	}

	return &entity.UserToken{
		Email:     email,
		Nonce:     entity.Nonce(rawNonce),
		ExpiresAt: time.UnixMilli(expires).UTC(),
	}, nil
}

func (r *UserTokenRepository) DeleteExpired(ctx context.Context, q pg.Queryer, now time.Time) (int, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.user_token.delete_expired")
	defer span.End()

	result, err := q.ExecContext(ctx, `DELETE FROM user_token WHERE expires_at < $1`, now.UnixMilli())
	if err != nil {
		otelx.Fail(span, "exec", err)
		return 0, apperr.Wrap("user_token: delete expired", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperr.Wrap("user_token: delete expired", err)
	}

	return int(affected), nil
}

// ReviewTokenRepository is the Postgres-backed repo.ReviewTokenRepo.
type ReviewTokenRepository struct{}

func NewReviewTokenRepository() *ReviewTokenRepository {
	return &ReviewTokenRepository{}
}

func (r *ReviewTokenRepository) Replace(ctx context.Context, q pg.Queryer, t *entity.ReviewToken) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.review_token.replace")
	defer span.End()

	_, err := q.ExecContext(ctx, `INSERT INTO review_token (place_id, place_revision, nonce, expires_at) VALUES ($1,$2,$3,$4)
		ON CONFLICT (place_id) DO UPDATE SET place_revision = EXCLUDED.place_revision, nonce = EXCLUDED.nonce, expires_at = EXCLUDED.expires_at`,
		string(t.ReviewNonce.PlaceId), int64(t.ReviewNonce.PlaceRevision), string(t.ReviewNonce.Nonce), t.ExpiresAt.UnixMilli(),
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return apperr.Wrap("review_token: replace", err)
	}

	return nil
}

func (r *ReviewTokenRepository) Consume(ctx context.Context, q pg.Queryer, nonce entity.Nonce) (*entity.ReviewToken, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.review_token.consume")
	defer span.End()

	row := q.QueryRowContext(ctx, `DELETE FROM review_token WHERE nonce = $1 RETURNING place_id, place_revision, nonce, expires_at`, string(nonce))

	var (
		placeId  string
		revision int64
		rawNonce string
		expires  int64
	)

	if err := row.Scan(&placeId, &revision, &rawNonce, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		otelx.Fail(span, "scan", err)
		return nil, apperr.Wrap("review_token: consume", err)
	}

	return &entity.ReviewToken{
		ReviewNonce: entity.ReviewNonce{
			PlaceId:       entity.Id(placeId),
			PlaceRevision: entity.Revision(revision),
			Nonce:         entity.Nonce(rawNonce),
		},
		ExpiresAt: time.UnixMilli(expires).UTC(),
	}, nil
}

func (r *ReviewTokenRepository) DeleteExpired(ctx context.Context, q pg.Queryer, now time.Time) (int, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.review_token.delete_expired")
	defer span.End()

	result, err := q.ExecContext(ctx, `DELETE FROM review_token WHERE expires_at < $1`, now.UnixMilli())
	if err != nil {
		otelx.Fail(span, "exec", err)
		return 0, apperr.Wrap("review_token: delete expired", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperr.Wrap("review_token: delete expired", err)
	}

	return int(affected), nil
}

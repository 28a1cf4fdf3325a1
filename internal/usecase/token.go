package usecase

import (
	"context"
	"time"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// RefreshUserToken implements spec.md §4.6's refresh_user_token:
// replaces any existing token for email with a fresh nonce and a
// 24-hour expiry.
type RefreshUserToken struct {
	Tokens repo.UserTokenRepo
}

func (uc *RefreshUserToken) Do(ctx context.Context, q execQueryer, email entity.EmailAddress) (*entity.UserToken, error) {
	ctx, span := otelx.StartSpan(ctx, "refresh_user_token")
	defer span.End()

	token := &entity.UserToken{
		Email:     email,
		Nonce:     entity.NewNonce(),
		ExpiresAt: time.Now().UTC().Add(entity.UserTokenTTL),
	}

	if err := uc.Tokens.Replace(ctx, q, token); err != nil {
		otelx.Fail(span, "persist token", err)
		return nil, err
	}

	return token, nil
}

// ConsumeUserToken implements spec.md §4.6's consume_user_token:
// removes and returns the token iff present and not expired.
type ConsumeUserToken struct {
	Tokens repo.UserTokenRepo
	Now    func() time.Time
}

func (uc *ConsumeUserToken) Do(ctx context.Context, q execQueryer, nonce entity.Nonce) (*entity.UserToken, error) {
	ctx, span := otelx.StartSpan(ctx, "consume_user_token")
	defer span.End()

	token, err := uc.Tokens.Consume(ctx, q, nonce)
	if err != nil {
		otelx.Fail(span, "consume", err)
		return nil, err
	}

	if token == nil {
		err := apperr.NewToken(apperr.TokenInvalid)
		otelx.Fail(span, "consume", err)
		return nil, err
	}

	now := time.Now().UTC()
	if uc.Now != nil {
		now = uc.Now()
	}

	if token.Expired(now) {
		err := apperr.NewToken(apperr.TokenExpired)
		otelx.Fail(span, "consume", err)
		return nil, err
	}

	return token, nil
}

// DeleteExpiredUserTokens purges every expired user token.
type DeleteExpiredUserTokens struct {
	Tokens repo.UserTokenRepo
}

func (uc *DeleteExpiredUserTokens) Do(ctx context.Context, q execQueryer) (int, error) {
	ctx, span := otelx.StartSpan(ctx, "delete_expired_user_tokens")
	defer span.End()

	n, err := uc.Tokens.DeleteExpired(ctx, q, time.Now().UTC())
	if err != nil {
		otelx.Fail(span, "purge", err)
		return 0, err
	}

	return n, nil
}

// IssueReviewToken mints a ReviewToken for a place revision, used by
// the review-by-nonce delivery channel (e.g. an email link).
type IssueReviewToken struct {
	Tokens repo.ReviewTokenRepo
	TTL    time.Duration
}

func (uc *IssueReviewToken) Do(ctx context.Context, q execQueryer, placeId entity.Id, revision entity.Revision) (*entity.ReviewToken, error) {
	ctx, span := otelx.StartSpan(ctx, "issue_review_token")
	defer span.End()

	token := &entity.ReviewToken{
		ReviewNonce: entity.ReviewNonce{PlaceId: placeId, PlaceRevision: revision, Nonce: entity.NewNonce()},
		ExpiresAt:   time.Now().UTC().Add(uc.TTL),
	}

	if err := uc.Tokens.Replace(ctx, q, token); err != nil {
		otelx.Fail(span, "persist token", err)
		return nil, err
	}

	return token, nil
}

// DeleteExpiredReviewTokens mirrors DeleteExpiredUserTokens for review
// tokens (spec.md §4.6).
type DeleteExpiredReviewTokens struct {
	Tokens repo.ReviewTokenRepo
}

func (uc *DeleteExpiredReviewTokens) Do(ctx context.Context, q execQueryer) (int, error) {
	ctx, span := otelx.StartSpan(ctx, "delete_expired_review_tokens")
	defer span.End()

	n, err := uc.Tokens.DeleteExpired(ctx, q, time.Now().UTC())
	if err != nil {
		otelx.Fail(span, "purge", err)
		return 0, err
	}

	return n, nil
}

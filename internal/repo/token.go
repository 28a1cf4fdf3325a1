package repo

import (
	"context"
	"time"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// UserTokenRepo persists single-use password-reset/confirmation
// tokens.
type UserTokenRepo interface {
	// Replace upserts the token for email, discarding any prior one
	// (spec.md §4.6: "replaces any existing token for email").
	Replace(ctx context.Context, q pg.Queryer, token *entity.UserToken) error

	// Consume atomically deletes and returns the token for nonce, or
	// nil if none exists (the caller decides TokenInvalid vs.
	// TokenExpired).
	Consume(ctx context.Context, q pg.Queryer, nonce entity.Nonce) (*entity.UserToken, error)

	// DeleteExpired purges every token with expires_at before now and
	// returns the count removed.
	DeleteExpired(ctx context.Context, q pg.Queryer, now time.Time) (int, error)
}

// ReviewTokenRepo mirrors UserTokenRepo for place-review nonces.
type ReviewTokenRepo interface {
	Replace(ctx context.Context, q pg.Queryer, token *entity.ReviewToken) error
	Consume(ctx context.Context, q pg.Queryer, nonce entity.Nonce) (*entity.ReviewToken, error)
	DeleteExpired(ctx context.Context, q pg.Queryer, now time.Time) (int, error)
}

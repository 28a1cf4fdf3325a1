// Package user is the Postgres implementation of repo.UserRepo.
package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// Repository is the Postgres-backed repo.UserRepo. Users are keyed by
// the case-folded email (spec.md §3: "two addresses that differ only
// in case are considered the same user").
type Repository struct{}

func New() *Repository {
	return &Repository{}
}

func (r *Repository) Create(ctx context.Context, q pg.Queryer, u *entity.User) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.user.create")
	defer span.End()

	_, err := q.ExecContext(ctx,
		`INSERT INTO account (email_key, email, email_confirmed, password_hash, role) VALUES ($1,$2,$3,$4,$5)`,
		u.Email.Key(), u.Email.String(), u.EmailConfirmed, u.Password.Hash(), int16(u.Role),
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return pg.TranslateConstraint(err, "user", nil)
	}

	return nil
}

func (r *Repository) ByEmail(ctx context.Context, q pg.Queryer, email entity.EmailAddress) (*entity.User, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.user.by_email")
	defer span.End()

	row := q.QueryRowContext(ctx, `SELECT email, email_confirmed, password_hash, role FROM account WHERE email_key = $1`, email.Key())

	var (
		raw            string
		confirmed      bool
		hash           []byte
		role           int16
	)

	if err := row.Scan(&raw, &confirmed, &hash, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err := apperr.NewNotFound("user", email.Key())
			otelx.Fail(span, "scan", err)
			return nil, err
		}

		otelx.Fail(span, "scan", err)
		return nil, apperr.Wrap("user: by email", err)
	}

	parsed, err := entity.ParseEmailAddress(raw)
	if err != nil {
		return nil, apperr.Wrap("user: decode email", err)
	}

	return &entity.User{
		Email:          parsed,
		EmailConfirmed: confirmed,
		Password:       entity.PasswordFromHash(hash),
		Role:           entity.Role(role),
	}, nil
}

func (r *Repository) Update(ctx context.Context, q pg.Queryer, u *entity.User) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.user.update")
	defer span.End()

	result, err := q.ExecContext(ctx,
		`UPDATE account SET email_confirmed = $2, password_hash = $3, role = $4 WHERE email_key = $1`,
		u.Email.Key(), u.EmailConfirmed, u.Password.Hash(), int16(u.Role),
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return apperr.Wrap("user: update", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap("user: update", err)
	}

	if affected == 0 {
		err := apperr.NewNotFound("user", u.Email.Key())
		otelx.Fail(span, "update", err)
		return err
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, q pg.Queryer, email entity.EmailAddress) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.user.delete")
	defer span.End()

	result, err := q.ExecContext(ctx, `DELETE FROM account WHERE email_key = $1`, email.Key())
	if err != nil {
		otelx.Fail(span, "exec", err)
		return apperr.Wrap("user: delete", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap("user: delete", err)
	}

	if affected == 0 {
		err := apperr.NewNotFound("user", email.Key())
		otelx.Fail(span, "delete", err)
		return err
	}

	return nil
}

package usecase

import (
	"context"
	"errors"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// AuthorizeUserByEmail implements spec.md §4.8's
// authorize_user_by_email.
type AuthorizeUserByEmail struct {
	Users repo.UserRepo
}

// Do returns the User for email if it exists and its role meets
// minRole, otherwise an Unauthorized AuthorizationError. NotFound is
// never distinguished from an insufficient role, to avoid information
// disclosure (spec.md §7).
func (uc *AuthorizeUserByEmail) Do(ctx context.Context, q execQueryer, email entity.EmailAddress, minRole entity.Role) (*entity.User, error) {
	ctx, span := otelx.StartSpan(ctx, "authorize_user_by_email")
	defer span.End()

	user, err := uc.Users.ByEmail(ctx, q, email)
	if err != nil {
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			err := apperr.NewAuth(apperr.AuthUnauthorized)
			otelx.Fail(span, "authorize", err)
			return nil, err
		}

		otelx.Fail(span, "load user", err)
		return nil, err
	}

	if !user.Role.AtLeast(minRole) {
		err := apperr.NewAuth(apperr.AuthUnauthorized)
		otelx.Fail(span, "authorize", err)
		return nil, err
	}

	return user, nil
}

// AuthorizeOrganizationByApiTokens implements spec.md §4.8's
// authorize_organization_by_possible_api_tokens.
type AuthorizeOrganizationByApiTokens struct {
	Orgs repo.OrganizationRepo
}

// Do tries each token in order, returning the first organization match;
// a NotFound per-attempt is swallowed, and the whole call fails with
// Unauthorized only if every token misses.
func (uc *AuthorizeOrganizationByApiTokens) Do(ctx context.Context, q execQueryer, tokens []string) (*entity.Organization, error) {
	ctx, span := otelx.StartSpan(ctx, "authorize_organization_by_tokens")
	defer span.End()

	for _, token := range tokens {
		org, err := uc.Orgs.ByApiToken(ctx, q, token)
		if err != nil {
			var notFound *apperr.NotFoundError
			if errors.As(err, &notFound) {
				continue
			}

			otelx.Fail(span, "load organization", err)
			return nil, err
		}

		return org, nil
	}

	err := apperr.NewAuth(apperr.AuthUnauthorized)
	otelx.Fail(span, "authorize", err)
	return nil, err
}

// ChangeUserRole implements spec.md §4.8's change_user_role rule:
// permitted iff actor.role > target.role AND new_role < actor.role.
// An admin can never demote or promote another admin.
type ChangeUserRole struct {
	Users repo.UserRepo
}

func (uc *ChangeUserRole) Do(ctx context.Context, q execQueryer, actor, target entity.User, newRole entity.Role) error {
	ctx, span := otelx.StartSpan(ctx, "change_user_role")
	defer span.End()

	if !(actor.Role > target.Role && newRole < actor.Role) {
		err := apperr.NewAuth(apperr.AuthForbidden)
		otelx.Fail(span, "authorize", err)
		return err
	}

	target.Role = newRole

	if err := uc.Users.Update(ctx, q, &target); err != nil {
		otelx.Fail(span, "persist role", err)
		return err
	}

	return nil
}

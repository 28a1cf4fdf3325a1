package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/log"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// AccountEffects are the post-commit notifications register/reset-
// password trigger (spec.md §4.5: UserRegistered, UserResetPassword
// Requested).
type AccountEffects interface {
	NotifyUserRegistered(ctx context.Context, user *entity.User, urlForConfirmation string) error
	NotifyUserResetPasswordRequested(ctx context.Context, user *entity.User, nonce entity.EmailNonce) error
}

// RegisterUser creates a new, unconfirmed account at RoleGuest.
type RegisterUser struct {
	Users   repo.UserRepo
	Effects AccountEffects
	Logger  log.Logger
}

// Do hashes password, persists a Guest, unconfirmed user, and
// best-effort notifies with a confirmation URL built by urlFor.
func (uc *RegisterUser) Do(ctx context.Context, q execQueryer, email entity.EmailAddress, password string, urlFor func(entity.EmailNonce) string) (*entity.User, error) {
	ctx, span := otelx.StartSpan(ctx, "register_user")
	defer span.End()

	hashed, err := entity.HashPassword(password)
	if err != nil {
		var fe fieldErrorer
		if errors.As(err, &fe) {
			err = apperr.NewValidation(apperr.ValidationPassword, fe.Field())
		}

		otelx.Fail(span, "validate", err)
		return nil, err
	}

	user := &entity.User{Email: email, EmailConfirmed: false, Password: hashed, Role: entity.RoleGuest}

	if err := uc.Users.Create(ctx, q, user); err != nil {
		otelx.Fail(span, "persist user", err)
		return nil, err
	}

	if uc.Effects != nil {
		nonce := entity.EmailNonce{Email: email, Nonce: entity.NewNonce()}
		url := urlFor(nonce)

		if err := uc.Effects.NotifyUserRegistered(ctx, user, url); err != nil {
			uc.Logger.Warnf("notify user registered %s: %v", email.Key(), err)
		}
	}

	return user, nil
}

// LoginUser implements password-based authentication.
type LoginUser struct {
	Users repo.UserRepo
}

// Do returns the matching User if password is correct, else an
// AuthorizationError with AuthCredentials.
func (uc *LoginUser) Do(ctx context.Context, q execQueryer, email entity.EmailAddress, password string) (*entity.User, error) {
	ctx, span := otelx.StartSpan(ctx, "login_user")
	defer span.End()

	user, err := uc.Users.ByEmail(ctx, q, email)
	if err != nil {
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			err := apperr.NewAuth(apperr.AuthCredentials)
			otelx.Fail(span, "authenticate", err)
			return nil, err
		}

		otelx.Fail(span, "load user", err)
		return nil, err
	}

	if !user.Password.Matches(password) {
		err := apperr.NewAuth(apperr.AuthCredentials)
		otelx.Fail(span, "authenticate", err)
		return nil, err
	}

	return user, nil
}

// ConfirmEmail marks a user's email confirmed, promoting Guest to
// User on first confirmation (spec.md §3).
type ConfirmEmail struct {
	Users repo.UserRepo
}

func (uc *ConfirmEmail) Do(ctx context.Context, q execQueryer, email entity.EmailAddress) error {
	ctx, span := otelx.StartSpan(ctx, "confirm_email")
	defer span.End()

	user, err := uc.Users.ByEmail(ctx, q, email)
	if err != nil {
		otelx.Fail(span, "load user", err)
		return err
	}

	wasGuest := !user.EmailConfirmed && user.Role == entity.RoleGuest

	user.EmailConfirmed = true
	if wasGuest {
		user.Role = entity.RoleUser
	}

	if err := uc.Users.Update(ctx, q, user); err != nil {
		otelx.Fail(span, "persist user", err)
		return err
	}

	return nil
}

// ConfirmEmailAndResetPassword implements spec.md §4.6's password
// reset flow: sets email_confirmed=true, stores a new password hash,
// and leaves role unchanged. Callers invoke this only after
// successfully consuming a UserToken for email.
type ConfirmEmailAndResetPassword struct {
	Users repo.UserRepo
}

func (uc *ConfirmEmailAndResetPassword) Do(ctx context.Context, q execQueryer, email entity.EmailAddress, newPassword string) error {
	ctx, span := otelx.StartSpan(ctx, "confirm_email_and_reset_password")
	defer span.End()

	hashed, err := entity.HashPassword(newPassword)
	if err != nil {
		var fe fieldErrorer
		if errors.As(err, &fe) {
			err = apperr.NewValidation(apperr.ValidationPassword, fe.Field())
		}

		otelx.Fail(span, "validate", err)
		return err
	}

	user, err := uc.Users.ByEmail(ctx, q, email)
	if err != nil {
		otelx.Fail(span, "load user", err)
		return err
	}

	user.EmailConfirmed = true
	user.Password = hashed

	if err := uc.Users.Update(ctx, q, user); err != nil {
		otelx.Fail(span, "persist user", err)
		return err
	}

	return nil
}

// RequestPasswordReset issues a fresh UserToken for email and notifies
// when the account exists. For an unknown email it returns nil without
// issuing a token or notifying, so the result does not disclose
// whether the account exists (spec.md §7).
type RequestPasswordReset struct {
	Users   repo.UserRepo
	Tokens  repo.UserTokenRepo
	Effects AccountEffects
	Logger  log.Logger
}

func (uc *RequestPasswordReset) Do(ctx context.Context, q execQueryer, email entity.EmailAddress) error {
	ctx, span := otelx.StartSpan(ctx, "request_password_reset")
	defer span.End()

	user, err := uc.Users.ByEmail(ctx, q, email)
	if err != nil {
		var notFound *apperr.NotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		otelx.Fail(span, "load user", err)
		return err
	}

	token := &entity.UserToken{
		Email:     email,
		Nonce:     entity.NewNonce(),
		ExpiresAt: time.Now().UTC().Add(entity.UserTokenTTL),
	}

	if err := uc.Tokens.Replace(ctx, q, token); err != nil {
		otelx.Fail(span, "persist token", err)
		return err
	}

	if uc.Effects != nil {
		nonce := entity.EmailNonce{Email: email, Nonce: token.Nonce}
		if err := uc.Effects.NotifyUserResetPasswordRequested(ctx, user, nonce); err != nil {
			uc.Logger.Warnf("notify reset password requested %s: %v", email.Key(), err)
		}
	}

	return nil
}

// fieldErrorer matches entity's internal fieldError marker without
// importing its unexported type.
type fieldErrorer interface {
	error
	Field() string
}

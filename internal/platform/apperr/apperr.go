// Package apperr implements the error taxonomy from spec.md §7 as a
// small hierarchy of typed errors, grounded on the teacher's
// common/errors.go (EntityNotFoundError, EntityConflictError,
// ValidationError, UnauthorizedError, ForbiddenError). Callers use
// errors.As/errors.Is to discriminate; there is no central error-code
// registry because the HTTP mapping layer that would consume one is
// out of scope for this module.
package apperr

import "fmt"

// ValidationKind enumerates spec.md §7's Validation error kinds.
type ValidationKind string

const (
	ValidationTitle              ValidationKind = "Title"
	ValidationBbox               ValidationKind = "Bbox"
	ValidationLicense            ValidationKind = "License"
	ValidationEmail              ValidationKind = "Email"
	ValidationPhone              ValidationKind = "Phone"
	ValidationUrl                ValidationKind = "Url"
	ValidationContact            ValidationKind = "Contact"
	ValidationRegistrationType   ValidationKind = "RegistrationType"
	ValidationPassword           ValidationKind = "Password"
	ValidationEmptyComment       ValidationKind = "EmptyComment"
	ValidationRatingValue        ValidationKind = "RatingValue"
	ValidationRatingContext      ValidationKind = "RatingContext"
	ValidationEndDateBeforeStart ValidationKind = "EndDateBeforeStart"
	ValidationOpeningHours       ValidationKind = "InvalidOpeningHours"
	ValidationPosition           ValidationKind = "InvalidPosition"
	ValidationLimit              ValidationKind = "InvalidLimit"
	ValidationEmptyIdList        ValidationKind = "EmptyIdList"
)

// ValidationError is a deterministic, detail-free rejection of caller
// input. It never leaks internal state (spec.md §7).
type ValidationError struct {
	Kind  ValidationKind
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Kind)
	}

	return fmt.Sprintf("validation: %s (%s)", e.Kind, e.Field)
}

// NewValidation builds a ValidationError of the given kind.
func NewValidation(kind ValidationKind, field string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field}
}

// AuthorizationKind enumerates spec.md §7's Authorization error kinds.
type AuthorizationKind string

const (
	AuthForbidden         AuthorizationKind = "Forbidden"
	AuthUnauthorized      AuthorizationKind = "Unauthorized"
	AuthModeratedTagAdd   AuthorizationKind = "ModeratedTag/AddNotAllowed"
	AuthModeratedTagRem   AuthorizationKind = "ModeratedTag/RemoveNotAllowed"
	AuthCreatorEmail      AuthorizationKind = "CreatorEmail"
	AuthEmailNotConfirmed AuthorizationKind = "EmailNotConfirmed"
	AuthCredentials       AuthorizationKind = "Credentials"
)

// AuthorizationError signals the caller lacks the privilege, or the
// tag edit violates organization policy, for the attempted operation.
// Unauthorized is returned irrespective of whether the underlying
// record exists, to avoid information disclosure (spec.md §7).
type AuthorizationError struct {
	Kind    AuthorizationKind
	Tag     string // set for the ModeratedTag subkinds
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("%s: %q", e.Kind, e.Tag)
	}

	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}

	return string(e.Kind)
}

// NewAuth builds an AuthorizationError of the given kind.
func NewAuth(kind AuthorizationKind) *AuthorizationError {
	return &AuthorizationError{Kind: kind}
}

// NewModeratedTagDenied builds the AddNotAllowed/RemoveNotAllowed
// subkind carrying the offending tag label (spec.md §4.3/§7).
func NewModeratedTagDenied(add bool, tag string) *AuthorizationError {
	kind := AuthModeratedTagRem
	if add {
		kind = AuthModeratedTagAdd
	}

	return &AuthorizationError{Kind: kind, Tag: tag}
}

// NotFoundError maps a repository miss onto a named entity type
// (spec.md §7, Resource/NotFound).
type NotFoundError struct {
	Entity string
	Id     string
}

func (e *NotFoundError) Error() string {
	if e.Id == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}

	return fmt.Sprintf("%s %q not found", e.Entity, e.Id)
}

// NewNotFound builds a NotFoundError.
func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, Id: id}
}

// ConflictKind enumerates spec.md §7's Resource conflict kinds.
type ConflictKind string

const (
	ConflictUserExists ConflictKind = "UserExists"
	ConflictGeneric    ConflictKind = "Conflict"
)

// ConflictError signals a unique-constraint or state conflict.
type ConflictError struct {
	Kind   ConflictKind
	Entity string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Entity)
}

// NewConflict builds a ConflictError.
func NewConflict(kind ConflictKind, entity string) *ConflictError {
	return &ConflictError{Kind: kind, Entity: entity}
}

// TokenKind enumerates spec.md §7's Token error kinds.
type TokenKind string

const (
	TokenInvalid       TokenKind = "TokenInvalid"
	TokenExpired       TokenKind = "TokenExpired"
	TokenInvalidNonce  TokenKind = "InvalidNonce"
	TokenPlaceRevision TokenKind = "PlaceRevision"
)

// TokenError signals a problem with a single-use token's validity.
type TokenError struct {
	Kind TokenKind
}

func (e *TokenError) Error() string {
	return string(e.Kind)
}

// NewToken builds a TokenError.
func NewToken(kind TokenKind) *TokenError {
	return &TokenError{Kind: kind}
}

// InfraError wraps an infrastructural failure (repo/serialize/io/pool)
// that should propagate but carries no domain meaning of its own
// (spec.md §7, Infrastructural).
type InfraError struct {
	Op  string
	Err error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfraError) Unwrap() error {
	return e.Err
}

// Wrap builds an InfraError, or returns nil if err is nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	return &InfraError{Op: op, Err: err}
}

// InvalidTransition signals a Place review transition forbidden by the
// table in spec.md §4.2.
type InvalidTransition struct {
	From, To string
}

func (e *InvalidTransition) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

package entity

import (
	"encoding/json"
	"net/mail"
	"strings"
)

// EmailAddress is a validated, case-insensitive-compared email address.
// Two addresses that differ only in case are considered the same user.
type EmailAddress struct {
	raw string
}

// ParseEmailAddress validates s as an RFC 5322 address and returns the
// normalized value. It never returns a zero EmailAddress on success.
func ParseEmailAddress(s string) (EmailAddress, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EmailAddress{}, ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(s)
	if err != nil {
		return EmailAddress{}, ErrInvalidEmail
	}

	return EmailAddress{raw: addr.Address}, nil
}

// String returns the address as written (not case-folded).
func (e EmailAddress) String() string {
	return e.raw
}

// IsEmpty reports whether e carries no address.
func (e EmailAddress) IsEmpty() bool {
	return e.raw == ""
}

// Key returns the lowercase form used for equality and map keys.
// User.email is compared this way per spec.md §3.
func (e EmailAddress) Key() string {
	return strings.ToLower(e.raw)
}

// Equal reports whether e and other denote the same mailbox.
func (e EmailAddress) Equal(other EmailAddress) bool {
	return e.Key() == other.Key()
}

// MarshalJSON renders e as its plain address string. The struct keeps
// raw unexported so callers must go through ParseEmailAddress; JSON
// encoding still needs a representation, hence the explicit method.
func (e EmailAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.raw)
}

// UnmarshalJSON parses e from the same string MarshalJSON produces.
func (e *EmailAddress) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseEmailAddress(s)
	if err != nil {
		return err
	}

	*e = parsed

	return nil
}

// ErrInvalidEmail is returned by ParseEmailAddress for unparseable input.
var ErrInvalidEmail = validationErr("email")

func validationErr(field string) error {
	return &fieldError{field: field}
}

// fieldError is a minimal marker used internally by entity constructors;
// usecase-level callers translate it into the apperr.ValidationError
// taxonomy, attaching the specific Validation kind from spec.md §7.
type fieldError struct {
	field string
}

func (e *fieldError) Error() string {
	return "invalid " + e.field
}

// Field returns the name of the field that failed to parse.
func (e *fieldError) Field() string {
	return e.field
}

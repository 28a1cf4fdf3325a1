package entity

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Nonce is a one-shot random UUIDv4, rendered as 32 lowercase hex
// characters (spec.md §4.6/§6).
type Nonce string

// NewNonce generates a fresh random nonce.
func NewNonce() Nonce {
	id := uuid.New()

	return Nonce(hex.EncodeToString(id[:]))
}

// Valid reports whether n has the expected 32-hex-character shape.
func (n Nonce) Valid() bool {
	if len(n) != 32 {
		return false
	}

	_, err := hex.DecodeString(string(n))
	return err == nil
}

// UserToken binds a nonce to an email address for confirmation/reset
// flows (spec.md §3/§4.6).
type UserToken struct {
	Email     EmailAddress
	Nonce     Nonce
	ExpiresAt time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t UserToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ReviewNonce identifies which place revision a ReviewToken authorizes
// reviewing (spec.md §3).
type ReviewNonce struct {
	PlaceId       Id
	PlaceRevision Revision
	Nonce         Nonce
}

// ReviewToken binds a ReviewNonce to an expiry (spec.md §4.2/§4.6).
type ReviewToken struct {
	ReviewNonce ReviewNonce
	ExpiresAt   time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t ReviewToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// UserTokenTTL is the lifetime of a freshly issued user token
// (spec.md §4.6: refresh_user_token sets expires = now+24h).
const UserTokenTTL = 24 * time.Hour

package entity

import (
	"encoding/base64"
	"strings"
)

// EmailNonce is the encoded form of (email, nonce) carried in
// confirmation/reset links (spec.md §6). The encoding must round-trip
// exactly: EncodeEmailNonce(DecodeEmailNonce(s)) == s for every valid s.
type EmailNonce struct {
	Email EmailAddress
	Nonce Nonce
}

const emailNonceSep = "|"

// EncodeEmailNonce renders en as a single base64url-safe string.
func EncodeEmailNonce(en EmailNonce) string {
	raw := en.Email.String() + emailNonceSep + string(en.Nonce)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeEmailNonce reverses EncodeEmailNonce, failing with
// ErrEmailNonceDecoding (spec.md §6, EmailNonceDecodingError) for any
// string that didn't come from it.
func DecodeEmailNonce(s string) (EmailNonce, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return EmailNonce{}, ErrEmailNonceDecoding
	}

	parts := strings.SplitN(string(raw), emailNonceSep, 2)
	if len(parts) != 2 {
		return EmailNonce{}, ErrEmailNonceDecoding
	}

	email, err := ParseEmailAddress(parts[0])
	if err != nil {
		return EmailNonce{}, ErrEmailNonceDecoding
	}

	nonce := Nonce(parts[1])
	if !nonce.Valid() {
		return EmailNonce{}, ErrEmailNonceDecoding
	}

	return EmailNonce{Email: email, Nonce: nonce}, nil
}

// ErrEmailNonceDecoding is returned by DecodeEmailNonce for malformed input.
var ErrEmailNonceDecoding = &fieldError{field: "email_nonce"}

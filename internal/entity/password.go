package entity

import "golang.org/x/crypto/bcrypt"

// Password is a bcrypt password hash. The plaintext is never retained
// on the struct past hashing.
type Password struct {
	hash []byte
}

// HashPassword validates the plaintext's minimal shape and hashes it.
func HashPassword(plain string) (Password, error) {
	if len(plain) < 8 {
		return Password{}, validationErr("password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return Password{}, err
	}

	return Password{hash: hash}, nil
}

// PasswordFromHash wraps an already-hashed value, e.g. when loading a
// User back from a repository.
func PasswordFromHash(hash []byte) Password {
	return Password{hash: append([]byte(nil), hash...)}
}

// Hash returns the stored bcrypt hash, e.g. for persistence.
func (p Password) Hash() []byte {
	return append([]byte(nil), p.hash...)
}

// Matches reports whether plain hashes to the stored value.
func (p Password) Matches(plain string) bool {
	return bcrypt.CompareHashAndPassword(p.hash, []byte(plain)) == nil
}

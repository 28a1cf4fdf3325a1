// Package entity holds the core domain types shared by every use-case:
// places, events, ratings, comments, users, organizations, tags, tokens
// and the value types that bind them together.
package entity

import (
	"strings"

	"github.com/google/uuid"
)

// Id is an opaque identifier. The reference format is the simple
// (unhyphenated-or-not, callers must not assume either) string form of
// a UUIDv4, but nothing in the domain layer parses it as a UUID — it is
// compared for equality only.
type Id string

// NewId generates a fresh random identifier.
func NewId() Id {
	return Id(strings.ReplaceAll(uuid.New().String(), "-", ""))
}

// IsEmpty reports whether the id carries no value.
func (id Id) IsEmpty() bool {
	return id == ""
}

// Revision identifies a version of a Place. Zero is the initial
// revision; revisions increase monotonically per place.
type Revision uint64

// Next returns the revision that follows r.
func (r Revision) Next() Revision {
	return r + 1
}

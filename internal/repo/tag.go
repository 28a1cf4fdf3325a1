package repo

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// TagCount pairs a tag label with the number of places carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// TagRepo reads the distinct tag vocabulary in use.
type TagRepo interface {
	// MostPopular returns up to limit tags ordered by descending
	// place-count, ties broken alphabetically.
	MostPopular(ctx context.Context, q pg.Queryer, limit int) ([]TagCount, error)

	// CreateIfAbsent idempotently registers tags so autocomplete/admin
	// views can list the full vocabulary even before any place uses a
	// given label's canonical form; unique-violation is swallowed
	// (spec.md §4.1's "swallowed only where explicitly idempotent"
	// carve-out).
	CreateIfAbsent(ctx context.Context, q pg.Queryer, tags []string) error
}

// CategoryRepo reads the fixed category list.
type CategoryRepo interface {
	All(ctx context.Context, q pg.Queryer) ([]entity.Category, error)
}

package repo

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// RatingRepo persists ratings.
type RatingRepo interface {
	// CreateWithComment inserts rating and its initial comment
	// atomically (spec.md §4.7).
	CreateWithComment(ctx context.Context, q pg.Queryer, rating *entity.Rating, comment *entity.Comment) error

	ByPlaceId(ctx context.Context, q pg.Queryer, placeId entity.Id) ([]*entity.Rating, error)
	Get(ctx context.Context, q pg.Queryer, id entity.Id) (*entity.Rating, error)

	// ArchiveByPlaceId freezes every rating of placeId, setting
	// archived_at to at.
	ArchiveByPlaceId(ctx context.Context, q pg.Queryer, placeId entity.Id, at int64) error

	// Archive freezes a single rating.
	Archive(ctx context.Context, q pg.Queryer, id entity.Id, at int64) error
}

// CommentRepo persists comments on ratings.
type CommentRepo interface {
	ByRatingId(ctx context.Context, q pg.Queryer, ratingId entity.Id) ([]*entity.Comment, error)

	// ArchiveByPlaceId freezes every comment attached to a rating of
	// placeId.
	ArchiveByPlaceId(ctx context.Context, q pg.Queryer, placeId entity.Id, at int64) error

	Archive(ctx context.Context, q pg.Queryer, id entity.Id, at int64) error
}

package usecase

import (
	"context"
	"time"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/log"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// RatingEffects is the post-commit reindex a new rating triggers
// (spec.md §4.7: "then reindex the affected place").
type RatingEffects interface {
	ReindexPlace(ctx context.Context, placeId entity.Id) error
}

// CreateRating implements spec.md §4.7's create-rating use-case.
type CreateRating struct {
	Ratings repo.RatingRepo
	Places  repo.PlaceRepo
	Effects RatingEffects
	Logger  log.Logger
}

// Do validates in, persists the rating and its initial comment
// atomically, then best-effort reindexes the place.
func (uc *CreateRating) Do(ctx context.Context, q execQueryer, in entity.NewRatingInput) (*entity.Rating, *entity.Comment, error) {
	ctx, span := otelx.StartSpan(ctx, "create_rating")
	defer span.End()

	if err := validateRatingValue(in.Value); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, nil, err
	}

	if err := validateCommentText(in.CommentText); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, nil, err
	}

	if err := validateRatingContext(in.Context); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, nil, err
	}

	if _, err := uc.Places.GetCurrent(ctx, q, in.PlaceId); err != nil {
		otelx.Fail(span, "load place", err)
		return nil, nil, err
	}

	now := time.Now().UTC()

	rating := &entity.Rating{
		Id:        entity.NewId(),
		PlaceId:   in.PlaceId,
		CreatedAt: now,
		Title:     in.Title,
		Value:     in.Value,
		Context:   in.Context,
		Source:    in.Source,
	}

	comment := &entity.Comment{
		Id:        entity.NewId(),
		RatingId:  rating.Id,
		CreatedAt: now,
		Text:      in.CommentText,
	}

	if err := uc.Ratings.CreateWithComment(ctx, q, rating, comment); err != nil {
		otelx.Fail(span, "persist rating", err)
		return nil, nil, err
	}

	otelx.SetAttribute(span, "place.id", string(in.PlaceId))

	if uc.Effects != nil {
		if err := uc.Effects.ReindexPlace(ctx, in.PlaceId); err != nil {
			uc.Logger.Warnf("reindex place %s after rating: %v", in.PlaceId, err)
		}
	}

	return rating, comment, nil
}

package usecase

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// SubscribeToBbox registers a new BboxSubscription for a user.
type SubscribeToBbox struct {
	Subs repo.SubscriptionRepo
}

func (uc *SubscribeToBbox) Do(ctx context.Context, q execQueryer, email entity.EmailAddress, bbox entity.MapBbox) (*entity.BboxSubscription, error) {
	ctx, span := otelx.StartSpan(ctx, "subscribe_to_bbox")
	defer span.End()

	if err := validateBbox(bbox); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, err
	}

	sub := &entity.BboxSubscription{Id: entity.NewId(), UserEmail: email, Bbox: bbox}

	if err := uc.Subs.Create(ctx, q, sub); err != nil {
		otelx.Fail(span, "persist subscription", err)
		return nil, err
	}

	return sub, nil
}

// UnsubscribeFromBbox removes a subscription by id.
type UnsubscribeFromBbox struct {
	Subs repo.SubscriptionRepo
}

func (uc *UnsubscribeFromBbox) Do(ctx context.Context, q execQueryer, id entity.Id) error {
	ctx, span := otelx.StartSpan(ctx, "unsubscribe_from_bbox")
	defer span.End()

	if err := uc.Subs.Delete(ctx, q, id); err != nil {
		otelx.Fail(span, "delete subscription", err)
		return err
	}

	return nil
}

// GetSubscriptions lists a user's subscriptions.
type GetSubscriptions struct {
	Subs repo.SubscriptionRepo
}

func (uc *GetSubscriptions) Do(ctx context.Context, q execQueryer, email entity.EmailAddress) ([]*entity.BboxSubscription, error) {
	ctx, span := otelx.StartSpan(ctx, "get_subscriptions")
	defer span.End()

	subs, err := uc.Subs.ByUserEmail(ctx, q, email)
	if err != nil {
		otelx.Fail(span, "load subscriptions", err)
		return nil, err
	}

	return subs, nil
}

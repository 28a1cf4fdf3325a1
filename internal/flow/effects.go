package flow

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/queue"
)

// Effects implements usecase.PlaceEffects, usecase.EventEffects and
// usecase.AccountEffects by publishing msgpack-encoded jobs to
// RabbitMQ rather than running the indexer/notifier inline. Ordering
// within one entity id is preserved downstream by IndexerConsumer's
// per-id redsync lock (spec.md §5).
type Effects struct {
	Indexer  *queue.Publisher
	Notifier *queue.Publisher
}

func (e *Effects) ReindexPlace(ctx context.Context, placeId entity.Id) error {
	return e.Indexer.Publish(ctx, reindexJob{Kind: kindPlace, Id: placeId})
}

func (e *Effects) ReindexEvent(ctx context.Context, eventId entity.Id) error {
	return e.Indexer.Publish(ctx, reindexJob{Kind: kindEvent, Id: eventId})
}

func (e *Effects) NotifyPlaceAdded(ctx context.Context, place *entity.Place) error {
	return e.Notifier.Publish(ctx, notifyJob{Kind: notifyPlaceAdded, PlaceId: place.Id})
}

func (e *Effects) NotifyPlaceUpdated(ctx context.Context, place *entity.Place) error {
	return e.Notifier.Publish(ctx, notifyJob{Kind: notifyPlaceUpdated, PlaceId: place.Id})
}

func (e *Effects) NotifyEventCreated(ctx context.Context, event *entity.Event) error {
	return e.Notifier.Publish(ctx, notifyJob{Kind: notifyEventCreated, EventId: event.Id})
}

func (e *Effects) NotifyEventUpdated(ctx context.Context, event *entity.Event) error {
	return e.Notifier.Publish(ctx, notifyJob{Kind: notifyEventUpdated, EventId: event.Id})
}

func (e *Effects) NotifyUserRegistered(ctx context.Context, user *entity.User, urlForConfirmation string) error {
	return e.Notifier.Publish(ctx, notifyJob{Kind: notifyUserRegistered, UserEmail: user.Email.String(), ConfirmURL: urlForConfirmation})
}

func (e *Effects) NotifyUserResetPasswordRequested(ctx context.Context, user *entity.User, nonce entity.EmailNonce) error {
	return e.Notifier.Publish(ctx, notifyJob{Kind: notifyUserResetPwd, UserEmail: user.Email.String(), EmailNonceRaw: entity.EncodeEmailNonce(nonce)})
}

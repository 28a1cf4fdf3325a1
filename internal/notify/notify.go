// Package notify declares the notification gateway contract from
// spec.md §4.5. internal/flow publishes a RabbitMQ job for every event;
// internal/adapters/notifier is the concrete delivery mechanism
// NotifierConsumer dispatches that job to. This package only fixes the
// shape every use-case's effects interface is adapted onto.
package notify

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
)

// Notifier emits the six events spec.md §4.5 names. Implementations
// MUST be fire-and-forget: failures are the caller's concern to log,
// never to propagate as a use-case error.
type Notifier interface {
	PlaceAdded(ctx context.Context, place *entity.Place, recipients []entity.EmailAddress) error
	PlaceUpdated(ctx context.Context, place *entity.Place, recipients []entity.EmailAddress) error
	EventCreated(ctx context.Context, event *entity.Event, recipients []entity.EmailAddress) error
	EventUpdated(ctx context.Context, event *entity.Event, recipients []entity.EmailAddress) error
	UserRegistered(ctx context.Context, user *entity.User, urlForConfirmation string) error
	UserResetPasswordRequested(ctx context.Context, user *entity.User, nonce entity.EmailNonce) error
}

// RecipientSource resolves who should be notified about activity at a
// coordinate, per spec.md §4.5's email_addresses_by_coordinate.
type RecipientSource interface {
	EmailAddressesByCoordinate(ctx context.Context, pos entity.MapPoint) ([]entity.EmailAddress, error)
}

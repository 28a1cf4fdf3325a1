package flow

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/notify"
	"github.com/openfairdb/ofdb-core/internal/platform/log"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
	"github.com/openfairdb/ofdb-core/internal/platform/queue"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// NotifierConsumer drains notify jobs and dispatches them through
// Notifier, reloading the referenced entity from the primary store.
// Calls are wrapped in a circuit breaker and bounded retry so a
// degraded downstream (e.g. a slow SMTP relay behind the gateway)
// cannot back up the queue indefinitely (spec.md §5: "bounded timeouts
// and fail-open").
type NotifierConsumer struct {
	Hub    *pg.Hub
	Places repo.PlaceRepo
	Events repo.EventRepo
	Users  repo.UserRepo
	Subs   repo.SubscriptionRepo

	Notifier notify.Notifier
	Logger   log.Logger

	breaker *gobreaker.CircuitBreaker
}

func (nc *NotifierConsumer) cb() *gobreaker.CircuitBreaker {
	if nc.breaker == nil {
		nc.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "notifier"})
	}

	return nc.breaker
}

// Run consumes from c until ctx is cancelled.
func (nc *NotifierConsumer) Run(ctx context.Context, c *queue.Consumer) error {
	return c.Run(ctx, nc.handle)
}

func (nc *NotifierConsumer) handle(ctx context.Context, body []byte) error {
	var job notifyJob
	if err := msgpack.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("flow: decode notify job: %w", err)
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)

	return backoff.Retry(func() error {
		_, err := nc.cb().Execute(func() (any, error) {
			return nil, nc.dispatch(ctx, job)
		})

		return err
	}, backoff.WithContext(policy, ctx))
}

func (nc *NotifierConsumer) dispatch(ctx context.Context, job notifyJob) error {
	switch job.Kind {
	case notifyPlaceAdded, notifyPlaceUpdated:
		return nc.Hub.Shared(ctx, func(ctx context.Context, q pg.Queryer) error {
			place, err := nc.Places.GetCurrent(ctx, q, job.PlaceId)
			if err != nil {
				return err
			}

			recipients, err := nc.recipientsFor(ctx, q, place.Location.Pos)
			if err != nil {
				return err
			}

			if job.Kind == notifyPlaceAdded {
				return nc.Notifier.PlaceAdded(ctx, place, recipients)
			}

			return nc.Notifier.PlaceUpdated(ctx, place, recipients)
		})
	case notifyEventCreated, notifyEventUpdated:
		return nc.Hub.Shared(ctx, func(ctx context.Context, q pg.Queryer) error {
			event, err := nc.Events.Get(ctx, q, job.EventId)
			if err != nil {
				return err
			}

			var recipients []entity.EmailAddress
			if event.Location != nil {
				var err error
				recipients, err = nc.recipientsFor(ctx, q, event.Location.Pos)
				if err != nil {
					return err
				}
			}

			if job.Kind == notifyEventCreated {
				return nc.Notifier.EventCreated(ctx, event, recipients)
			}

			return nc.Notifier.EventUpdated(ctx, event, recipients)
		})
	case notifyUserRegistered:
		return nc.Hub.Shared(ctx, func(ctx context.Context, q pg.Queryer) error {
			email, err := entity.ParseEmailAddress(job.UserEmail)
			if err != nil {
				return err
			}

			user, err := nc.Users.ByEmail(ctx, q, email)
			if err != nil {
				return err
			}

			return nc.Notifier.UserRegistered(ctx, user, job.ConfirmURL)
		})
	case notifyUserResetPwd:
		return nc.Hub.Shared(ctx, func(ctx context.Context, q pg.Queryer) error {
			email, err := entity.ParseEmailAddress(job.UserEmail)
			if err != nil {
				return err
			}

			user, err := nc.Users.ByEmail(ctx, q, email)
			if err != nil {
				return err
			}

			nonce, err := entity.DecodeEmailNonce(job.EmailNonceRaw)
			if err != nil {
				return err
			}

			return nc.Notifier.UserResetPasswordRequested(ctx, user, nonce)
		})
	default:
		return fmt.Errorf("flow: unknown notify job kind %q", job.Kind)
	}
}

// recipientsFor implements spec.md §4.5's email_addresses_by_coordinate:
// every BboxSubscription email whose bbox contains pos.
func (nc *NotifierConsumer) recipientsFor(ctx context.Context, q pg.Queryer, pos entity.MapPoint) ([]entity.EmailAddress, error) {
	subs, err := nc.Subs.AllContaining(ctx, q, pos)
	if err != nil {
		return nil, err
	}

	out := make([]entity.EmailAddress, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.UserEmail)
	}

	return out, nil
}

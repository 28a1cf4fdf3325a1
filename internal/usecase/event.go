package usecase

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/log"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// EventEffects are the post-commit side effects create/update-event
// trigger (spec.md §4.5).
type EventEffects interface {
	ReindexEvent(ctx context.Context, eventId entity.Id) error
	NotifyEventCreated(ctx context.Context, event *entity.Event) error
	NotifyEventUpdated(ctx context.Context, event *entity.Event) error
}

// CreateEvent implements spec.md §3/§4's create-event use-case.
type CreateEvent struct {
	Events  repo.EventRepo
	Effects EventEffects
	Logger  log.Logger
}

// Do validates in, assigns a new id, persists, then best-effort
// reindexes and notifies.
func (uc *CreateEvent) Do(ctx context.Context, q execQueryer, in entity.NewEventInput) (*entity.Event, error) {
	ctx, span := otelx.StartSpan(ctx, "create_event")
	defer span.End()

	if err := validateEvent(in); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, err
	}

	event := &entity.Event{
		Id:           entity.NewId(),
		Title:        in.Title,
		Description:  in.Description,
		Start:        in.Start,
		End:          in.End,
		Location:     in.Location,
		Contact:      in.Contact,
		Tags:         entity.NormalizeTags(in.Tags),
		Homepage:     in.Homepage,
		CreatedBy:    in.CreatedBy,
		Registration: in.Registration,
		Images:       in.Images,
	}

	if err := uc.Events.Create(ctx, q, event); err != nil {
		otelx.Fail(span, "persist event", err)
		return nil, err
	}

	otelx.SetAttribute(span, "event.id", string(event.Id))

	if uc.Effects != nil {
		if err := uc.Effects.ReindexEvent(ctx, event.Id); err != nil {
			uc.Logger.Warnf("reindex event %s after create: %v", event.Id, err)
		}

		if err := uc.Effects.NotifyEventCreated(ctx, event); err != nil {
			uc.Logger.Warnf("notify event created %s: %v", event.Id, err)
		}
	}

	return event, nil
}

// UpdateEvent implements the update-event use-case.
type UpdateEvent struct {
	Events  repo.EventRepo
	Effects EventEffects
	Logger  log.Logger
}

// Do re-validates in and overwrites event id's row in place; events
// carry no revision history (unlike places).
func (uc *UpdateEvent) Do(ctx context.Context, q execQueryer, id entity.Id, in entity.NewEventInput) (*entity.Event, error) {
	ctx, span := otelx.StartSpan(ctx, "update_event")
	defer span.End()

	if err := validateEvent(in); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, err
	}

	event := &entity.Event{
		Id:           id,
		Title:        in.Title,
		Description:  in.Description,
		Start:        in.Start,
		End:          in.End,
		Location:     in.Location,
		Contact:      in.Contact,
		Tags:         entity.NormalizeTags(in.Tags),
		Homepage:     in.Homepage,
		CreatedBy:    in.CreatedBy,
		Registration: in.Registration,
		Images:       in.Images,
	}

	if err := uc.Events.Update(ctx, q, event); err != nil {
		otelx.Fail(span, "persist event", err)
		return nil, err
	}

	if uc.Effects != nil {
		if err := uc.Effects.ReindexEvent(ctx, event.Id); err != nil {
			uc.Logger.Warnf("reindex event %s after update: %v", event.Id, err)
		}

		if err := uc.Effects.NotifyEventUpdated(ctx, event); err != nil {
			uc.Logger.Warnf("notify event updated %s: %v", event.Id, err)
		}
	}

	return event, nil
}

func validateEvent(in entity.NewEventInput) error {
	if err := validateTitle(in.Title); err != nil {
		return err
	}

	if err := validateEventTimes(in.Start, in.End); err != nil {
		return err
	}

	if in.Location != nil {
		if err := validatePosition(in.Location.Pos); err != nil {
			return err
		}
	}

	return validateContact(in.Contact)
}

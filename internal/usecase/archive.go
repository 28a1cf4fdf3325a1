package usecase

import (
	"context"
	"time"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/log"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// requireScout enforces the "caller's role ≥ Scout" scope check shared
// by every archive flow (spec.md §4.7).
func requireScout(role entity.Role) error {
	if !role.AtLeast(entity.RoleScout) {
		return apperr.NewAuth(apperr.AuthForbidden)
	}

	return nil
}

// ArchiveComments archives a set of comments by id (Scout+).
type ArchiveComments struct {
	Comments repo.CommentRepo
	Logger   log.Logger
}

func (uc *ArchiveComments) Do(ctx context.Context, q execQueryer, actorRole entity.Role, ids []entity.Id) error {
	ctx, span := otelx.StartSpan(ctx, "archive_comments")
	defer span.End()

	if err := requireScout(actorRole); err != nil {
		otelx.Fail(span, "authorize", err)
		return err
	}

	at := nowMillis()

	for _, id := range ids {
		if err := uc.Comments.Archive(ctx, q, id, at); err != nil {
			otelx.Fail(span, "archive comment", err)
			return err
		}
	}

	return nil
}

// ArchiveRatings archives a set of ratings by id (Scout+).
type ArchiveRatings struct {
	Ratings repo.RatingRepo
	Logger  log.Logger
}

func (uc *ArchiveRatings) Do(ctx context.Context, q execQueryer, actorRole entity.Role, ids []entity.Id) error {
	ctx, span := otelx.StartSpan(ctx, "archive_ratings")
	defer span.End()

	if err := requireScout(actorRole); err != nil {
		otelx.Fail(span, "authorize", err)
		return err
	}

	at := nowMillis()

	for _, id := range ids {
		if err := uc.Ratings.Archive(ctx, q, id, at); err != nil {
			otelx.Fail(span, "archive rating", err)
			return err
		}
	}

	return nil
}

// ArchiveEvents removes events from the index and flushes, archiving
// them (Scout+, or the organization that owns every listed event)
// (spec.md §4.7: "removes the event from the index and flushes"; §3:
// "Owned iff any tag matches a moderated-tag label belonging to an
// organization providing the token").
type ArchiveEvents struct {
	Events  repo.EventRepo
	Indexer EventIndexerForArchive
	Logger  log.Logger
}

// EventIndexerForArchive is the narrow indexer capability ArchiveEvents
// needs: drop the event from the search index and flush immediately.
type EventIndexerForArchive interface {
	RemoveById(ctx context.Context, id entity.Id) error
	Flush(ctx context.Context) error
}

// Do archives every id in ids. actingOrg is nil for a Scout+ caller;
// when actorRole falls short of Scout, actingOrg must own every listed
// event instead.
func (uc *ArchiveEvents) Do(ctx context.Context, q execQueryer, actorRole entity.Role, actingOrg *entity.Organization, ids []entity.Id) error {
	ctx, span := otelx.StartSpan(ctx, "archive_events")
	defer span.End()

	if err := requireScout(actorRole); err != nil {
		if authErr := uc.requireOwnership(ctx, q, actingOrg, ids); authErr != nil {
			otelx.Fail(span, "authorize", authErr)
			return authErr
		}
	}

	for _, id := range ids {
		if err := uc.Events.SetArchived(ctx, q, id, true); err != nil {
			otelx.Fail(span, "archive event", err)
			return err
		}

		if uc.Indexer != nil {
			if err := uc.Indexer.RemoveById(ctx, id); err != nil {
				uc.Logger.Warnf("remove event %s from index: %v", id, err)
			}
		}
	}

	if uc.Indexer != nil {
		if err := uc.Indexer.Flush(ctx); err != nil {
			uc.Logger.Warnf("flush event index: %v", err)
		}
	}

	return nil
}

// requireOwnership rejects unless actingOrg owns every event in ids,
// loading each from q to check its current tags.
func (uc *ArchiveEvents) requireOwnership(ctx context.Context, q execQueryer, actingOrg *entity.Organization, ids []entity.Id) error {
	if actingOrg == nil {
		return apperr.NewAuth(apperr.AuthForbidden)
	}

	for _, id := range ids {
		event, err := uc.Events.Get(ctx, q, id)
		if err != nil {
			return err
		}

		if !event.OwnedBy(*actingOrg) {
			return apperr.NewAuth(apperr.AuthForbidden)
		}
	}

	return nil
}

// ArchivePlace cascades: archive the place's ratings and comments,
// then mark the place Archived (spec.md §4.7).
type ArchivePlace struct {
	Places   repo.PlaceRepo
	Ratings  repo.RatingRepo
	Comments repo.CommentRepo
	Effects  PlaceEffects
	Logger   log.Logger
}

func (uc *ArchivePlace) Do(ctx context.Context, q execQueryer, actorRole entity.Role, by entity.EmailAddress, placeId entity.Id) error {
	ctx, span := otelx.StartSpan(ctx, "archive_place")
	defer span.End()

	if err := requireScout(actorRole); err != nil {
		otelx.Fail(span, "authorize", err)
		return err
	}

	at := nowMillis()

	if err := uc.Ratings.ArchiveByPlaceId(ctx, q, placeId, at); err != nil {
		otelx.Fail(span, "archive ratings", err)
		return err
	}

	if err := uc.Comments.ArchiveByPlaceId(ctx, q, placeId, at); err != nil {
		otelx.Fail(span, "archive comments", err)
		return err
	}

	current, err := uc.Places.GetCurrent(ctx, q, placeId)
	if err != nil {
		otelx.Fail(span, "load current revision", err)
		return err
	}

	if !current.Status.CanTransitionTo(entity.StatusArchived) {
		err := &apperr.InvalidTransition{From: current.Status.String(), To: entity.StatusArchived.String()}
		otelx.Fail(span, "transition", err)
		return err
	}

	entry := entity.ReviewLogEntry{
		Activity: entity.NewActivity(by),
		Status:   entity.StatusArchived,
		Context:  "Archived",
	}

	if _, err := uc.Places.ReviewBatch(ctx, q, []entity.Id{placeId}, entity.StatusArchived, entry); err != nil {
		otelx.Fail(span, "archive place", err)
		return err
	}

	if uc.Effects != nil {
		if err := uc.Effects.ReindexPlace(ctx, placeId); err != nil {
			uc.Logger.Warnf("reindex place %s after archive: %v", placeId, err)
		}
	}

	return nil
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

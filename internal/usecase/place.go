package usecase

import (
	"context"
	"time"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/moderation"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/log"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// PlaceEffects are the post-commit side effects create/update-place
// trigger (spec.md §4.2: "post-commit reindex and notify"). The flow
// orchestrator (internal/flow) supplies the concrete implementation;
// the use-case only needs the narrow capability to invoke it.
type PlaceEffects interface {
	ReindexPlace(ctx context.Context, placeId entity.Id) error
	NotifyPlaceAdded(ctx context.Context, place *entity.Place) error
	NotifyPlaceUpdated(ctx context.Context, place *entity.Place) error
}

// CreatePlace implements spec.md §4.2's create-place use-case.
type CreatePlace struct {
	Places    repo.PlaceRepo
	Orgs      repo.OrganizationRepo
	Clearance repo.PlaceClearanceRepo
	Effects   PlaceEffects
	Accepted  AcceptedLicenses
	Logger    log.Logger
}

// Do validates in, computes moderated-tag clearance, assigns a new id
// at revision 0, persists in q's transaction, then best-effort
// reindexes and notifies. q MUST be bound to an exclusive (primary,
// transactional) connection: clearance enqueue and place creation are
// one composite invariant (spec.md §4.1).
func (uc *CreatePlace) Do(ctx context.Context, q execQueryer, in entity.NewPlaceInput) (*entity.Place, error) {
	ctx, span := otelx.StartSpan(ctx, "create_place")
	defer span.End()

	if err := validateNewPlace(uc.Logger, uc.Accepted, in); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, err
	}

	in.Tags = entity.NormalizeTags(in.Tags)

	clearanceOrgIds, err := clearanceForTagEdit(ctx, uc.Orgs, q, nil, nil, in.Tags)
	if err != nil {
		otelx.Fail(span, "moderated tag authorization", err)
		return nil, err
	}

	place := &entity.Place{
		Id:           entity.NewId(),
		Revision:     0,
		Created:      newActivity(in.CreatedBy),
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.Location,
		Contact:      in.Contact,
		Homepage:     in.Homepage,
		OpeningHours: in.OpeningHours,
		FoundedOn:    in.FoundedOn,
		Image:        in.Image,
		ImageLink:    in.ImageLink,
		Categories:   in.Categories,
		Tags:         in.Tags,
		License:      in.License,
		Status:       entity.StatusCreated,
	}

	if err := uc.Places.Create(ctx, q, place); err != nil {
		otelx.Fail(span, "persist place", err)
		return nil, err
	}

	for _, orgId := range clearanceOrgIds {
		pending := entity.PendingClearanceForPlace{OrgId: orgId, PlaceId: place.Id, CreatedAt: time.Now().UTC()}
		if err := uc.Clearance.Upsert(ctx, q, pending); err != nil {
			otelx.Fail(span, "enqueue clearance", err)
			return nil, err
		}
	}

	otelx.SetAttribute(span, "place.id", string(place.Id))

	if uc.Effects != nil {
		if err := uc.Effects.ReindexPlace(ctx, place.Id); err != nil {
			uc.Logger.Warnf("reindex place %s after create: %v", place.Id, err)
		}

		if err := uc.Effects.NotifyPlaceAdded(ctx, place); err != nil {
			uc.Logger.Warnf("notify place added %s: %v", place.Id, err)
		}
	}

	return place, nil
}

// UpdatePlace implements spec.md §4.2's update-place use-case.
type UpdatePlace struct {
	Places    repo.PlaceRepo
	Orgs      repo.OrganizationRepo
	Clearance repo.PlaceClearanceRepo
	Effects   PlaceEffects
	Accepted  AcceptedLicenses
	Logger    log.Logger
}

// Do loads the current revision of id, re-validates in, recomputes
// moderated-tag authorization against old vs. new tags, and persists
// a new revision in Created status pending re-confirmation.
func (uc *UpdatePlace) Do(ctx context.Context, q execQueryer, id entity.Id, in entity.UpdatePlaceInput) (*entity.Place, error) {
	ctx, span := otelx.StartSpan(ctx, "update_place")
	defer span.End()

	if err := validateNewPlace(uc.Logger, uc.Accepted, in); err != nil {
		otelx.Fail(span, "validate", err)
		return nil, err
	}

	current, err := uc.Places.GetCurrent(ctx, q, id)
	if err != nil {
		otelx.Fail(span, "load current revision", err)
		return nil, err
	}

	in.Tags = entity.NormalizeTags(in.Tags)

	clearanceOrgIds, err := clearanceForTagEdit(ctx, uc.Orgs, q, nil, current.Tags, in.Tags)
	if err != nil {
		otelx.Fail(span, "moderated tag authorization", err)
		return nil, err
	}

	next := &entity.Place{
		Id:           current.Id,
		Revision:     current.Revision.Next(),
		Created:      current.Created,
		Title:        in.Title,
		Description:  in.Description,
		Location:     in.Location,
		Contact:      in.Contact,
		Homepage:     in.Homepage,
		OpeningHours: in.OpeningHours,
		FoundedOn:    in.FoundedOn,
		Image:        in.Image,
		ImageLink:    in.ImageLink,
		Categories:   in.Categories,
		Tags:         in.Tags,
		License:      in.License,
		Status:       entity.StatusCreated,
		ReviewLog:    current.ReviewLog,
	}

	if err := uc.Places.Update(ctx, q, next); err != nil {
		otelx.Fail(span, "persist place", err)
		return nil, err
	}

	for _, orgId := range clearanceOrgIds {
		existing, err := uc.Clearance.Get(ctx, q, orgId, id)
		if err != nil {
			otelx.Fail(span, "load pending clearance", err)
			return nil, err
		}

		pending := entity.PendingClearanceForPlace{OrgId: orgId, PlaceId: id, CreatedAt: time.Now().UTC()}
		if existing != nil {
			pending.LastClearedRevision = existing.LastClearedRevision
		}

		if err := uc.Clearance.Upsert(ctx, q, pending); err != nil {
			otelx.Fail(span, "refresh clearance", err)
			return nil, err
		}
	}

	otelx.SetAttribute(span, "place.id", string(next.Id))

	if uc.Effects != nil {
		if err := uc.Effects.ReindexPlace(ctx, next.Id); err != nil {
			uc.Logger.Warnf("reindex place %s after update: %v", next.Id, err)
		}

		if err := uc.Effects.NotifyPlaceUpdated(ctx, next); err != nil {
			uc.Logger.Warnf("notify place updated %s: %v", next.Id, err)
		}
	}

	return next, nil
}

func validateNewPlace(logger log.Logger, accepted AcceptedLicenses, in entity.NewPlaceInput) error {
	if err := validateTitle(in.Title); err != nil {
		return err
	}

	if err := validateLicense(accepted, string(in.License)); err != nil {
		return err
	}

	if err := validatePosition(in.Location.Pos); err != nil {
		return err
	}

	if err := validateContact(in.Contact); err != nil {
		return err
	}

	return validateUrlFields(logger, in)
}

// clearanceForTagEdit excludes orgId (if non-nil, the acting
// organization) from the moderated-tag pairs before delegating to the
// moderation package, per spec.md §4.3.
func clearanceForTagEdit(ctx context.Context, orgs repo.OrganizationRepo, q execQueryer, actingOrg *entity.Id, oldTags, newTags []string) ([]entity.Id, error) {
	var exclude entity.Id
	if actingOrg != nil {
		exclude = *actingOrg
	}

	byOrg, err := orgs.AllModeratedTagsExcept(ctx, q, exclude)
	if err != nil {
		return nil, apperr.Wrap("load moderated tags", err)
	}

	var pairs []moderation.OrgTag
	for orgId, tags := range byOrg {
		for _, tag := range tags {
			pairs = append(pairs, moderation.OrgTag{OrgId: orgId, Tag: tag})
		}
	}

	return moderation.AuthorizeEdits(pairs, oldTags, newTags)
}

func newActivity(by *entity.EmailAddress) entity.Activity {
	if by == nil {
		return entity.NewSystemActivity()
	}

	return entity.NewActivity(*by)
}

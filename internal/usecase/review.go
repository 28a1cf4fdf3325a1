package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/log"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// ReviewLogger mirrors a review-log entry into an external audit
// trail, best-effort, the same fire-and-forget discipline as Effects
// (spec.md §4.1's review-log audit trail feature).
type ReviewLogger interface {
	Append(ctx context.Context, placeId entity.Id, status entity.ReviewStatus, entry entity.ReviewLogEntry) error
}

// ReviewPlaces implements spec.md §4.2's review-place use-case for the
// authenticated Scout/Admin path: apply a status transition to a batch
// of place ids, appending the same review-log entry to each.
type ReviewPlaces struct {
	Places    repo.PlaceRepo
	Effects   PlaceEffects
	ReviewLog ReviewLogger
	Logger    log.Logger
}

// ReviewInput is the caller-supplied review decision.
type ReviewInput struct {
	Ids     []entity.Id
	Status  entity.ReviewStatus
	By      entity.EmailAddress
	Context string
	Comment *string
}

// Do requires the caller to already have been authorized Scout/Admin
// (spec.md §4.2: "caller must be Scout or Admin"); that check is the
// embedding application's responsibility via AuthorizeUserByEmail, not
// this use-case's, since it has no access to a session concept. Do
// applies the same status transition to every id in in.Ids and
// returns the count actually updated — callers must tolerate partial
// application.
func (uc *ReviewPlaces) Do(ctx context.Context, q execQueryer, in ReviewInput) (int, error) {
	ctx, span := otelx.StartSpan(ctx, "review_places")
	defer span.End()

	if err := validateIdList(in.Ids); err != nil {
		otelx.Fail(span, "validate", err)
		return 0, err
	}

	for _, id := range in.Ids {
		current, err := uc.Places.GetCurrent(ctx, q, id)
		if err != nil {
			var notFound *apperr.NotFoundError
			if errors.As(err, &notFound) {
				continue
			}

			otelx.Fail(span, "load current revision", err)
			return 0, err
		}

		if !current.Status.CanTransitionTo(in.Status) {
			err := &apperr.InvalidTransition{From: current.Status.String(), To: in.Status.String()}
			otelx.Fail(span, "transition", err)
			return 0, err
		}
	}

	entry := entity.ReviewLogEntry{
		Activity: entity.NewActivity(in.By),
		Status:   in.Status,
		Context:  in.Context,
		Comment:  in.Comment,
	}

	n, err := uc.Places.ReviewBatch(ctx, q, in.Ids, in.Status, entry)
	if err != nil {
		otelx.Fail(span, "apply transitions", err)
		return 0, err
	}

	if uc.Effects != nil {
		for _, id := range in.Ids {
			if err := uc.Effects.ReindexPlace(ctx, id); err != nil {
				uc.Logger.Warnf("reindex place %s after review: %v", id, err)
			}
		}
	}

	if uc.ReviewLog != nil {
		for _, id := range in.Ids {
			if err := uc.ReviewLog.Append(ctx, id, in.Status, entry); err != nil {
				uc.Logger.Warnf("append review log for place %s: %v", id, err)
			}
		}
	}

	return n, nil
}

// ReviewPlaceWithNonce implements spec.md §4.2's review-by-nonce flow:
// a consumer presents a ReviewNonce and the transition is applied with
// an unattributed Activity. The two Do-phase split across separate
// transactions is load-bearing: it guarantees the nonce cannot be
// replayed after the review transaction fails for reasons unrelated to
// the token itself.
type ReviewPlaceWithNonce struct {
	Tokens    repo.ReviewTokenRepo
	Places    repo.PlaceRepo
	Effects   PlaceEffects
	ReviewLog ReviewLogger
	Logger    log.Logger
	Now       func() time.Time
}

// ConsumeToken runs the first exclusive transaction: atomically
// deletes and returns the token for nonce, failing with TokenInvalid
// if absent and TokenExpired if past its expiry. A caller MUST NOT
// call ApplyReview unless ConsumeToken succeeded.
func (uc *ReviewPlaceWithNonce) ConsumeToken(ctx context.Context, q execQueryer, nonce entity.Nonce) (*entity.ReviewToken, error) {
	ctx, span := otelx.StartSpan(ctx, "consume_review_token")
	defer span.End()

	token, err := uc.Tokens.Consume(ctx, q, nonce)
	if err != nil {
		otelx.Fail(span, "consume", err)
		return nil, err
	}

	if token == nil {
		err := apperr.NewToken(apperr.TokenInvalid)
		otelx.Fail(span, "consume", err)
		return nil, err
	}

	if token.Expired(uc.now()) {
		err := apperr.NewToken(apperr.TokenExpired)
		otelx.Fail(span, "consume", err)
		return nil, err
	}

	return token, nil
}

// ApplyReview runs the second exclusive transaction: loads the current
// place, rejects with PlaceRevision if the token was issued against a
// stale revision, then applies the status transition with a system
// Activity and the fixed context string from spec.md §4.2.
func (uc *ReviewPlaceWithNonce) ApplyReview(ctx context.Context, q execQueryer, token *entity.ReviewToken, status entity.ReviewStatus) error {
	ctx, span := otelx.StartSpan(ctx, "apply_review_by_nonce")
	defer span.End()

	current, err := uc.Places.GetCurrent(ctx, q, token.ReviewNonce.PlaceId)
	if err != nil {
		otelx.Fail(span, "load current revision", err)
		return err
	}

	if current.Revision != token.ReviewNonce.PlaceRevision {
		err := apperr.NewToken(apperr.TokenPlaceRevision)
		otelx.Fail(span, "revision mismatch", err)
		return err
	}

	if !current.Status.CanTransitionTo(status) {
		err := &apperr.InvalidTransition{From: current.Status.String(), To: status.String()}
		otelx.Fail(span, "transition", err)
		return err
	}

	entry := entity.ReviewLogEntry{
		Activity: entity.NewSystemActivity(),
		Status:   status,
		Context:  "Reviewed with review token",
	}

	if _, err := uc.Places.ReviewBatch(ctx, q, []entity.Id{current.Id}, status, entry); err != nil {
		otelx.Fail(span, "apply transition", err)
		return err
	}

	if uc.Effects != nil {
		if err := uc.Effects.ReindexPlace(ctx, current.Id); err != nil {
			uc.Logger.Warnf("reindex place %s after nonce review: %v", current.Id, err)
		}
	}

	if uc.ReviewLog != nil {
		if err := uc.ReviewLog.Append(ctx, current.Id, status, entry); err != nil {
			uc.Logger.Warnf("append review log for place %s: %v", current.Id, err)
		}
	}

	return nil
}

func (uc *ReviewPlaceWithNonce) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}

	return time.Now().UTC()
}

// Package subscription is the Postgres implementation of
// repo.SubscriptionRepo.
package subscription

import (
	"context"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// Repository is the Postgres-backed repo.SubscriptionRepo.
type Repository struct{}

func New() *Repository {
	return &Repository{}
}

func (r *Repository) Create(ctx context.Context, q pg.Queryer, sub *entity.BboxSubscription) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.subscription.create")
	defer span.End()

	_, err := q.ExecContext(ctx,
		`INSERT INTO bbox_subscription (id, user_email, sw_lat, sw_lng, ne_lat, ne_lng) VALUES ($1,$2,$3,$4,$5,$6)`,
		string(sub.Id), sub.UserEmail.String(),
		sub.Bbox.SouthWest.Lat, sub.Bbox.SouthWest.Lng, sub.Bbox.NorthEast.Lat, sub.Bbox.NorthEast.Lng,
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return pg.TranslateConstraint(err, "bbox_subscription", nil)
	}

	return nil
}

func (r *Repository) ByUserEmail(ctx context.Context, q pg.Queryer, email entity.EmailAddress) ([]*entity.BboxSubscription, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.subscription.by_user_email")
	defer span.End()

	rows, err := q.QueryContext(ctx,
		`SELECT id, user_email, sw_lat, sw_lng, ne_lat, ne_lng FROM bbox_subscription WHERE lower(user_email) = lower($1)`,
		email.String())
	if err != nil {
		otelx.Fail(span, "query", err)
		return nil, apperr.Wrap("subscription: by user email", err)
	}
	defer rows.Close()

	return scanAll(rows)
}

func (r *Repository) Delete(ctx context.Context, q pg.Queryer, id entity.Id) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.subscription.delete")
	defer span.End()

	result, err := q.ExecContext(ctx, `DELETE FROM bbox_subscription WHERE id = $1`, string(id))
	if err != nil {
		otelx.Fail(span, "exec", err)
		return apperr.Wrap("subscription: delete", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap("subscription: delete", err)
	}

	if affected == 0 {
		err := apperr.NewNotFound("bbox_subscription", string(id))
		otelx.Fail(span, "delete", err)
		return err
	}

	return nil
}

// AllContaining implements email_addresses_by_coordinate (spec.md
// §4.5): every subscription whose bbox contains pos, handling the
// antimeridian wrap the same way entity.MapBbox.Contains does.
func (r *Repository) AllContaining(ctx context.Context, q pg.Queryer, pos entity.MapPoint) ([]*entity.BboxSubscription, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.subscription.all_containing")
	defer span.End()

	rows, err := q.QueryContext(ctx, `SELECT id, user_email, sw_lat, sw_lng, ne_lat, ne_lng FROM bbox_subscription
		WHERE $1 BETWEEN sw_lat AND ne_lat
		AND (
			(sw_lng <= ne_lng AND $2 BETWEEN sw_lng AND ne_lng)
			OR (sw_lng > ne_lng AND ($2 >= sw_lng OR $2 <= ne_lng))
		)`, pos.Lat, pos.Lng)
	if err != nil {
		otelx.Fail(span, "query", err)
		return nil, apperr.Wrap("subscription: all containing", err)
	}
	defer rows.Close()

	return scanAll(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAll(rows rowScanner) ([]*entity.BboxSubscription, error) {
	var out []*entity.BboxSubscription

	for rows.Next() {
		var (
			id, rawEmail               string
			swLat, swLng, neLat, neLng float64
		)

		if err := rows.Scan(&id, &rawEmail, &swLat, &swLng, &neLat, &neLng); err != nil {
			return nil, apperr.Wrap("subscription: scan", err)
		}

		email, err := entity.ParseEmailAddress(rawEmail)
		if err != nil {
			return nil, apperr.Wrap("subscription: decode email", err)
		}

		out = append(out, &entity.BboxSubscription{
			Id:        entity.Id(id),
			UserEmail: email,
			Bbox: entity.MapBbox{
				SouthWest: entity.MapPoint{Lat: swLat, Lng: swLng},
				NorthEast: entity.MapPoint{Lat: neLat, Lng: neLng},
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap("subscription: rows", err)
	}

	return out, nil
}

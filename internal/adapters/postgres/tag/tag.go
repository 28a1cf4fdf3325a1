// Package tag is the Postgres implementation of repo.TagRepo and
// repo.CategoryRepo.
package tag

import (
	"context"
	"errors"

	sqrl "github.com/Masterminds/squirrel"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
	"github.com/openfairdb/ofdb-core/internal/repo"
)

// Repository is the Postgres-backed repo.TagRepo and repo.CategoryRepo.
type Repository struct{}

func New() *Repository {
	return &Repository{}
}

// MostPopular counts places per tag via the place_current table's tags
// array column and returns the top limit, ties broken alphabetically.
func (r *Repository) MostPopular(ctx context.Context, q pg.Queryer, limit int) ([]repo.TagCount, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.tag.most_popular")
	defer span.End()

	query, args, err := sqrl.Select("unnest(tags) AS tag", "count(*) AS cnt").
		From("place_current").
		Where(sqrl.Eq{"status": int16(entity.StatusConfirmed)}).
		GroupBy("tag").
		OrderBy("cnt DESC", "tag ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(sqrl.Dollar).
		ToSql()
	if err != nil {
		otelx.Fail(span, "build query", err)
		return nil, apperr.Wrap("tag: build query", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		otelx.Fail(span, "query", err)
		return nil, apperr.Wrap("tag: most popular", err)
	}
	defer rows.Close()

	var out []repo.TagCount

	for rows.Next() {
		var tc repo.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			otelx.Fail(span, "scan", err)
			return nil, apperr.Wrap("tag: scan", err)
		}

		out = append(out, tc)
	}

	if err := rows.Err(); err != nil {
		otelx.Fail(span, "rows", err)
		return nil, apperr.Wrap("tag: rows", err)
	}

	return out, nil
}

// CreateIfAbsent idempotently registers every tag; a unique-violation
// on any individual row is swallowed (spec.md §4.1's idempotency
// carve-out), other errors still abort the batch.
func (r *Repository) CreateIfAbsent(ctx context.Context, q pg.Queryer, tags []string) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.tag.create_if_absent")
	defer span.End()

	for _, t := range tags {
		_, err := q.ExecContext(ctx, `INSERT INTO tag (label) VALUES ($1) ON CONFLICT (label) DO NOTHING`, t)
		if err != nil {
			var conflict *apperr.ConflictError
			translated := pg.TranslateConstraint(err, "tag", nil)
			if errors.As(translated, &conflict) {
				continue
			}

			otelx.Fail(span, "exec", err)
			return translated
		}
	}

	return nil
}

// All implements repo.CategoryRepo over the three fixed categories —
// they are compiled-in constants (spec.md §3), not a database table.
func (r *Repository) All(ctx context.Context, q pg.Queryer) ([]entity.Category, error) {
	_, span := otelx.StartSpan(ctx, "postgres.category.all")
	defer span.End()

	return entity.FixedCategories(), nil
}

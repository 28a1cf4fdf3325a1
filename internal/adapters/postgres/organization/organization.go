// Package organization is the Postgres implementation of
// repo.OrganizationRepo, grounded on the teacher's
// organization.go (model/mapper split) paired with
// product.postgresql.go's query style (database/postgres/
// product.postgresql.go).
package organization

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	sqrl "github.com/Masterminds/squirrel"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// PostgreSQLModel is organization's row shape. ModeratedTags is stored
// as a JSON column: the set is small and read/written wholesale, never
// queried field-by-field, so a relational child table would add joins
// with no benefit.
type PostgreSQLModel struct {
	Id            string
	Name          string
	ApiToken      string
	ModeratedTags []byte
}

func (m *PostgreSQLModel) toEntity() (*entity.Organization, error) {
	var tags []entity.ModeratedTag
	if len(m.ModeratedTags) > 0 {
		if err := json.Unmarshal(m.ModeratedTags, &tags); err != nil {
			return nil, apperr.Wrap("organization: decode moderated_tags", err)
		}
	}

	return &entity.Organization{
		Id:            entity.Id(m.Id),
		Name:          m.Name,
		ApiToken:      m.ApiToken,
		ModeratedTags: tags,
	}, nil
}

func fromEntity(org *entity.Organization) (*PostgreSQLModel, error) {
	raw, err := json.Marshal(org.ModeratedTags)
	if err != nil {
		return nil, apperr.Wrap("organization: encode moderated_tags", err)
	}

	return &PostgreSQLModel{
		Id:            string(org.Id),
		Name:          org.Name,
		ApiToken:      org.ApiToken,
		ModeratedTags: raw,
	}, nil
}

// Repository is the Postgres-backed repo.OrganizationRepo.
type Repository struct{}

func New() *Repository {
	return &Repository{}
}

func (r *Repository) Get(ctx context.Context, q pg.Queryer, id entity.Id) (*entity.Organization, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.organization.get")
	defer span.End()

	row := q.QueryRowContext(ctx, `SELECT id, name, api_token, moderated_tags FROM organization WHERE id = $1`, string(id))

	var m PostgreSQLModel
	if err := row.Scan(&m.Id, &m.Name, &m.ApiToken, &m.ModeratedTags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err := apperr.NewNotFound("organization", string(id))
			otelx.Fail(span, "scan", err)
			return nil, err
		}

		otelx.Fail(span, "scan", err)
		return nil, apperr.Wrap("organization: get", err)
	}

	return m.toEntity()
}

func (r *Repository) ByApiToken(ctx context.Context, q pg.Queryer, token string) (*entity.Organization, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.organization.by_api_token")
	defer span.End()

	row := q.QueryRowContext(ctx, `SELECT id, name, api_token, moderated_tags FROM organization WHERE api_token = $1`, token)

	var m PostgreSQLModel
	if err := row.Scan(&m.Id, &m.Name, &m.ApiToken, &m.ModeratedTags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err := apperr.NewNotFound("organization", "")
			otelx.Fail(span, "scan", err)
			return nil, err
		}

		otelx.Fail(span, "scan", err)
		return nil, apperr.Wrap("organization: by api token", err)
	}

	return m.toEntity()
}

// AllModeratedTagsExcept returns every (org, tag) pair except those
// owned by excludeOrgId, the input the moderation algorithm needs
// (spec.md §4.3).
func (r *Repository) AllModeratedTagsExcept(ctx context.Context, q pg.Queryer, excludeOrgId entity.Id) (map[entity.Id][]entity.ModeratedTag, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.organization.all_moderated_tags")
	defer span.End()

	query, args, err := sqrl.Select("id", "moderated_tags").
		From("organization").
		Where(sqrl.NotEq{"id": string(excludeOrgId)}).
		PlaceholderFormat(sqrl.Dollar).
		ToSql()
	if err != nil {
		otelx.Fail(span, "build query", err)
		return nil, apperr.Wrap("organization: build query", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		otelx.Fail(span, "query", err)
		return nil, apperr.Wrap("organization: query moderated tags", err)
	}
	defer rows.Close()

	out := map[entity.Id][]entity.ModeratedTag{}

	for rows.Next() {
		var id string
		var raw []byte

		if err := rows.Scan(&id, &raw); err != nil {
			otelx.Fail(span, "scan", err)
			return nil, apperr.Wrap("organization: scan moderated tags", err)
		}

		var tags []entity.ModeratedTag
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &tags); err != nil {
				otelx.Fail(span, "decode", err)
				return nil, apperr.Wrap("organization: decode moderated tags", err)
			}
		}

		if len(tags) > 0 {
			out[entity.Id(id)] = tags
		}
	}

	if err := rows.Err(); err != nil {
		otelx.Fail(span, "rows", err)
		return nil, apperr.Wrap("organization: rows", err)
	}

	return out, nil
}

// Create persists a new organization, used by setup/administration
// flows outside the spec's use-case surface proper.
func (r *Repository) Create(ctx context.Context, q pg.Queryer, org *entity.Organization) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.organization.create")
	defer span.End()

	m, err := fromEntity(org)
	if err != nil {
		otelx.Fail(span, "encode", err)
		return err
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO organization (id, name, api_token, moderated_tags) VALUES ($1, $2, $3, $4)`,
		m.Id, m.Name, m.ApiToken, m.ModeratedTags,
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return pg.TranslateConstraint(err, "organization", nil)
	}

	return nil
}

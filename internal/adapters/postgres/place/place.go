// Package place is the Postgres implementation of repo.PlaceRepo,
// grounded on organization.go's model/mapper split and
// product.postgresql.go's query style, generalized to the entity's
// revision history and review log (spec.md §4.2/§6).
package place

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

// model is the row shape shared by place_current and place_history;
// both tables carry identical columns, the latter keyed additionally
// by revision. Location, Contact and ReviewLog are small, nested,
// never queried by field, so they are stored as JSON rather than
// normalized — the same tradeoff organization.go makes for
// moderated_tags.
type model struct {
	Id       string
	Revision int64

	CreatedAt int64
	CreatedBy sql.NullString

	Title       string
	Description string

	Location []byte
	Contact  []byte

	Homepage     sql.NullString
	OpeningHours sql.NullString
	FoundedOn    sql.NullString
	Image        sql.NullString
	ImageLink    sql.NullString

	Categories pq.StringArray
	Tags       pq.StringArray

	License string
	Status  int16

	ReviewLog []byte
}

func fromEntity(p *entity.Place) (*model, error) {
	location, err := json.Marshal(p.Location)
	if err != nil {
		return nil, apperr.Wrap("place: encode location", err)
	}

	contact, err := json.Marshal(p.Contact)
	if err != nil {
		return nil, apperr.Wrap("place: encode contact", err)
	}

	reviewLog, err := json.Marshal(p.ReviewLog)
	if err != nil {
		return nil, apperr.Wrap("place: encode review_log", err)
	}

	categories := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		categories[i] = string(c)
	}

	m := &model{
		Id:           string(p.Id),
		Revision:     int64(p.Revision),
		CreatedAt:    p.Created.At.UnixMilli(),
		Title:        p.Title,
		Description:  p.Description,
		Location:     location,
		Contact:      contact,
		Homepage:     nullString(p.Homepage),
		OpeningHours: nullString(p.OpeningHours),
		FoundedOn:    nullString(p.FoundedOn),
		Image:        nullString(p.Image),
		ImageLink:    nullString(p.ImageLink),
		Categories:   categories,
		Tags:         p.Tags,
		License:      string(p.License),
		Status:       int16(p.Status),
		ReviewLog:    reviewLog,
	}

	if p.Created.By != nil {
		m.CreatedBy = sql.NullString{String: p.Created.By.String(), Valid: true}
	}

	return m, nil
}

func (m *model) toEntity() (*entity.Place, error) {
	var location entity.Location
	if err := json.Unmarshal(m.Location, &location); err != nil {
		return nil, apperr.Wrap("place: decode location", err)
	}

	var contact *entity.Contact
	if len(m.Contact) > 0 && string(m.Contact) != "null" {
		if err := json.Unmarshal(m.Contact, &contact); err != nil {
			return nil, apperr.Wrap("place: decode contact", err)
		}
	}

	var reviewLog []entity.ReviewLogEntry
	if len(m.ReviewLog) > 0 {
		if err := json.Unmarshal(m.ReviewLog, &reviewLog); err != nil {
			return nil, apperr.Wrap("place: decode review_log", err)
		}
	}

	categories := make([]entity.Id, len(m.Categories))
	for i, c := range m.Categories {
		categories[i] = entity.Id(c)
	}

	created := entity.Activity{At: time.UnixMilli(m.CreatedAt).UTC()}
	if m.CreatedBy.Valid {
		email, err := entity.ParseEmailAddress(m.CreatedBy.String)
		if err != nil {
			return nil, apperr.Wrap("place: decode created_by", err)
		}
		created.By = &email
	}

	return &entity.Place{
		Id:           entity.Id(m.Id),
		Revision:     entity.Revision(m.Revision),
		Created:      created,
		Title:        m.Title,
		Description:  m.Description,
		Location:     location,
		Contact:      contact,
		Homepage:     strPtr(m.Homepage),
		OpeningHours: strPtr(m.OpeningHours),
		FoundedOn:    strPtr(m.FoundedOn),
		Image:        strPtr(m.Image),
		ImageLink:    strPtr(m.ImageLink),
		Categories:   categories,
		Tags:         []string(m.Tags),
		License:      entity.License(m.License),
		Status:       entity.ReviewStatus(m.Status),
		ReviewLog:    reviewLog,
	}, nil
}

// Repository is the Postgres-backed repo.PlaceRepo.
type Repository struct{}

func New() *Repository {
	return &Repository{}
}

const currentColumns = `id, revision, created_at, created_by, title, description, location, contact,
	homepage, opening_hours, founded_on, image, image_link, categories, tags, license, status, review_log`

func (m *model) scanArgs() []any {
	return []any{
		&m.Id, &m.Revision, &m.CreatedAt, &m.CreatedBy, &m.Title, &m.Description, &m.Location, &m.Contact,
		&m.Homepage, &m.OpeningHours, &m.FoundedOn, &m.Image, &m.ImageLink, &m.Categories, &m.Tags, &m.License, &m.Status, &m.ReviewLog,
	}
}

// Create inserts place at revision 0 into place_current only — there
// is no history row yet.
func (r *Repository) Create(ctx context.Context, q pg.Queryer, place *entity.Place) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.place.create")
	defer span.End()

	m, err := fromEntity(place)
	if err != nil {
		otelx.Fail(span, "encode", err)
		return err
	}

	_, err = q.ExecContext(ctx, `INSERT INTO place_current (`+currentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		m.Id, m.Revision, m.CreatedAt, m.CreatedBy, m.Title, m.Description, m.Location, m.Contact,
		m.Homepage, m.OpeningHours, m.FoundedOn, m.Image, m.ImageLink, m.Categories, m.Tags, m.License, m.Status, m.ReviewLog,
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return pg.TranslateConstraint(err, "place", nil)
	}

	return nil
}

func (r *Repository) GetCurrent(ctx context.Context, q pg.Queryer, id entity.Id) (*entity.Place, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.place.get_current")
	defer span.End()

	row := q.QueryRowContext(ctx, `SELECT `+currentColumns+` FROM place_current WHERE id = $1`, string(id))

	var m model
	if err := row.Scan(m.scanArgs()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err := apperr.NewNotFound("place", string(id))
			otelx.Fail(span, "scan", err)
			return nil, err
		}

		otelx.Fail(span, "scan", err)
		return nil, apperr.Wrap("place: get current", err)
	}

	return m.toEntity()
}

func (r *Repository) GetRevision(ctx context.Context, q pg.Queryer, key entity.CurrentRevisionKey) (*entity.Place, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.place.get_revision")
	defer span.End()

	row := q.QueryRowContext(ctx, `SELECT `+currentColumns+` FROM place_history WHERE id = $1 AND revision = $2
		UNION ALL
		SELECT `+currentColumns+` FROM place_current WHERE id = $1 AND revision = $2`,
		string(key.PlaceId), int64(key.Revision))

	var m model
	if err := row.Scan(m.scanArgs()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err := apperr.NewNotFound("place_revision", fmt.Sprintf("%s@%d", key.PlaceId, key.Revision))
			otelx.Fail(span, "scan", err)
			return nil, err
		}

		otelx.Fail(span, "scan", err)
		return nil, apperr.Wrap("place: get revision", err)
	}

	return m.toEntity()
}

// Update moves the existing place_current row into place_history, then
// inserts place as the new current row. Both statements run against
// the same q, which the caller is expected to bind to an exclusive
// (transactional) connection (spec.md §4.1) so the move is atomic.
func (r *Repository) Update(ctx context.Context, q pg.Queryer, place *entity.Place) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.place.update")
	defer span.End()

	_, err := q.ExecContext(ctx, `INSERT INTO place_history (`+currentColumns+`)
		SELECT `+currentColumns+` FROM place_current WHERE id = $1`, string(place.Id))
	if err != nil {
		otelx.Fail(span, "archive current", err)
		return apperr.Wrap("place: archive current revision", err)
	}

	m, err := fromEntity(place)
	if err != nil {
		otelx.Fail(span, "encode", err)
		return err
	}

	result, err := q.ExecContext(ctx, `UPDATE place_current SET
		revision = $2, created_at = $3, created_by = $4, title = $5, description = $6, location = $7, contact = $8,
		homepage = $9, opening_hours = $10, founded_on = $11, image = $12, image_link = $13, categories = $14, tags = $15,
		license = $16, status = $17, review_log = $18
		WHERE id = $1`,
		m.Id, m.Revision, m.CreatedAt, m.CreatedBy, m.Title, m.Description, m.Location, m.Contact,
		m.Homepage, m.OpeningHours, m.FoundedOn, m.Image, m.ImageLink, m.Categories, m.Tags, m.License, m.Status, m.ReviewLog,
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return pg.TranslateConstraint(err, "place", nil)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		otelx.Fail(span, "rows affected", err)
		return apperr.Wrap("place: update", err)
	}

	if affected == 0 {
		err := apperr.NewNotFound("place", string(place.Id))
		otelx.Fail(span, "update", err)
		return err
	}

	return nil
}

// AppendReviewLog appends entry to the JSON review_log column and sets
// status in one statement, using a jsonb concatenation so no
// read-modify-write race exists between concurrent reviewers (the
// per-row UPDATE is itself atomic under Postgres MVCC).
func (r *Repository) AppendReviewLog(ctx context.Context, q pg.Queryer, id entity.Id, status entity.ReviewStatus, entry entity.ReviewLogEntry) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.place.append_review_log")
	defer span.End()

	raw, err := json.Marshal(entry)
	if err != nil {
		otelx.Fail(span, "encode entry", err)
		return apperr.Wrap("place: encode review log entry", err)
	}

	result, err := q.ExecContext(ctx, `UPDATE place_current SET
		status = $2, review_log = COALESCE(review_log, '[]'::jsonb) || $3::jsonb
		WHERE id = $1`,
		string(id), int16(status), raw,
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return apperr.Wrap("place: append review log", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		otelx.Fail(span, "rows affected", err)
		return apperr.Wrap("place: append review log", err)
	}

	if affected == 0 {
		err := apperr.NewNotFound("place", string(id))
		otelx.Fail(span, "append review log", err)
		return err
	}

	return nil
}

// ReviewBatch applies the same transition to every id found, silently
// skipping ids that do not exist — callers MUST tolerate partial
// application (spec.md §4.2).
func (r *Repository) ReviewBatch(ctx context.Context, q pg.Queryer, ids []entity.Id, status entity.ReviewStatus, entry entity.ReviewLogEntry) (int, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.place.review_batch")
	defer span.End()

	raw, err := json.Marshal(entry)
	if err != nil {
		otelx.Fail(span, "encode entry", err)
		return 0, apperr.Wrap("place: encode review log entry", err)
	}

	rawIds := make([]string, len(ids))
	for i, id := range ids {
		rawIds[i] = string(id)
	}

	result, err := q.ExecContext(ctx, `UPDATE place_current SET
		status = $2, review_log = COALESCE(review_log, '[]'::jsonb) || $3::jsonb
		WHERE id = ANY($1)`,
		pq.Array(rawIds), int16(status), raw,
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return 0, apperr.Wrap("place: review batch", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		otelx.Fail(span, "rows affected", err)
		return 0, apperr.Wrap("place: review batch", err)
	}

	return int(affected), nil
}

func (r *Repository) ByIds(ctx context.Context, q pg.Queryer, ids []entity.Id) ([]*entity.Place, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.place.by_ids")
	defer span.End()

	rawIds := make([]string, len(ids))
	for i, id := range ids {
		rawIds[i] = string(id)
	}

	rows, err := q.QueryContext(ctx, `SELECT `+currentColumns+` FROM place_current WHERE id = ANY($1)`, pq.Array(rawIds))
	if err != nil {
		otelx.Fail(span, "query", err)
		return nil, apperr.Wrap("place: by ids", err)
	}
	defer rows.Close()

	var out []*entity.Place

	for rows.Next() {
		var m model
		if err := rows.Scan(m.scanArgs()...); err != nil {
			otelx.Fail(span, "scan", err)
			return nil, apperr.Wrap("place: scan", err)
		}

		e, err := m.toEntity()
		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		otelx.Fail(span, "rows", err)
		return nil, apperr.Wrap("place: rows", err)
	}

	return out, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: *s, Valid: true}
}

func strPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}

	return &n.String
}

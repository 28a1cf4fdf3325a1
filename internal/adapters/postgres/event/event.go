// Package event is the Postgres implementation of repo.EventRepo.
// Events carry no revision history, so this adapter is a simpler
// variant of the place adapter's model/mapper split.
package event

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/openfairdb/ofdb-core/internal/entity"
	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
	"github.com/openfairdb/ofdb-core/internal/platform/pg"
)

type model struct {
	Id          string
	Title       string
	Description sql.NullString

	Start int64
	End   sql.NullInt64

	Location []byte
	Contact  []byte

	Tags pq.StringArray

	Homepage     sql.NullString
	CreatedBy    sql.NullString
	Registration sql.NullInt16

	ArchivedAt sql.NullInt64

	Images pq.StringArray
}

func fromEntity(e *entity.Event) (*model, error) {
	location, err := json.Marshal(e.Location)
	if err != nil {
		return nil, apperr.Wrap("event: encode location", err)
	}

	contact, err := json.Marshal(e.Contact)
	if err != nil {
		return nil, apperr.Wrap("event: encode contact", err)
	}

	m := &model{
		Id:          string(e.Id),
		Title:       e.Title,
		Description: nullString(e.Description),
		Start:       e.Start.UnixMilli(),
		Location:    location,
		Contact:     contact,
		Tags:        e.Tags,
		Homepage:    nullString(e.Homepage),
		Images:      e.Images,
	}

	if e.End != nil {
		m.End = sql.NullInt64{Int64: e.End.UnixMilli(), Valid: true}
	}

	if e.CreatedBy != nil {
		m.CreatedBy = sql.NullString{String: e.CreatedBy.String(), Valid: true}
	}

	if e.Registration != nil {
		m.Registration = sql.NullInt16{Int16: int16(*e.Registration), Valid: true}
	}

	if e.Archived != nil {
		m.ArchivedAt = sql.NullInt64{Int64: e.Archived.UnixMilli(), Valid: true}
	}

	return m, nil
}

func (m *model) toEntity() (*entity.Event, error) {
	var location *entity.Location
	if len(m.Location) > 0 && string(m.Location) != "null" {
		if err := json.Unmarshal(m.Location, &location); err != nil {
			return nil, apperr.Wrap("event: decode location", err)
		}
	}

	var contact *entity.Contact
	if len(m.Contact) > 0 && string(m.Contact) != "null" {
		if err := json.Unmarshal(m.Contact, &contact); err != nil {
			return nil, apperr.Wrap("event: decode contact", err)
		}
	}

	e := &entity.Event{
		Id:          entity.Id(m.Id),
		Title:       m.Title,
		Description: strPtr(m.Description),
		Start:       time.UnixMilli(m.Start).UTC(),
		Location:    location,
		Contact:     contact,
		Tags:        []string(m.Tags),
		Homepage:    strPtr(m.Homepage),
		Images:      []string(m.Images),
	}

	if m.End.Valid {
		t := time.UnixMilli(m.End.Int64).UTC()
		e.End = &t
	}

	if m.CreatedBy.Valid {
		email, err := entity.ParseEmailAddress(m.CreatedBy.String)
		if err != nil {
			return nil, apperr.Wrap("event: decode created_by", err)
		}
		e.CreatedBy = &email
	}

	if m.Registration.Valid {
		r := entity.RegistrationType(m.Registration.Int16)
		e.Registration = &r
	}

	if m.ArchivedAt.Valid {
		t := time.UnixMilli(m.ArchivedAt.Int64).UTC()
		e.Archived = &t
	}

	return e, nil
}

// Repository is the Postgres-backed repo.EventRepo.
type Repository struct{}

func New() *Repository {
	return &Repository{}
}

const columns = `id, title, description, start_at, end_at, location, contact, tags, homepage, created_by, registration, archived_at, images`

func (m *model) scanArgs() []any {
	return []any{
		&m.Id, &m.Title, &m.Description, &m.Start, &m.End, &m.Location, &m.Contact, &m.Tags,
		&m.Homepage, &m.CreatedBy, &m.Registration, &m.ArchivedAt, &m.Images,
	}
}

func (r *Repository) Create(ctx context.Context, q pg.Queryer, event *entity.Event) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.event.create")
	defer span.End()

	m, err := fromEntity(event)
	if err != nil {
		otelx.Fail(span, "encode", err)
		return err
	}

	_, err = q.ExecContext(ctx, `INSERT INTO event (`+columns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		m.Id, m.Title, m.Description, m.Start, m.End, m.Location, m.Contact, m.Tags,
		m.Homepage, m.CreatedBy, m.Registration, m.ArchivedAt, m.Images,
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return pg.TranslateConstraint(err, "event", nil)
	}

	return nil
}

func (r *Repository) Get(ctx context.Context, q pg.Queryer, id entity.Id) (*entity.Event, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.event.get")
	defer span.End()

	row := q.QueryRowContext(ctx, `SELECT `+columns+` FROM event WHERE id = $1`, string(id))

	var m model
	if err := row.Scan(m.scanArgs()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err := apperr.NewNotFound("event", string(id))
			otelx.Fail(span, "scan", err)
			return nil, err
		}

		otelx.Fail(span, "scan", err)
		return nil, apperr.Wrap("event: get", err)
	}

	return m.toEntity()
}

func (r *Repository) Update(ctx context.Context, q pg.Queryer, event *entity.Event) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.event.update")
	defer span.End()

	m, err := fromEntity(event)
	if err != nil {
		otelx.Fail(span, "encode", err)
		return err
	}

	result, err := q.ExecContext(ctx, `UPDATE event SET
		title = $2, description = $3, start_at = $4, end_at = $5, location = $6, contact = $7, tags = $8,
		homepage = $9, created_by = $10, registration = $11, archived_at = $12, images = $13
		WHERE id = $1`,
		m.Id, m.Title, m.Description, m.Start, m.End, m.Location, m.Contact, m.Tags,
		m.Homepage, m.CreatedBy, m.Registration, m.ArchivedAt, m.Images,
	)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return pg.TranslateConstraint(err, "event", nil)
	}

	if err := requireAffected(result, "event", string(event.Id)); err != nil {
		otelx.Fail(span, "update", err)
		return err
	}

	return nil
}

func (r *Repository) SetArchived(ctx context.Context, q pg.Queryer, id entity.Id, archived bool) error {
	ctx, span := otelx.StartSpan(ctx, "postgres.event.set_archived")
	defer span.End()

	var archivedAt sql.NullInt64
	if archived {
		archivedAt = sql.NullInt64{Int64: time.Now().UnixMilli(), Valid: true}
	}

	result, err := q.ExecContext(ctx, `UPDATE event SET archived_at = $2 WHERE id = $1`, string(id), archivedAt)
	if err != nil {
		otelx.Fail(span, "exec", err)
		return apperr.Wrap("event: set archived", err)
	}

	if err := requireAffected(result, "event", string(id)); err != nil {
		otelx.Fail(span, "set archived", err)
		return err
	}

	return nil
}

func (r *Repository) ByIds(ctx context.Context, q pg.Queryer, ids []entity.Id) ([]*entity.Event, error) {
	ctx, span := otelx.StartSpan(ctx, "postgres.event.by_ids")
	defer span.End()

	rawIds := make([]string, len(ids))
	for i, id := range ids {
		rawIds[i] = string(id)
	}

	rows, err := q.QueryContext(ctx, `SELECT `+columns+` FROM event WHERE id = ANY($1)`, pq.Array(rawIds))
	if err != nil {
		otelx.Fail(span, "query", err)
		return nil, apperr.Wrap("event: by ids", err)
	}
	defer rows.Close()

	var out []*entity.Event

	for rows.Next() {
		var m model
		if err := rows.Scan(m.scanArgs()...); err != nil {
			otelx.Fail(span, "scan", err)
			return nil, apperr.Wrap("event: scan", err)
		}

		e, err := m.toEntity()
		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		otelx.Fail(span, "rows", err)
		return nil, apperr.Wrap("event: rows", err)
	}

	return out, nil
}

func requireAffected(result sql.Result, entityName, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap(entityName+": rows affected", err)
	}

	if affected == 0 {
		return apperr.NewNotFound(entityName, id)
	}

	return nil
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

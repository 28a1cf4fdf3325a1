package pg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openfairdb/ofdb-core/internal/platform/apperr"
)

// TranslateConstraint maps a Postgres constraint violation onto the
// domain NotFound/Conflict taxonomy, the way the teacher's
// app.ValidatePGError does per foreign-key constraint name. byConstraint
// maps a constraint name to the entity it references; anything not in
// the map falls through to a generic Conflict.
func TranslateConstraint(err error, entity string, byConstraint map[string]string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperr.Wrap("pg", err)
	}

	switch pgErr.Code {
	case "23503": // foreign_key_violation
		if ref, ok := byConstraint[pgErr.ConstraintName]; ok {
			return apperr.NewNotFound(ref, "")
		}

		return apperr.NewConflict(apperr.ConflictGeneric, entity)
	case "23505": // unique_violation
		return apperr.NewConflict(apperr.ConflictGeneric, entity)
	default:
		return apperr.Wrap("pg", err)
	}
}

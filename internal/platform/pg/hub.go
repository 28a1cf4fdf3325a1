// Package pg is the Postgres connection hub used by every repository
// implementation in internal/adapters/postgres. It is grounded on the
// teacher's common/mpostgres.PostgresConnection: a primary/replica
// split via dbresolver, connected once and handed out thereafter.
//
// Connection modes map directly onto spec.md §4.1's shared/exclusive
// distinction: Shared binds to the replica pool (many concurrent
// readers, no cross-call snapshot guarantee); Exclusive binds to the
// primary pool inside a *sql.Tx that the caller must commit or roll
// back.
package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bxcodec/dbresolver/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Hub holds the primary and replica Postgres connections.
type Hub struct {
	PrimaryDSN string
	ReplicaDSN string

	db *dbresolver.DB
}

// Connect opens both pools and wires them into a round-robin resolver.
// Migration mechanics are out of scope (spec.md §1): Hub assumes the
// target database already has the expected schema.
func (h *Hub) Connect(context.Context) error {
	primary, err := sql.Open("pgx", h.PrimaryDSN)
	if err != nil {
		return fmt.Errorf("pg: open primary: %w", err)
	}

	replica, err := sql.Open("pgx", h.ReplicaDSN)
	if err != nil {
		return fmt.Errorf("pg: open replica: %w", err)
	}

	resolved := dbresolver.New(
		dbresolver.WithPrimaryDBs(primary),
		dbresolver.WithReplicaDBs(replica),
		dbresolver.WithLoadBalancer(dbresolver.RoundRobinLB),
	)

	if err := resolved.Ping(); err != nil {
		return fmt.Errorf("pg: ping: %w", err)
	}

	h.db = &resolved

	return nil
}

// DB returns the resolved connection, connecting lazily if needed.
func (h *Hub) DB(ctx context.Context) (dbresolver.DB, error) {
	if h.db == nil {
		if err := h.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return *h.db, nil
}

// Shared runs fn against the read-replica pool. Reads made this way
// carry no snapshot guarantee across multiple calls (spec.md §4.1).
func (h *Hub) Shared(ctx context.Context, fn func(ctx context.Context, q Queryer) error) error {
	db, err := h.DB(ctx)
	if err != nil {
		return err
	}

	return fn(ctx, db)
}

// Exclusive runs fn inside a primary-pool transaction, committing on a
// nil return and rolling back otherwise (spec.md §4.1: "Transaction
// rollback SHALL be triggered by any error returned from the
// transactional closure").
func (h *Hub) Exclusive(ctx context.Context, fn func(ctx context.Context, q Queryer) error) error {
	db, err := h.DB(ctx)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pg: begin: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("pg: rollback after %w: %v", err, rbErr)
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pg: commit: %w", err)
	}

	return nil
}

// Queryer is the common surface *sql.Tx and dbresolver.DB both
// satisfy; repository implementations depend on this, not on either
// concrete type, so the same code runs inside or outside a
// transaction.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx used by repositories.
// *pgxpool.Pool, *pgx.Conn and pgx.Tx all satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner is a DBTX that can open transactions (the pool).
type Beginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Session is what repositories need from a unit of work:
// a handle for reads, a transactional handle for writes and a row counter.
type Session interface {
	Reader() DBTX
	Writer(ctx context.Context) (DBTX, error)
	Track(rowsAffected int64)
}

// UnitOfWork groups the writes of one service operation into a single
// transaction.
//
// FLOW:
//
//	uow := database.NewUnitOfWork(pool)
//	defer uow.Rollback(ctx)        // no-op after SaveChanges
//	... repositories write through uow.Writer(ctx) ...
//	n, err := uow.SaveChanges(ctx) // commit, n = rows affected by all writes
//
// The transaction is begun lazily on the first write, so read-only
// operations never hold one.
type UnitOfWork struct {
	db       Beginner
	tx       pgx.Tx
	affected int64
}

// NewUnitOfWork creates a unit of work on top of a pool.
func NewUnitOfWork(db Beginner) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Reader returns the open transaction if any, otherwise the pool.
// Reads inside a write sequence therefore see their own uncommitted writes.
func (u *UnitOfWork) Reader() DBTX {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// Writer returns the transaction, beginning it on first use.
func (u *UnitOfWork) Writer(ctx context.Context) (DBTX, error) {
	if u.tx == nil {
		tx, err := u.db.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to begin transaction: %w", err)
		}
		u.tx = tx
	}
	return u.tx, nil
}

// Track adds rows affected by a write to the running total.
func (u *UnitOfWork) Track(rowsAffected int64) {
	u.affected += rowsAffected
}

// SaveChanges commits the transaction and returns the number of rows
// affected since it began. Zero means nothing was written.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (int64, error) {
	if u.tx == nil {
		return 0, nil
	}

	tx, affected := u.tx, u.affected
	u.tx, u.affected = nil, 0

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return affected, nil
}

// Rollback discards uncommitted writes. Safe to call after SaveChanges and
// safe to call more than once.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	tx := u.tx
	u.tx, u.affected = nil, 0

	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/currency_exchange_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres SQLSTATE codes the repositories translate into domain errors.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"

	tillCheckConstraint = "amount_in_cash_non_negative"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so read helpers can run
// inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ querier = (*pgxpool.Pool)(nil)
	_ querier = (pgx.Tx)(nil)
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", translatePgError(err))
	}
	return nil
}

// Rollback rolls back a transaction. Rolling back a finished transaction is not an error.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// translatePgError maps constraint violations onto domain error kinds and
// returns other errors unchanged.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgForeignKeyViolation:
		return apperrors.NewAppError(http.StatusConflict, pgErr.Message, apperrors.ErrReferentialIntegrity)
	case pgUniqueViolation:
		return apperrors.NewAppError(http.StatusConflict, pgErr.Message, apperrors.ErrDuplicate)
	case pgCheckViolation:
		if pgErr.ConstraintName == tillCheckConstraint {
			return apperrors.NewAppError(http.StatusUnprocessableEntity, pgErr.Message, apperrors.ErrInsufficientTill)
		}
		return apperrors.NewAppError(http.StatusBadRequest, pgErr.Message, apperrors.ErrValidation)
	}
	return err
}

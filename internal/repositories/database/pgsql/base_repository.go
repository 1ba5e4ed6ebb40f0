package pgsql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Unique constraint names from the migrations. A violation on a code constraint is
// reported as apperrors.ErrCodeTaken so identifier issuers can retry.
const (
	constraintCompanyCode   = "uq_companies_company_code"
	constraintCompanyEmail  = "uq_companies_email"
	constraintEmployeeCode  = "uq_employees_employee_code"
	constraintEmployeeEmail = "uq_employees_email"
	constraintAdminEmail    = "uq_admins_email"
	constraintEmployeeFK    = "fk_employees_company"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewStoreUnavailableError("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewStoreUnavailableError("failed to rollback transaction", err)
	}
	return nil
}

// mapWriteError translates constraint violations into domain errors. Anything else
// is a store failure.
func mapWriteError(err error, message, code string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			switch pgErr.ConstraintName {
			case constraintCompanyCode, constraintEmployeeCode:
				return apperrors.NewCodeTakenError(code)
			case constraintCompanyEmail, constraintEmployeeEmail, constraintAdminEmail:
				return apperrors.NewConflictError("email is already registered")
			}
			return apperrors.NewConflictError(message + ": duplicate value")
		case "23503": // foreign_key_violation
			if pgErr.ConstraintName == constraintEmployeeFK {
				return apperrors.NewValidationFailedError("company does not exist")
			}
			return apperrors.NewValidationFailedError(message + ": referenced record does not exist")
		case "23514": // check_violation
			return apperrors.NewValidationFailedError(message + ": value out of range")
		}
	}
	return apperrors.NewStoreUnavailableError(message, err)
}

// conditionalMiss explains a conditional UPDATE that touched no rows: either the row
// is gone, or its status moved on before we got there.
func (r *BaseRepository) conditionalMiss(ctx context.Context, table, idColumn, id, entity, from, to string) error {
	var current *string
	query := `SELECT status FROM ` + table + ` WHERE ` + idColumn + ` = $1`
	if err := r.Pool.QueryRow(ctx, query, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError(entity + " not found")
		}
		return apperrors.NewStoreUnavailableError("failed to read "+entity+" status "+id, err)
	}
	if current != nil {
		from = *current
	}
	return apperrors.NewInvalidTransitionError(entity, from, to)
}

package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	"github.com/SscSPs/loan_desk_app/internal/models"
	"github.com/SscSPs/loan_desk_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCredentialRepository reads the password hash and token version that live on
// each principal table.
type PgxCredentialRepository struct {
	BaseRepository
}

func newPgxCredentialRepository(pool *pgxpool.Pool) portsrepo.CredentialRepository {
	return &PgxCredentialRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CredentialRepository = (*PgxCredentialRepository)(nil)

type credentialTable struct {
	table    string
	idColumn string
}

var credentialTables = map[domain.PrincipalKind]credentialTable{
	domain.PrincipalCompany:  {table: "companies", idColumn: "company_id"},
	domain.PrincipalEmployee: {table: "employees", idColumn: "employee_id"},
	domain.PrincipalAdmin:    {table: "admins", idColumn: "admin_id"},
}

func tableFor(kind domain.PrincipalKind) (credentialTable, error) {
	t, ok := credentialTables[kind]
	if !ok {
		return credentialTable{}, apperrors.NewValidationFailedError("unknown principal kind " + string(kind))
	}
	return t, nil
}

func (r *PgxCredentialRepository) findOne(ctx context.Context, kind domain.PrincipalKind, byEmail bool, value string) (*domain.Credential, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	column := t.idColumn
	if byEmail {
		column = "email"
	}
	query := `SELECT ` + t.idColumn + ` AS principal_id, email, password_hash, token_version FROM ` + t.table + ` WHERE ` + column + ` = $1`
	rows, err := r.Pool.Query(ctx, query, value)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to query credentials", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Credential])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(string(kind) + " not found")
		}
		return nil, apperrors.NewStoreUnavailableError("failed to collect credential row", err)
	}
	cred := mapping.ToDomainCredential(kind, m)
	return &cred, nil
}

func (r *PgxCredentialRepository) FindCredentialByEmail(ctx context.Context, kind domain.PrincipalKind, email string) (*domain.Credential, error) {
	return r.findOne(ctx, kind, true, email)
}

func (r *PgxCredentialRepository) FindCredentialByID(ctx context.Context, kind domain.PrincipalKind, principalID string) (*domain.Credential, error) {
	return r.findOne(ctx, kind, false, principalID)
}

func (r *PgxCredentialRepository) IncrementTokenVersion(ctx context.Context, kind domain.PrincipalKind, principalID string) (int, error) {
	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	query := `UPDATE ` + t.table + ` SET token_version = token_version + 1 WHERE ` + t.idColumn + ` = $1 RETURNING token_version`
	var version int
	if err := r.Pool.QueryRow(ctx, query, principalID).Scan(&version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewNotFoundError(string(kind) + " not found")
		}
		return 0, apperrors.NewStoreUnavailableError("failed to revoke tokens", err)
	}
	return version, nil
}

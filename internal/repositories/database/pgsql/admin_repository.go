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

type PgxAdminRepository struct {
	BaseRepository
}

func newPgxAdminRepository(pool *pgxpool.Pool) portsrepo.AdminRepositoryFacade {
	return &PgxAdminRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AdminRepositoryFacade = (*PgxAdminRepository)(nil)

func (r *PgxAdminRepository) findOne(ctx context.Context, column, value string) (*domain.Admin, error) {
	query := `
		SELECT admin_id, name, email, password_hash, token_version, created_at
		FROM admins
		WHERE ` + column + ` = $1;
	`
	rows, err := r.Pool.Query(ctx, query, value)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to query admins", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Admin])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("admin not found")
		}
		return nil, apperrors.NewStoreUnavailableError("failed to collect admin row", err)
	}
	admin := mapping.ToDomainAdmin(m)
	return &admin, nil
}

func (r *PgxAdminRepository) FindAdminByID(ctx context.Context, adminID string) (*domain.Admin, error) {
	return r.findOne(ctx, "admin_id", adminID)
}

func (r *PgxAdminRepository) FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.findOne(ctx, "email", email)
}

func (r *PgxAdminRepository) SaveAdmin(ctx context.Context, admin domain.Admin) error {
	m := mapping.ToModelAdmin(admin)
	query := `
		INSERT INTO admins (admin_id, name, email, password_hash, token_version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query, m.AdminID, m.Name, m.Email, m.PasswordHash, m.TokenVersion, m.CreatedAt)
	if err != nil {
		return mapWriteError(err, "failed to save admin "+admin.AdminID, "")
	}
	return nil
}

package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	"github.com/SscSPs/loan_desk_app/internal/models"
	"github.com/SscSPs/loan_desk_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxCompanyRepository struct {
	BaseRepository
}

func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepositoryFacade {
	return &PgxCompanyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

const selectCompanyQuery = `
SELECT
	c.company_id, c.name, c.email, c.company_code, c.balance, c.interest_rates, c.role,
	c.status, c.rejection_reason, c.approved_at, c.rejected_at, c.password_hash,
	c.token_version, c.created_at, c.last_updated_at
FROM companies c
`

func (r *PgxCompanyRepository) getCompanies(ctx context.Context, filterQuery string, args ...any) ([]domain.Company, error) {
	rows, err := r.Pool.Query(ctx, selectCompanyQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to query companies", err)
	}
	defer rows.Close()
	modelCompanies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Company])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Company{}, nil
		}
		return nil, apperrors.NewStoreUnavailableError("failed to collect company rows", err)
	}
	return mapping.ToDomainCompanySlice(modelCompanies)
}

func (r *PgxCompanyRepository) findOne(ctx context.Context, filterQuery string, arg string) (*domain.Company, error) {
	companies, err := r.getCompanies(ctx, filterQuery, arg)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, apperrors.NewNotFoundError("company not found")
	}
	return &companies[0], nil
}

func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	return r.findOne(ctx, `WHERE c.company_id = $1`, companyID)
}

func (r *PgxCompanyRepository) FindCompanyByEmail(ctx context.Context, email string) (*domain.Company, error) {
	return r.findOne(ctx, `WHERE c.email = $1`, email)
}

func (r *PgxCompanyRepository) FindCompanyByCode(ctx context.Context, code string) (*domain.Company, error) {
	return r.findOne(ctx, `WHERE c.company_code = $1`, code)
}

func (r *PgxCompanyRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return r.getCompanies(ctx, `ORDER BY lower(c.name), c.company_id`)
}

func (r *PgxCompanyRepository) ListCompaniesByStatus(ctx context.Context, status domain.CompanyStatus) ([]domain.Company, error) {
	return r.getCompanies(ctx, `WHERE c.status = $1 ORDER BY lower(c.name), c.company_id`, string(status))
}

func (r *PgxCompanyRepository) CountCompaniesWithoutStatus(ctx context.Context) (int64, error) {
	var n int64
	if err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM companies WHERE status IS NULL`).Scan(&n); err != nil {
		return 0, apperrors.NewStoreUnavailableError("failed to count companies without status", err)
	}
	return n, nil
}

func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	m, err := mapping.ToModelCompany(company)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO companies (
			company_id, name, email, company_code, balance, interest_rates, role, status,
			password_hash, token_version, created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.Name,
		m.Email,
		m.CompanyCode,
		m.Balance,
		m.InterestRates,
		m.Role,
		m.Status,
		m.PasswordHash,
		m.TokenVersion,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "failed to save company "+company.CompanyID, company.Code())
	}
	return nil
}

// update runs a single-row UPDATE and reports a missing row as not found.
func (r *PgxCompanyRepository) update(ctx context.Context, companyID, code, setClause string, args ...any) error {
	query := `UPDATE companies SET ` + setClause + `, last_updated_at = $2 WHERE company_id = $1`
	all := append([]any{companyID, time.Now().UTC()}, args...)
	tag, err := r.Pool.Exec(ctx, query, all...)
	if err != nil {
		return mapWriteError(err, "failed to update company "+companyID, code)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("company not found")
	}
	return nil
}

func (r *PgxCompanyRepository) UpdateCompanyInterestRates(ctx context.Context, companyID string, rates domain.InterestRates) error {
	raw, err := mapping.EncodeInterestRates(rates)
	if err != nil {
		return err
	}
	return r.update(ctx, companyID, "", `interest_rates = $3`, raw)
}

func (r *PgxCompanyRepository) UpdateCompanyBalance(ctx context.Context, companyID string, balance decimal.Decimal) error {
	return r.update(ctx, companyID, "", `balance = $3`, balance)
}

func (r *PgxCompanyRepository) UpdateCompanyCode(ctx context.Context, companyID, code string) error {
	return r.update(ctx, companyID, code, `company_code = $3`, code)
}

// TransitionCompanyStatus is a compare-and-set on the status column.
func (r *PgxCompanyRepository) TransitionCompanyStatus(ctx context.Context, companyID string, change domain.CompanyStatusChange) error {
	query := `
		UPDATE companies
		SET status = $3,
			approved_at = CASE WHEN $3 = 'approved' THEN $4 ELSE approved_at END,
			rejected_at = CASE WHEN $3 = 'rejected' THEN $4 ELSE rejected_at END,
			rejection_reason = CASE WHEN $3 = 'rejected' THEN $5 ELSE rejection_reason END,
			last_updated_at = $4
		WHERE company_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, string(change.From), string(change.To), change.At, change.Reason)
	if err != nil {
		return mapWriteError(err, "failed to transition company "+companyID, "")
	}
	if tag.RowsAffected() == 0 {
		return r.conditionalMiss(ctx, "companies", "company_id", companyID, "company", string(change.From), string(change.To))
	}
	return nil
}

func (r *PgxCompanyRepository) BackfillCompanyStatus(ctx context.Context, status domain.CompanyStatus) (int64, error) {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE companies SET status = $1, last_updated_at = $2 WHERE status IS NULL`,
		string(status), time.Now().UTC(),
	)
	if err != nil {
		return 0, apperrors.NewStoreUnavailableError("failed to backfill company status", err)
	}
	return tag.RowsAffected(), nil
}

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
)

type PgxEmployeeRepository struct {
	BaseRepository
}

func newPgxEmployeeRepository(pool *pgxpool.Pool) portsrepo.EmployeeRepositoryFacade {
	return &PgxEmployeeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.EmployeeRepositoryFacade = (*PgxEmployeeRepository)(nil)

const selectEmployeeQuery = `
SELECT
	e.employee_id, e.name, e.email, e.employee_code, e.salary, e.company_id, e.status,
	e.rejection_reason, e.verified_at, e.rejected_at, e.password_hash, e.token_version,
	e.created_at, e.last_updated_at
FROM employees e
`

func (r *PgxEmployeeRepository) getEmployees(ctx context.Context, filterQuery string, args ...any) ([]domain.Employee, error) {
	rows, err := r.Pool.Query(ctx, selectEmployeeQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to query employees", err)
	}
	defer rows.Close()
	modelEmployees, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Employee{}, nil
		}
		return nil, apperrors.NewStoreUnavailableError("failed to collect employee rows", err)
	}
	return mapping.ToDomainEmployeeSlice(modelEmployees)
}

func (r *PgxEmployeeRepository) findOne(ctx context.Context, filterQuery string, arg string) (*domain.Employee, error) {
	employees, err := r.getEmployees(ctx, filterQuery, arg)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, apperrors.NewNotFoundError("employee not found")
	}
	return &employees[0], nil
}

func (r *PgxEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	return r.findOne(ctx, `WHERE e.employee_id = $1`, employeeID)
}

func (r *PgxEmployeeRepository) FindEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return r.findOne(ctx, `WHERE e.email = $1`, email)
}

func (r *PgxEmployeeRepository) FindEmployeeByCode(ctx context.Context, code string) (*domain.Employee, error) {
	return r.findOne(ctx, `WHERE e.employee_code = $1`, code)
}

func (r *PgxEmployeeRepository) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return r.getEmployees(ctx, `ORDER BY lower(e.name), e.employee_id`)
}

func (r *PgxEmployeeRepository) ListEmployeesByCompany(ctx context.Context, companyID string) ([]domain.Employee, error) {
	return r.getEmployees(ctx, `WHERE e.company_id = $1 ORDER BY lower(e.name), e.employee_id`, companyID)
}

func (r *PgxEmployeeRepository) ListEmployeeCodes(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT employee_code FROM employees WHERE employee_code IS NOT NULL`)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to query employee codes", err)
	}
	defer rows.Close()
	codes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to collect employee codes", err)
	}
	return codes, nil
}

func (r *PgxEmployeeRepository) CountEmployeesWithoutStatus(ctx context.Context) (int64, error) {
	var n int64
	if err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM employees WHERE status IS NULL`).Scan(&n); err != nil {
		return 0, apperrors.NewStoreUnavailableError("failed to count employees without status", err)
	}
	return n, nil
}

func (r *PgxEmployeeRepository) SaveEmployee(ctx context.Context, employee domain.Employee) error {
	m := mapping.ToModelEmployee(employee)
	query := `
		INSERT INTO employees (
			employee_id, name, email, employee_code, salary, company_id, status,
			password_hash, token_version, created_at, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EmployeeID,
		m.Name,
		m.Email,
		m.EmployeeCode,
		m.Salary,
		m.CompanyID,
		m.Status,
		m.PasswordHash,
		m.TokenVersion,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "failed to save employee "+employee.EmployeeID, employee.Code())
	}
	return nil
}

func (r *PgxEmployeeRepository) UpdateEmployeeCode(ctx context.Context, employeeID, code string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE employees SET employee_code = $2, last_updated_at = $3 WHERE employee_id = $1`,
		employeeID, code, time.Now().UTC(),
	)
	if err != nil {
		return mapWriteError(err, "failed to update employee code "+employeeID, code)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("employee not found")
	}
	return nil
}

// TransitionEmployeeStatus is a compare-and-set on the status column.
func (r *PgxEmployeeRepository) TransitionEmployeeStatus(ctx context.Context, employeeID string, change domain.EmployeeStatusChange) error {
	query := `
		UPDATE employees
		SET status = $3,
			verified_at = CASE WHEN $3 = 'verified' THEN $4 ELSE verified_at END,
			rejected_at = CASE WHEN $3 = 'rejected' THEN $4 ELSE rejected_at END,
			rejection_reason = CASE WHEN $3 = 'rejected' THEN $5 ELSE rejection_reason END,
			last_updated_at = $4
		WHERE employee_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, employeeID, string(change.From), string(change.To), change.At, change.Reason)
	if err != nil {
		return mapWriteError(err, "failed to transition employee "+employeeID, "")
	}
	if tag.RowsAffected() == 0 {
		return r.conditionalMiss(ctx, "employees", "employee_id", employeeID, "employee", string(change.From), string(change.To))
	}
	return nil
}

func (r *PgxEmployeeRepository) BackfillEmployeeStatus(ctx context.Context, status domain.EmployeeStatus) (int64, error) {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE employees SET status = $1, last_updated_at = $2 WHERE status IS NULL`,
		string(status), time.Now().UTC(),
	)
	if err != nil {
		return 0, apperrors.NewStoreUnavailableError("failed to backfill employee status", err)
	}
	return tag.RowsAffected(), nil
}

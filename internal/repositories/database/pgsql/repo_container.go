package pgsql

import (
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo:    newPgxCompanyRepository(dbPool),
		EmployeeRepo:   newPgxEmployeeRepository(dbPool),
		LoanRepo:       newPgxLoanRepository(dbPool),
		AdminRepo:      newPgxAdminRepository(dbPool),
		CredentialRepo: newPgxCredentialRepository(dbPool),
	}
}

//go:build integration

package pgsql_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	"github.com/SscSPs/loan_desk_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/loan_desk_app/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/sync/errgroup"
)

// RepositoryIntegrationSuite runs the pgx repositories against a real Postgres 16.
// Set LOAN_DESK_TEST_PG_DSN to reuse an existing database instead of a container.
type RepositoryIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	repos     portsrepo.RepositoryProvider
	closePool func()
}

func TestRepositoryIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RepositoryIntegrationSuite))
}

func (s *RepositoryIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	dsn := os.Getenv("LOAN_DESK_TEST_PG_DSN")
	if dsn == "" {
		c, err := postgres.Run(s.ctx,
			"postgres:16",
			postgres.WithDatabase("loandesk"),
			postgres.WithUsername("loandesk"),
			postgres.WithPassword("loandesk"),
			postgres.BasicWaitStrategies(),
		)
		s.Require().NoError(err)
		s.container = c
		dsn, err = c.ConnectionString(s.ctx, "sslmode=disable")
		s.Require().NoError(err)
	}

	migrations, err := filepath.Abs("../../../../migrations")
	s.Require().NoError(err)
	s.Require().NoError(database.RunMigrations(dsn, migrations))

	pool, err := database.NewPgxPool(s.ctx, dsn, true)
	s.Require().NoError(err)
	s.closePool = func() { database.ClosePgxPool(pool) }
	s.repos = pgsql.NewRepositoryProvider(pool)
}

func (s *RepositoryIntegrationSuite) TearDownSuite() {
	if s.closePool != nil {
		s.closePool()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func ptr(v string) *string { return &v }

// seed stores an approved company with one verified employee and one pending loan.
// suffix keeps rows of different tests apart.
func (s *RepositoryIntegrationSuite) seed(suffix string) (domain.Company, domain.Employee, domain.Loan) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	company := domain.Company{
		CompanyID:     "c-" + suffix,
		Name:          "Acme " + suffix,
		Email:         "acme-" + suffix + "@example.com",
		CompanyCode:   ptr("COMP-" + suffix),
		Balance:       decimal.NewFromInt(5000),
		InterestRates: domain.DefaultInterestRates(),
		Role:          domain.RoleManager,
		Status:        domain.CompanyApproved,
		PasswordHash:  "hash",
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	s.Require().NoError(s.repos.CompanyRepo.SaveCompany(s.ctx, company))

	employee := domain.Employee{
		EmployeeID:   "e-" + suffix,
		Name:         "Eve " + suffix,
		Email:        "eve-" + suffix + "@example.com",
		EmployeeCode: ptr("EMP-" + suffix),
		Salary:       decimal.NewFromInt(1000),
		CompanyID:    company.CompanyID,
		Status:       domain.EmployeeVerified,
		PasswordHash: "hash",
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	s.Require().NoError(s.repos.EmployeeRepo.SaveEmployee(s.ctx, employee))

	loan := domain.Loan{
		LoanID:         "l-" + suffix,
		EmployeeID:     employee.EmployeeID,
		CompanyID:      company.CompanyID,
		EmployeeName:   employee.Name,
		CompanyName:    company.Name,
		Amount:         decimal.NewFromInt(1000),
		Purpose:        "laptop",
		InterestRate:   decimal.NewFromInt(7),
		RepaymentTerm:  domain.Term6Months,
		TotalAmount:    decimal.NewFromInt(1035),
		MonthlyPayment: decimal.RequireFromString("172.5"),
		Status:         domain.LoanPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.Require().NoError(s.repos.LoanRepo.SaveLoan(s.ctx, loan))
	return company, employee, loan
}

func (s *RepositoryIntegrationSuite) TestRoundTrip() {
	company, employee, loan := s.seed("RT00001")

	found, err := s.repos.CompanyRepo.FindCompanyByCode(s.ctx, company.Code())
	s.Require().NoError(err)
	s.Equal(company.CompanyID, found.CompanyID)
	s.Equal(domain.CompanyApproved, found.Status)
	s.True(found.InterestRates.Equal(domain.DefaultInterestRates()))

	foundEmployee, err := s.repos.EmployeeRepo.FindEmployeeByEmail(s.ctx, employee.Email)
	s.Require().NoError(err)
	s.True(employee.Salary.Equal(foundEmployee.Salary))

	foundLoan, err := s.repos.LoanRepo.FindLoanByID(s.ctx, loan.LoanID)
	s.Require().NoError(err)
	s.True(loan.MonthlyPayment.Equal(foundLoan.MonthlyPayment))
	s.Equal(domain.Term6Months, foundLoan.RepaymentTerm)

	_, err = s.repos.CompanyRepo.FindCompanyByID(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *RepositoryIntegrationSuite) TestUniqueConstraints() {
	company, _, _ := s.seed("UQ00001")

	now := time.Now().UTC()
	clash := domain.Company{
		CompanyID:   "c-UQ00002",
		Name:        "Clash",
		Email:       "clash@example.com",
		CompanyCode: company.CompanyCode,
		Role:        domain.RoleHR,
		Status:      domain.CompanyPending,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	err := s.repos.CompanyRepo.SaveCompany(s.ctx, clash)
	s.ErrorIs(err, apperrors.ErrCodeTaken)

	clash.CompanyCode = ptr("COMP-UQ00002")
	clash.Email = company.Email
	err = s.repos.CompanyRepo.SaveCompany(s.ctx, clash)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *RepositoryIntegrationSuite) TestConcurrentLoanDecisionsHaveOneWinner() {
	_, _, loan := s.seed("CC00001")

	var wins, conflicts atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		approve := i%2 == 0
		g.Go(func() error {
			var change domain.LoanStatusChange
			var err error
			if approve {
				change, err = loan.Approve("ok", "admin", time.Now().UTC())
			} else {
				change, err = loan.Reject("no budget", "admin", time.Now().UTC())
			}
			if err != nil {
				return err
			}
			err = s.repos.LoanRepo.TransitionLoanStatus(s.ctx, loan.LoanID, change)
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, apperrors.ErrInvalidTransition):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(int32(1), wins.Load())
	s.Equal(int32(7), conflicts.Load())

	final, err := s.repos.LoanRepo.FindLoanByID(s.ctx, loan.LoanID)
	s.Require().NoError(err)
	s.Contains([]domain.LoanStatus{domain.LoanApproved, domain.LoanRejected}, final.Status)
	s.Require().NotNil(final.DecidedBy)
	s.Equal("admin", *final.DecidedBy)
}

func (s *RepositoryIntegrationSuite) TestCommentsAndTokenVersions() {
	company, _, loan := s.seed("CM00001")

	comment := domain.LoanComment{
		CommentID:  "cm-1",
		LoanID:     loan.LoanID,
		AuthorID:   company.CompanyID,
		AuthorKind: domain.PrincipalCompany,
		AuthorName: company.Name,
		Comment:    "please attach a quote",
		CreatedAt:  time.Now().UTC(),
	}
	s.Require().NoError(s.repos.LoanRepo.SaveLoanComment(s.ctx, comment))
	comments, err := s.repos.LoanRepo.ListLoanComments(s.ctx, loan.LoanID)
	s.Require().NoError(err)
	s.Require().Len(comments, 1)
	s.Equal("please attach a quote", comments[0].Comment)

	version, err := s.repos.CredentialRepo.IncrementTokenVersion(s.ctx, domain.PrincipalCompany, company.CompanyID)
	s.Require().NoError(err)
	cred, err := s.repos.CredentialRepo.FindCredentialByEmail(s.ctx, domain.PrincipalCompany, company.Email)
	s.Require().NoError(err)
	assert.Equal(s.T(), version, cred.TokenVersion)
	require.Equal(s.T(), company.CompanyID, cred.PrincipalID)
}

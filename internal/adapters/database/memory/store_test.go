package memory_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/adapters/database/memory"
	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/utils/identifier"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func ptr(s string) *string { return &s }

func seed(t *testing.T, store *memory.Store) (domain.Company, domain.Employee, domain.Loan) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	company := domain.Company{
		CompanyID:   "c1",
		Name:        "Acme",
		Email:       "hr@acme.test",
		CompanyCode: ptr("COMP-AAAAAAA"),
		Role:        domain.RoleManager,
		Status:      domain.CompanyApproved,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	require.NoError(t, store.SaveCompany(ctx, company))
	employee := domain.Employee{
		EmployeeID:   "e1",
		Name:         "Jane",
		Email:        "jane@acme.test",
		EmployeeCode: ptr("EMP-AAAAAAA"),
		Salary:       decimal.NewFromInt(1000),
		CompanyID:    company.CompanyID,
		Status:       domain.EmployeeVerified,
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	require.NoError(t, store.SaveEmployee(ctx, employee))
	loan := domain.Loan{
		LoanID:        "l1",
		EmployeeID:    employee.EmployeeID,
		CompanyID:     company.CompanyID,
		Amount:        decimal.NewFromInt(500),
		Purpose:       "rent",
		InterestRate:  decimal.NewFromInt(1),
		RepaymentTerm: domain.Term3Months,
		Status:        domain.LoanPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, store.SaveLoan(ctx, loan))
	return company, employee, loan
}

func TestConcurrentLoanDecisionsHaveOneWinner(t *testing.T) {
	store := memory.NewStore()
	_, _, loan := seed(t, store)
	ctx := context.Background()

	var wins, conflicts atomic.Int32
	var g errgroup.Group
	for i := 0; i < 20; i++ {
		approve := i%2 == 0
		g.Go(func() error {
			var change domain.LoanStatusChange
			var err error
			if approve {
				change, err = loan.Approve("ok", "manager", time.Now())
			} else {
				change, err = loan.Reject("too high", "manager", time.Now())
			}
			if err != nil {
				return err
			}
			err = store.TransitionLoanStatus(ctx, loan.LoanID, change)
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
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(19), conflicts.Load())

	stored, err := store.FindLoanByID(ctx, loan.LoanID)
	require.NoError(t, err)
	assert.NotEqual(t, domain.LoanPending, stored.Status)
	require.NotNil(t, stored.DecidedBy)
	assert.Equal(t, "manager", *stored.DecidedBy)
}

func TestTransitionOnMissingRowIsNotFound(t *testing.T) {
	store := memory.NewStore()
	change := domain.CompanyStatusChange{From: domain.CompanyPending, To: domain.CompanyApproved, At: time.Now()}
	err := store.TransitionCompanyStatus(context.Background(), "nope", change)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCodeUniquenessDrivesIssuerRetry(t *testing.T) {
	store := memory.NewStore()
	company, employee, _ := seed(t, store)
	ctx := context.Background()

	// The first candidate collides with the seeded code, the second is free.
	candidates := []string{"AAAAAAA", "BBBBBBB"}
	var calls int
	gen := identifier.NewGenerator(
		identifier.WithClock(func() time.Time { return time.UnixMilli(0) }),
		identifier.WithRandomSource(func() (string, error) {
			c := candidates[calls%len(candidates)]
			calls++
			return c, nil
		}),
	)

	code, err := gen.Issue(ctx, domain.CompanyCodePrefix, func(ctx context.Context, code string) error {
		other := domain.Company{
			CompanyID:   "c2",
			Name:        "Globex",
			Email:       "ops@globex.test",
			CompanyCode: &code,
			Role:        domain.RoleHR,
			Status:      domain.CompanyPending,
		}
		return store.SaveCompany(ctx, other)
	})
	require.NoError(t, err)
	assert.NotEqual(t, company.Code(), code)
	assert.Equal(t, 2, calls)

	found, err := store.FindCompanyByCode(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "c2", found.CompanyID)

	found2, err := store.FindEmployeeByCode(ctx, employee.Code())
	require.NoError(t, err)
	assert.Equal(t, employee.EmployeeID, found2.EmployeeID)
}

func TestDuplicateEmailIsRejected(t *testing.T) {
	store := memory.NewStore()
	company, _, _ := seed(t, store)
	dup := company
	dup.CompanyID = "c9"
	dup.CompanyCode = ptr("COMP-ZZZZZZZ")
	err := store.SaveCompany(context.Background(), dup)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestLoanRequiresVerifiedEmployee(t *testing.T) {
	store := memory.NewStore()
	_, employee, loan := seed(t, store)
	ctx := context.Background()

	change, err := domain.Employee{Status: domain.EmployeePending}.Reject("left", "hr", time.Now())
	require.NoError(t, err)
	pending := employee
	pending.EmployeeID = "e2"
	pending.Email = "joe@acme.test"
	pending.EmployeeCode = ptr("EMP-CCCCCCC")
	pending.Status = domain.EmployeePending
	require.NoError(t, store.SaveEmployee(ctx, pending))
	require.NoError(t, store.TransitionEmployeeStatus(ctx, pending.EmployeeID, change))

	second := loan
	second.LoanID = "l2"
	second.EmployeeID = pending.EmployeeID
	err = store.SaveLoan(ctx, second)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestLegacyRowsNeedBackfill(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	legacy := domain.Company{CompanyID: "old", Name: "Old Co", Email: "old@co.test", Role: domain.RoleHR}
	require.NoError(t, store.SaveCompany(ctx, legacy))

	_, err := store.ListCompanies(ctx)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	n, err := store.CountCompaniesWithoutStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	filled, err := store.BackfillCompanyStatus(ctx, domain.CompanyPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), filled)

	again, err := store.BackfillCompanyStatus(ctx, domain.CompanyPending)
	require.NoError(t, err)
	assert.Zero(t, again)

	companies, err := store.ListCompanies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, domain.CompanyPending, companies[0].Status)
}

func TestTokenVersionIncrements(t *testing.T) {
	store := memory.NewStore()
	_, employee, _ := seed(t, store)
	ctx := context.Background()

	v, err := store.IncrementTokenVersion(ctx, domain.PrincipalEmployee, employee.EmployeeID)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	cred, err := store.FindCredentialByEmail(ctx, domain.PrincipalEmployee, employee.Email)
	require.NoError(t, err)
	assert.Equal(t, 1, cred.TokenVersion)
	assert.Equal(t, employee.EmployeeID, cred.PrincipalID)

	_, err = store.FindCredentialByEmail(ctx, domain.PrincipalCompany, employee.Email)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

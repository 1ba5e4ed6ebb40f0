package services_test

import (
	"testing"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLegacyRows(t *testing.T, w *world) (domain.Company, domain.Employee) {
	t.Helper()
	company := domain.Company{
		CompanyID: "legacy-company",
		Name:      "Legacy Co",
		Email:     "legacy@co.test",
		Role:      domain.RoleHR,
		InterestRates: domain.InterestRates{
			domain.Term3Months: decimal.NewFromInt(4),
			domain.Term6Months: decimal.NewFromInt(80),
		},
	}
	require.NoError(t, w.store.SaveCompany(w.ctx, company))
	employee := domain.Employee{
		EmployeeID: "legacy-employee",
		Name:       "Old Timer",
		Email:      "old@co.test",
		Salary:     decimal.NewFromInt(900),
		CompanyID:  company.CompanyID,
	}
	require.NoError(t, w.store.SaveEmployee(w.ctx, employee))
	return company, employee
}

func TestBackfillDryRunChangesNothing(t *testing.T) {
	w := newWorld(t)
	w.approvedCompany("Acme", "a@acme.com", domain.RoleManager)
	seedLegacyRows(t, w)

	report, err := w.svc.Backfill.Run(w.ctx, true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, int64(1), report.CompanyStatusesFilled)
	assert.Equal(t, int64(1), report.EmployeeStatusesFilled)

	// legacy rows cannot be decoded until their status is filled
	var failedIDs []string
	for _, f := range report.Failed {
		failedIDs = append(failedIDs, f.ID)
	}
	assert.ElementsMatch(t, []string{"companies", "employees"}, failedIDs)

	n, err := w.store.CountCompaniesWithoutStatus(w.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBackfillFillsLegacyRowsOnce(t *testing.T) {
	w := newWorld(t)
	acme := w.approvedCompany("Acme", "a@acme.com", domain.RoleManager)
	company, employee := seedLegacyRows(t, w)

	report, err := w.svc.Backfill.Run(w.ctx, false)
	require.NoError(t, err)
	assert.Empty(t, report.Failed)
	assert.Equal(t, int64(1), report.CompanyStatusesFilled)
	assert.Equal(t, int64(1), report.EmployeeStatusesFilled)
	assert.Equal(t, []string{company.CompanyID}, report.CompanyCodesFilled)
	assert.Equal(t, []string{employee.EmployeeID}, report.EmployeeCodesFilled)
	assert.Equal(t, []string{company.CompanyID}, report.InterestRatesNormalized)

	stored, err := w.store.FindCompanyByID(w.ctx, company.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, domain.CompanyPending, stored.Status)
	assert.Regexp(t, `^COMP-[A-Z0-9]{7}$`, stored.Code())
	assert.True(t, decimal.NewFromInt(4).Equal(stored.InterestRates.RateFor(domain.Term3Months)))
	assert.True(t, domain.DefaultInterestRate.Equal(stored.InterestRates.RateFor(domain.Term6Months)))
	assert.Len(t, stored.InterestRates, len(domain.RepaymentTerms))

	storedEmployee, err := w.store.FindEmployeeByID(w.ctx, employee.EmployeeID)
	require.NoError(t, err)
	assert.Equal(t, domain.EmployeePending, storedEmployee.Status)
	assert.Regexp(t, `^EMP-[A-Z0-9]{7}$`, storedEmployee.Code())

	untouched, err := w.store.FindCompanyByID(w.ctx, acme.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, acme.Code(), untouched.Code())
	assert.Equal(t, domain.CompanyApproved, untouched.Status)

	again, err := w.svc.Backfill.Run(w.ctx, false)
	require.NoError(t, err)
	assert.Zero(t, again.CompanyStatusesFilled)
	assert.Zero(t, again.EmployeeStatusesFilled)
	assert.Empty(t, again.CompanyCodesFilled)
	assert.Empty(t, again.EmployeeCodesFilled)
	assert.Empty(t, again.InterestRatesNormalized)
	assert.Empty(t, again.Failed)
}

package aggregation_test

import (
	"testing"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/utils/aggregation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func fixtures() ([]domain.Company, []domain.Employee, []domain.Loan) {
	companies := []domain.Company{
		{CompanyID: "c-zen", Name: "Zenith", Email: "hr@zenith.io", CompanyCode: strPtr("COMP-ZEN0001"), Status: domain.CompanyApproved},
		{CompanyID: "c-acme", Name: "acme", Email: "a@acme.com", CompanyCode: strPtr("COMP-ACM0001"), Status: domain.CompanyApproved},
		{CompanyID: "c-bolt", Name: "Bolt", Email: "ops@bolt.dev", Status: domain.CompanyPending},
	}
	employees := []domain.Employee{
		{EmployeeID: "e-3", Name: "Yara", Email: "yara@acme.com", EmployeeCode: strPtr("EMP-YAR0001"), CompanyID: "c-acme", Status: domain.EmployeeVerified},
		{EmployeeID: "e-1", Name: "Ben", Email: "ben@acme.com", EmployeeCode: strPtr("EMP-BEN0001"), CompanyID: "c-acme", Status: domain.EmployeePending},
		{EmployeeID: "e-2", Name: "Zoe", Email: "zoe@zenith.io", CompanyID: "c-zen", Status: domain.EmployeeVerified},
	}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	loans := []domain.Loan{
		{LoanID: "l-1", EmployeeID: "e-3", CompanyID: "c-acme", EmployeeName: "Yara", CompanyName: "acme", Purpose: "Car repair", Amount: decimal.NewFromInt(300), Status: domain.LoanApproved, CreatedAt: base},
		{LoanID: "l-2", EmployeeID: "e-3", CompanyID: "c-acme", EmployeeName: "Yara", CompanyName: "acme", Purpose: "Rent", Amount: decimal.NewFromInt(200), Status: domain.LoanPending, CreatedAt: base.Add(time.Hour)},
		{LoanID: "l-3", EmployeeID: "e-2", CompanyID: "c-zen", EmployeeName: "Zoe", CompanyName: "Zenith", Purpose: "Medical", Amount: decimal.NewFromInt(50), Status: domain.LoanRejected, CreatedAt: base},
	}
	return companies, employees, loans
}

func TestCompanySummaries(t *testing.T) {
	companies, employees, loans := fixtures()

	summaries := aggregation.CompanySummaries(companies, employees, loans)
	require.Len(t, summaries, 3)

	assert.Equal(t, "c-acme", summaries[0].Company.CompanyID, "sorted by name ignoring case")
	assert.Equal(t, 2, summaries[0].EmployeeCount)
	assert.Equal(t, domain.StatusTally{Pending: 1, Approved: 1, Total: 2}, summaries[0].Loans)
	assert.Equal(t, "c-bolt", summaries[1].Company.CompanyID)
	assert.Equal(t, domain.StatusTally{}, summaries[1].Loans)
	assert.Equal(t, domain.StatusTally{Rejected: 1, Total: 1}, summaries[2].Loans)
}

func TestEmployeeSummaries(t *testing.T) {
	_, employees, loans := fixtures()

	summaries := aggregation.EmployeeSummaries(employees, loans)
	require.Len(t, summaries, 3)
	assert.Equal(t, "Ben", summaries[0].Employee.Name)
	assert.True(t, summaries[0].TotalRequested.IsZero())
	assert.Equal(t, "Yara", summaries[1].Employee.Name)
	assert.True(t, summaries[1].TotalRequested.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 2, summaries[1].Loans.Total)
}

func TestFilters_CaseInsensitive(t *testing.T) {
	companies, employees, loans := fixtures()

	assert.Len(t, aggregation.FilterCompanies(companies, "ACME", ""), 1)
	assert.Len(t, aggregation.FilterCompanies(companies, "comp-zen", "all"), 1)
	assert.Len(t, aggregation.FilterCompanies(companies, "", string(domain.CompanyPending)), 1)

	assert.Len(t, aggregation.FilterEmployees(employees, "@ACME.com", ""), 2)
	assert.Len(t, aggregation.FilterEmployees(employees, "@acme.com", string(domain.EmployeeVerified)), 1)
	assert.Len(t, aggregation.FilterEmployees(employees, "emp-ben", ""), 1)

	assert.Len(t, aggregation.FilterLoans(loans, nil, "rent", ""), 1)
	assert.Len(t, aggregation.FilterLoans(loans, nil, "zenith", ""), 1)
	assert.Len(t, aggregation.FilterLoans(loans, employees, "yara@", ""), 2)
	assert.Len(t, aggregation.FilterLoans(loans, employees, "yara@", string(domain.LoanPending)), 1)
	assert.Empty(t, aggregation.FilterLoans(loans, nil, "yara@", ""))
}

func TestFilters_QuerySpansAdjacentFields(t *testing.T) {
	companies, employees, loans := fixtures()

	matched := aggregation.FilterCompanies(companies, "acme a@acme", "")
	require.Len(t, matched, 1)
	assert.Equal(t, "c-acme", matched[0].CompanyID)
	assert.Len(t, aggregation.FilterCompanies(companies, "acme.com comp-acm", ""), 1)
	assert.Empty(t, aggregation.FilterCompanies(companies, "comp-acm0001 acme", ""), "fields keep their order")

	assert.Len(t, aggregation.FilterEmployees(employees, "yara yara@", ""), 1)
	assert.Len(t, aggregation.FilterLoans(loans, nil, "zenith medical", ""), 1)
}

func TestDrillDown_AutoSelectsFirstByName(t *testing.T) {
	companies, employees, loans := fixtures()

	view := aggregation.DrillDown(companies, employees, loans, "", "")
	assert.Equal(t, "c-acme", view.SelectedCompanyID)
	assert.Equal(t, "e-1", view.SelectedEmployeeID, "Ben sorts before Yara")
	assert.Empty(t, view.Loans)

	view = aggregation.DrillDown(companies, employees, loans, "c-acme", "e-3")
	assert.Equal(t, "e-3", view.SelectedEmployeeID)
	require.Len(t, view.Loans, 2)
	assert.Equal(t, "l-2", view.Loans[0].LoanID, "newest first")

	// selected company filtered away: fall back to the first remaining company
	filtered := aggregation.FilterCompanies(companies, "zen", "")
	view = aggregation.DrillDown(filtered, employees, loans, "c-acme", "e-3")
	assert.Equal(t, "c-zen", view.SelectedCompanyID)
	assert.Equal(t, "e-2", view.SelectedEmployeeID)
	require.Len(t, view.Loans, 1)

	view = aggregation.DrillDown(nil, employees, loans, "c-acme", "e-3")
	assert.Empty(t, view.SelectedCompanyID)
	assert.NotNil(t, view.Employees)
}

func TestDrillDown_Deterministic(t *testing.T) {
	companies, employees, loans := fixtures()
	first := aggregation.DrillDown(companies, employees, loans, "c-zen", "")
	second := aggregation.DrillDown(companies, employees, loans, "c-zen", "")
	assert.Equal(t, first, second)
}

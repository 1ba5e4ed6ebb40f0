package domain

import "github.com/shopspring/decimal"

// StatusTally counts loans per status.
type StatusTally struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

// Add counts one loan in the tally.
func (t *StatusTally) Add(status LoanStatus) {
	switch status {
	case LoanPending:
		t.Pending++
	case LoanApproved:
		t.Approved++
	case LoanRejected:
		t.Rejected++
	}
	t.Total++
}

type CompanySummary struct {
	Company       Company     `json:"company"`
	EmployeeCount int         `json:"employeeCount"`
	Loans         StatusTally `json:"loans"`
}

type EmployeeSummary struct {
	Employee       Employee        `json:"employee"`
	Loans          StatusTally     `json:"loans"`
	TotalRequested decimal.Decimal `json:"totalRequested"`
}

// DrillDown is the company -> employee -> loans selection shown on the admin dashboard.
// Selected ids are empty when there is nothing to select.
type DrillDown struct {
	SelectedCompanyID  string     `json:"selectedCompanyID"`
	SelectedEmployeeID string     `json:"selectedEmployeeID"`
	Employees          []Employee `json:"employees"`
	Loans              []Loan     `json:"loans"`
}

// DashboardFilter carries the free-text and status filters of a dashboard view.
type DashboardFilter struct {
	Query              string
	CompanyStatus      string
	EmployeeStatus     string
	LoanStatus         string
	SelectedCompanyID  string
	SelectedEmployeeID string
}

type AdminDashboard struct {
	Companies []CompanySummary  `json:"companies"`
	Employees []EmployeeSummary `json:"employees"`
	Loans     []Loan            `json:"loans"`
	DrillDown DrillDown         `json:"drillDown"`
	LoanTally StatusTally       `json:"loanTally"`
}

type CompanyDashboard struct {
	Company     Company           `json:"company"`
	Permissions Permissions       `json:"permissions"`
	Employees   []EmployeeSummary `json:"employees"`
	Loans       []Loan            `json:"loans"`
	LoanTally   StatusTally       `json:"loanTally"`
}

type EmployeeDashboard struct {
	Employee      Employee        `json:"employee"`
	CompanyName   string          `json:"companyName"`
	InterestRates InterestRates   `json:"interestRates"`
	Summary       EmployeeSummary `json:"summary"`
	Loans         []Loan          `json:"loans"`
}

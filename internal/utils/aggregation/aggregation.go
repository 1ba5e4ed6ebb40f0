// Package aggregation derives dashboard views from already-loaded collections.
// Every function is pure: the same inputs always give the same output and no
// store is touched.
package aggregation

import (
	"sort"
	"strings"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatusAll disables a status filter, as does the empty string.
const StatusAll = "all"

func statusMatches(filter, status string) bool {
	return filter == "" || filter == StatusAll || filter == status
}

// nameLess orders by name ignoring case, then by raw name and id so ties are stable.
func nameLess(aName, aID, bName, bID string) bool {
	al, bl := strings.ToLower(aName), strings.ToLower(bName)
	if al != bl {
		return al < bl
	}
	if aName != bName {
		return aName < bName
	}
	return aID < bID
}

// SortCompanies returns a copy ordered by name.
func SortCompanies(companies []domain.Company) []domain.Company {
	out := make([]domain.Company, len(companies))
	copy(out, companies)
	sort.SliceStable(out, func(i, j int) bool {
		return nameLess(out[i].Name, out[i].CompanyID, out[j].Name, out[j].CompanyID)
	})
	return out
}

// SortEmployees returns a copy ordered by name.
func SortEmployees(employees []domain.Employee) []domain.Employee {
	out := make([]domain.Employee, len(employees))
	copy(out, employees)
	sort.SliceStable(out, func(i, j int) bool {
		return nameLess(out[i].Name, out[i].EmployeeID, out[j].Name, out[j].EmployeeID)
	})
	return out
}

// SortLoans returns a copy with the newest request first.
func SortLoans(loans []domain.Loan) []domain.Loan {
	out := make([]domain.Loan, len(loans))
	copy(out, loans)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].LoanID < out[j].LoanID
	})
	return out
}

// Tally counts loans per status.
func Tally(loans []domain.Loan) domain.StatusTally {
	var t domain.StatusTally
	for _, l := range loans {
		t.Add(l.Status)
	}
	return t
}

// CompanySummaries attaches employee counts and loan tallies to each company.
func CompanySummaries(companies []domain.Company, employees []domain.Employee, loans []domain.Loan) []domain.CompanySummary {
	employeeCounts := make(map[string]int, len(companies))
	for _, e := range employees {
		employeeCounts[e.CompanyID]++
	}
	tallies := make(map[string]*domain.StatusTally, len(companies))
	for _, l := range loans {
		t, ok := tallies[l.CompanyID]
		if !ok {
			t = &domain.StatusTally{}
			tallies[l.CompanyID] = t
		}
		t.Add(l.Status)
	}

	sorted := SortCompanies(companies)
	summaries := make([]domain.CompanySummary, 0, len(sorted))
	for _, c := range sorted {
		summary := domain.CompanySummary{Company: c, EmployeeCount: employeeCounts[c.CompanyID]}
		if t, ok := tallies[c.CompanyID]; ok {
			summary.Loans = *t
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// EmployeeSummaries attaches loan tallies and the total requested principal to each employee.
func EmployeeSummaries(employees []domain.Employee, loans []domain.Loan) []domain.EmployeeSummary {
	type acc struct {
		tally     domain.StatusTally
		requested decimal.Decimal
	}
	byEmployee := make(map[string]*acc, len(employees))
	for _, l := range loans {
		a, ok := byEmployee[l.EmployeeID]
		if !ok {
			a = &acc{requested: decimal.Zero}
			byEmployee[l.EmployeeID] = a
		}
		a.tally.Add(l.Status)
		a.requested = a.requested.Add(l.Amount)
	}

	sorted := SortEmployees(employees)
	summaries := make([]domain.EmployeeSummary, 0, len(sorted))
	for _, e := range sorted {
		summary := domain.EmployeeSummary{Employee: e, TotalRequested: decimal.Zero}
		if a, ok := byEmployee[e.EmployeeID]; ok {
			summary.Loans = a.tally
			summary.TotalRequested = a.requested
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// FilterCompanies matches the query against name, email and company code.
func FilterCompanies(companies []domain.Company, query, status string) []domain.Company {
	query = strings.TrimSpace(query)
	out := make([]domain.Company, 0, len(companies))
	for _, c := range companies {
		if statusMatches(status, string(c.Status)) && domain.SubstringMatch(query, c.Name, c.Email, c.Code()) {
			out = append(out, c)
		}
	}
	return out
}

// FilterEmployees matches the query against name, email and employee code.
func FilterEmployees(employees []domain.Employee, query, status string) []domain.Employee {
	query = strings.TrimSpace(query)
	out := make([]domain.Employee, 0, len(employees))
	for _, e := range employees {
		if statusMatches(status, string(e.Status)) && domain.SubstringMatch(query, e.Name, e.Email, e.Code()) {
			out = append(out, e)
		}
	}
	return out
}

// FilterLoans matches the query against the borrower name, company name and
// purpose, plus the borrower email when the employee is among employees.
func FilterLoans(loans []domain.Loan, employees []domain.Employee, query, status string) []domain.Loan {
	query = strings.TrimSpace(query)
	emails := make(map[string]string, len(employees))
	for _, e := range employees {
		emails[e.EmployeeID] = e.Email
	}
	out := make([]domain.Loan, 0, len(loans))
	for _, l := range loans {
		if statusMatches(status, string(l.Status)) && domain.SubstringMatch(query, l.EmployeeName, l.CompanyName, l.Purpose, emails[l.EmployeeID]) {
			out = append(out, l)
		}
	}
	return out
}

// DrillDown resolves the company -> employee -> loans selection. A selection
// that is no longer among the candidates falls back to the first item by name.
func DrillDown(companies []domain.Company, employees []domain.Employee, loans []domain.Loan, selectedCompanyID, selectedEmployeeID string) domain.DrillDown {
	view := domain.DrillDown{Employees: []domain.Employee{}, Loans: []domain.Loan{}}

	sortedCompanies := SortCompanies(companies)
	view.SelectedCompanyID = pick(selectedCompanyID, len(sortedCompanies), func(i int) string {
		return sortedCompanies[i].CompanyID
	})
	if view.SelectedCompanyID == "" {
		return view
	}

	var companyEmployees []domain.Employee
	for _, e := range employees {
		if e.CompanyID == view.SelectedCompanyID {
			companyEmployees = append(companyEmployees, e)
		}
	}
	view.Employees = SortEmployees(companyEmployees)
	view.SelectedEmployeeID = pick(selectedEmployeeID, len(view.Employees), func(i int) string {
		return view.Employees[i].EmployeeID
	})
	if view.SelectedEmployeeID == "" {
		return view
	}

	var employeeLoans []domain.Loan
	for _, l := range loans {
		if l.EmployeeID == view.SelectedEmployeeID {
			employeeLoans = append(employeeLoans, l)
		}
	}
	view.Loans = SortLoans(employeeLoans)
	return view
}

// pick keeps selected when it is one of the n ids, else returns the first id.
func pick(selected string, n int, id func(int) string) string {
	if n == 0 {
		return ""
	}
	for i := 0; i < n; i++ {
		if id(i) == selected {
			return selected
		}
	}
	return id(0)
}

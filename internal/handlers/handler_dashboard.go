package handlers

import (
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// dashboardFilter reads the dashboard query parameters, e.g.
// ?q=acme&loanStatus=pending&companyId=...&employeeId=...
func dashboardFilter(c *gin.Context) domain.DashboardFilter {
	return domain.DashboardFilter{
		Query:              c.Query("q"),
		CompanyStatus:      c.Query("companyStatus"),
		EmployeeStatus:     c.Query("employeeStatus"),
		LoanStatus:         c.Query("loanStatus"),
		SelectedCompanyID:  c.Query("companyId"),
		SelectedEmployeeID: c.Query("employeeId"),
	}
}

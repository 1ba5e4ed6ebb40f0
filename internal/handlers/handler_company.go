package handlers

import (
	"net/http"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// companyHandler serves the routes of a signed-in company. Every route acts on
// the principal's own company.
type companyHandler struct {
	companies portssvc.CompanySvcFacade
	employees portssvc.EmployeeSvcFacade
	loans     portssvc.LoanSvcFacade
	dashboard portssvc.DashboardSvcFacade
}

func registerCompanyRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &companyHandler{
		companies: services.Company,
		employees: services.Employee,
		loans:     services.Loan,
		dashboard: services.Dashboard,
	}

	viewFinancials := middleware.RequirePermission("managing interest rates", func(p domain.Permissions) bool { return p.CanViewFinancials })
	viewEmployees := middleware.RequirePermission("viewing employees", func(p domain.Permissions) bool { return p.CanViewAllEmployees })
	editEmployees := middleware.RequirePermission("editing employees", func(p domain.Permissions) bool { return p.CanEditEmployees })
	approveLoans := middleware.RequirePermission("approving loans", func(p domain.Permissions) bool { return p.CanApproveLoan })
	rejectLoans := middleware.RequirePermission("rejecting loans", func(p domain.Permissions) bool { return p.CanRejectLoan })

	rg.GET("/me", h.me)
	rg.PUT("/interest-rates", viewFinancials, h.updateInterestRates)
	rg.POST("/codes/regenerate", h.regenerateCode)
	rg.GET("/dashboard", h.getDashboard)

	employees := rg.Group("/employees")
	{
		employees.GET("", viewEmployees, h.listEmployees)
		employees.POST("", editEmployees, h.createEmployee)
		employees.POST("/:employee_id/verify", editEmployees, h.verifyEmployee)
		employees.POST("/:employee_id/reject", editEmployees, h.rejectEmployee)
	}

	loans := rg.Group("/loans")
	{
		loans.GET("", h.listLoans)
		loans.POST("/:loan_id/approve", approveLoans, h.approveLoan)
		loans.POST("/:loan_id/reject", rejectLoans, h.rejectLoan)
	}
}

// me godoc
// @Summary Current company
// @Tags company
// @Produce json
// @Success 200 {object} dto.CompanyResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /company/me [get]
func (h *companyHandler) me(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	company, err := h.companies.GetCompany(c.Request.Context(), principal, principal.CompanyID)
	if err != nil {
		respondError(c, err, "Failed to load company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// updateInterestRates godoc
// @Summary Replace the company's interest rate table
// @Description Rates apply to new loan requests only; existing loans keep their frozen rate.
// @Tags company
// @Accept json
// @Produce json
// @Param rates body dto.UpdateInterestRatesRequest true "Rates per term in months"
// @Success 200 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /company/interest-rates [put]
func (h *companyHandler) updateInterestRates(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.UpdateInterestRatesRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.companies.UpdateInterestRates(c.Request.Context(), principal, principal.CompanyID, req.InterestRates)
	if err != nil {
		respondError(c, err, "Failed to update interest rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

func (h *companyHandler) regenerateCode(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	company, err := h.companies.RegenerateCompanyCode(c.Request.Context(), principal, principal.CompanyID)
	if err != nil {
		respondError(c, err, "Failed to regenerate company code")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

func (h *companyHandler) getDashboard(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	view, err := h.dashboard.CompanyDashboard(c.Request.Context(), principal, dashboardFilter(c))
	if err != nil {
		respondError(c, err, "Failed to build company dashboard")
		return
	}
	c.JSON(http.StatusOK, view)
}

// listEmployees godoc
// @Summary List the company's employees
// @Tags company
// @Produce json
// @Success 200 {object} dto.ListEmployeesResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /company/employees [get]
func (h *companyHandler) listEmployees(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	employees, err := h.employees.ListCompanyEmployees(c.Request.Context(), principal, principal.CompanyID)
	if err != nil {
		respondError(c, err, "Failed to list employees")
		return
	}
	c.JSON(http.StatusOK, dto.ToListEmployeesResponse(employees))
}

func (h *companyHandler) createEmployee(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.CreateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	employee, err := h.employees.CreateEmployee(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err, "Failed to create employee")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEmployeeResponse(employee))
}

// verifyEmployee godoc
// @Summary Verify a pending employee
// @Tags company
// @Produce json
// @Param employee_id path string true "Employee ID"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Employee already decided"
// @Security BearerAuth
// @Router /company/employees/{employee_id}/verify [post]
func (h *companyHandler) verifyEmployee(c *gin.Context) {
	verifyEmployee(c, h.employees)
}

func (h *companyHandler) rejectEmployee(c *gin.Context) {
	rejectEmployee(c, h.employees)
}

func (h *companyHandler) listLoans(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	loans, err := h.loans.ListCompanyLoans(c.Request.Context(), principal, principal.CompanyID)
	if err != nil {
		respondError(c, err, "Failed to list loans")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLoansResponse(loans))
}

// approveLoan godoc
// @Summary Approve a pending loan
// @Tags company
// @Accept json
// @Produce json
// @Param loan_id path string true "Loan ID"
// @Param body body dto.ApproveLoanRequest false "Optional notes"
// @Success 200 {object} dto.LoanResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Loan already decided"
// @Security BearerAuth
// @Router /company/loans/{loan_id}/approve [post]
func (h *companyHandler) approveLoan(c *gin.Context) {
	approveLoan(c, h.loans)
}

func (h *companyHandler) rejectLoan(c *gin.Context) {
	rejectLoan(c, h.loans)
}

// verifyEmployee and the helpers below are shared by the company and admin routes;
// the services decide whether the principal may act on the target.
func verifyEmployee(c *gin.Context, employees portssvc.EmployeeSvcFacade) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	employee, err := employees.VerifyEmployee(c.Request.Context(), principal, c.Param("employee_id"))
	if err != nil {
		respondError(c, err, "Failed to verify employee")
		return
	}
	c.JSON(http.StatusOK, dto.ToEmployeeResponse(employee))
}

func rejectEmployee(c *gin.Context, employees portssvc.EmployeeSvcFacade) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.RejectRequest
	if !bindJSON(c, &req) {
		return
	}
	employee, err := employees.RejectEmployee(c.Request.Context(), principal, c.Param("employee_id"), req.Reason)
	if err != nil {
		respondError(c, err, "Failed to reject employee")
		return
	}
	c.JSON(http.StatusOK, dto.ToEmployeeResponse(employee))
}

func approveLoan(c *gin.Context, loans portssvc.LoanSvcFacade) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.ApproveLoanRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	loan, err := loans.ApproveLoan(c.Request.Context(), principal, c.Param("loan_id"), req.Notes)
	if err != nil {
		respondError(c, err, "Failed to approve loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

func rejectLoan(c *gin.Context, loans portssvc.LoanSvcFacade) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.RejectRequest
	if !bindJSON(c, &req) {
		return
	}
	loan, err := loans.RejectLoan(c.Request.Context(), principal, c.Param("loan_id"), req.Reason)
	if err != nil {
		respondError(c, err, "Failed to reject loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

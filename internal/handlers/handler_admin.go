package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler serves the platform admin console.
type adminHandler struct {
	companies portssvc.CompanySvcFacade
	employees portssvc.EmployeeSvcFacade
	loans     portssvc.LoanSvcFacade
	admins    portssvc.AdminSvcFacade
	dashboard portssvc.DashboardSvcFacade
}

func registerAdminRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &adminHandler{
		companies: services.Company,
		employees: services.Employee,
		loans:     services.Loan,
		admins:    services.Admin,
		dashboard: services.Dashboard,
	}

	rg.GET("/dashboard", h.getDashboard)
	rg.PUT("/interest-rates", h.bulkSetInterestRates)
	rg.POST("/admins", h.createAdmin)

	companies := rg.Group("/companies")
	{
		companies.GET("", h.listCompanies)
		companies.POST("/:company_id/approve", h.approveCompany)
		companies.POST("/:company_id/reject", h.rejectCompany)
		companies.PUT("/:company_id/balance", h.updateBalance)
		companies.POST("/:company_id/code", h.regenerateCompanyCode)
	}

	employees := rg.Group("/employees")
	{
		employees.GET("", h.listEmployees)
		employees.POST("/:employee_id/code", h.regenerateEmployeeCode)
		employees.POST("/:employee_id/verify", h.verifyEmployee)
		employees.POST("/:employee_id/reject", h.rejectEmployee)
	}

	loans := rg.Group("/loans")
	{
		loans.GET("", h.listLoans)
		loans.POST("/:loan_id/approve", h.approveLoan)
		loans.POST("/:loan_id/reject", h.rejectLoan)
	}
}

func (h *adminHandler) getDashboard(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	view, err := h.dashboard.AdminDashboard(c.Request.Context(), principal, dashboardFilter(c))
	if err != nil {
		respondError(c, err, "Failed to build admin dashboard")
		return
	}
	c.JSON(http.StatusOK, view)
}

// bulkSetInterestRates godoc
// @Summary Apply one interest rate table to every company
// @Description Each company is updated independently. Failures are reported per company and successes are kept.
// @Tags admin
// @Accept json
// @Produce json
// @Param rates body dto.UpdateInterestRatesRequest true "Rates per term in months"
// @Success 200 {object} dto.BulkResultResponse "All companies updated"
// @Success 207 {object} dto.BulkResultResponse "Some companies failed"
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/interest-rates [put]
func (h *adminHandler) bulkSetInterestRates(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.UpdateInterestRatesRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.companies.BulkSetInterestRates(c.Request.Context(), principal, req.InterestRates)
	if err != nil {
		respondError(c, err, "Failed to update interest rates")
		return
	}
	status := http.StatusOK
	if result.HasFailures() {
		status = http.StatusMultiStatus
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Bulk interest rate update had failures",
			slog.Int("failed", len(result.Failed)),
			slog.Int("updated", len(result.Updated)))
	}
	c.JSON(status, dto.ToBulkResultResponse(result))
}

func (h *adminHandler) createAdmin(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.CreateAdminRequest
	if !bindJSON(c, &req) {
		return
	}
	admin, err := h.admins.CreateAdmin(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err, "Failed to create admin")
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// listCompanies godoc
// @Summary List all companies
// @Tags admin
// @Produce json
// @Success 200 {object} dto.ListCompaniesResponse
// @Security BearerAuth
// @Router /admin/companies [get]
func (h *adminHandler) listCompanies(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	companies, err := h.companies.ListCompanies(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err, "Failed to list companies")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCompaniesResponse(companies))
}

// approveCompany godoc
// @Summary Approve a pending company
// @Tags admin
// @Produce json
// @Param company_id path string true "Company ID"
// @Success 200 {object} dto.CompanyResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Company already decided"
// @Security BearerAuth
// @Router /admin/companies/{company_id}/approve [post]
func (h *adminHandler) approveCompany(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	company, err := h.companies.ApproveCompany(c.Request.Context(), principal, c.Param("company_id"))
	if err != nil {
		respondError(c, err, "Failed to approve company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

func (h *adminHandler) rejectCompany(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.RejectRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.companies.RejectCompany(c.Request.Context(), principal, c.Param("company_id"), req.Reason)
	if err != nil {
		respondError(c, err, "Failed to reject company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

func (h *adminHandler) updateBalance(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.UpdateBalanceRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.companies.UpdateBalance(c.Request.Context(), principal, c.Param("company_id"), req.Balance)
	if err != nil {
		respondError(c, err, "Failed to update balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

func (h *adminHandler) regenerateCompanyCode(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	company, err := h.companies.RegenerateCompanyCode(c.Request.Context(), principal, c.Param("company_id"))
	if err != nil {
		respondError(c, err, "Failed to regenerate company code")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

func (h *adminHandler) listEmployees(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	employees, err := h.employees.ListEmployees(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err, "Failed to list employees")
		return
	}
	c.JSON(http.StatusOK, dto.ToListEmployeesResponse(employees))
}

func (h *adminHandler) regenerateEmployeeCode(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	employee, err := h.employees.RegenerateEmployeeCode(c.Request.Context(), principal, c.Param("employee_id"))
	if err != nil {
		respondError(c, err, "Failed to regenerate employee code")
		return
	}
	c.JSON(http.StatusOK, dto.ToEmployeeResponse(employee))
}

func (h *adminHandler) verifyEmployee(c *gin.Context) {
	verifyEmployee(c, h.employees)
}

func (h *adminHandler) rejectEmployee(c *gin.Context) {
	rejectEmployee(c, h.employees)
}

func (h *adminHandler) listLoans(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	loans, err := h.loans.ListLoans(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err, "Failed to list loans")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLoansResponse(loans))
}

func (h *adminHandler) approveLoan(c *gin.Context) {
	approveLoan(c, h.loans)
}

func (h *adminHandler) rejectLoan(c *gin.Context) {
	rejectLoan(c, h.loans)
}

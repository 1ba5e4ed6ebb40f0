package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// employeeHandler serves the routes of a signed-in employee.
type employeeHandler struct {
	employees portssvc.EmployeeSvcFacade
	loans     portssvc.LoanSvcFacade
	dashboard portssvc.DashboardSvcFacade
}

func registerEmployeeRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &employeeHandler{employees: services.Employee, loans: services.Loan, dashboard: services.Dashboard}

	rg.GET("/me", h.me)
	rg.GET("/dashboard", h.getDashboard)
	rg.POST("/loans", h.requestLoan)
	rg.GET("/loans", h.listLoans)
}

func (h *employeeHandler) me(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	employee, err := h.employees.GetEmployee(c.Request.Context(), principal, principal.ID)
	if err != nil {
		respondError(c, err, "Failed to load employee")
		return
	}
	c.JSON(http.StatusOK, dto.ToEmployeeResponse(employee))
}

func (h *employeeHandler) getDashboard(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	view, err := h.dashboard.EmployeeDashboard(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err, "Failed to build employee dashboard")
		return
	}
	c.JSON(http.StatusOK, view)
}

// requestLoan godoc
// @Summary Request a loan
// @Description The amount may not exceed the employee's salary. The company's current rate for the term is frozen on the loan.
// @Tags employee
// @Accept json
// @Produce json
// @Param loan body dto.CreateLoanRequest true "Loan request"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse "Invalid amount, purpose or term"
// @Failure 403 {object} ErrorResponse "Employee or company not in good standing"
// @Security BearerAuth
// @Router /employee/loans [post]
func (h *employeeHandler) requestLoan(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.CreateLoanRequest
	if !bindJSON(c, &req) {
		return
	}
	loan, err := h.loans.RequestLoan(c.Request.Context(), principal, req)
	if err != nil {
		respondError(c, err, "Failed to request loan")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Loan requested", slog.String("loan_id", loan.LoanID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// listLoans godoc
// @Summary List my loans
// @Tags employee
// @Produce json
// @Success 200 {object} dto.ListLoansResponse
// @Security BearerAuth
// @Router /employee/loans [get]
func (h *employeeHandler) listLoans(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	loans, err := h.loans.ListEmployeeLoans(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err, "Failed to list loans")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLoansResponse(loans))
}

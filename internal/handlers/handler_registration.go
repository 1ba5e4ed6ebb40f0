package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// registrationHandler serves the unauthenticated sign-up flows.
type registrationHandler struct {
	companies portssvc.CompanySvcFacade
	employees portssvc.EmployeeSvcFacade
}

func registerPublicRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &registrationHandler{companies: services.Company, employees: services.Employee}

	rg.POST("/companies/register", h.registerCompany)
	rg.GET("/companies/approved", h.listApprovedCompanies)
	rg.POST("/employees/register", h.registerEmployee)
}

// registerCompany godoc
// @Summary Register a company
// @Description Creates a pending company. It cannot sign in until a platform admin approves it.
// @Tags registration
// @Accept json
// @Produce json
// @Param company body dto.RegisterCompanyRequest true "Company details"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} ErrorResponse "Invalid input or email already registered"
// @Failure 503 {object} ErrorResponse "Company code could not be generated"
// @Router /companies/register [post]
func (h *registrationHandler) registerCompany(c *gin.Context) {
	var req dto.RegisterCompanyRequest
	if !bindJSON(c, &req) {
		return
	}
	company, err := h.companies.RegisterCompany(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register company")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Company registered", slog.String("company_id", company.CompanyID))
	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

// listApprovedCompanies godoc
// @Summary List companies open for employee registration
// @Tags registration
// @Produce json
// @Success 200 {array} dto.CompanyOption
// @Router /companies/approved [get]
func (h *registrationHandler) listApprovedCompanies(c *gin.Context) {
	companies, err := h.companies.ListApprovedCompanies(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list companies")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyOptions(companies))
}

// registerEmployee godoc
// @Summary Register an employee
// @Description Creates a pending employee under an approved company.
// @Tags registration
// @Accept json
// @Produce json
// @Param employee body dto.RegisterEmployeeRequest true "Employee details"
// @Success 201 {object} dto.EmployeeResponse
// @Failure 400 {object} ErrorResponse
// @Router /employees/register [post]
func (h *registrationHandler) registerEmployee(c *gin.Context) {
	var req dto.RegisterEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	employee, err := h.employees.RegisterEmployee(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to register employee")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Employee registered",
		slog.String("employee_id", employee.EmployeeID),
		slog.String("company_id", employee.CompanyID))
	c.JSON(http.StatusCreated, dto.ToEmployeeResponse(employee))
}

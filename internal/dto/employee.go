package dto

import (
	"time"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Employee DTOs ---

// RegisterEmployeeRequest defines data for employee self-registration.
type RegisterEmployeeRequest struct {
	Name      string          `json:"name" binding:"required,min=2,max=120"`
	Email     string          `json:"email" binding:"required,email"`
	Password  string          `json:"password" binding:"required,min=8,max=72"`
	Salary    decimal.Decimal `json:"salary"`
	CompanyID string          `json:"companyID" binding:"required"`
}

// CreateEmployeeRequest defines data for company-initiated employee creation.
type CreateEmployeeRequest struct {
	Name     string          `json:"name" binding:"required,min=2,max=120"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8,max=72"`
	Salary   decimal.Decimal `json:"salary"`
}

// EmployeeResponse defines data returned for an employee.
type EmployeeResponse struct {
	EmployeeID      string                `json:"employeeID"`
	Name            string                `json:"name"`
	Email           string                `json:"email"`
	EmployeeCode    *string               `json:"employeeCode,omitempty"`
	Salary          decimal.Decimal       `json:"salary"`
	CompanyID       string                `json:"companyID"`
	Status          domain.EmployeeStatus `json:"status"`
	RejectionReason *string               `json:"rejectionReason,omitempty"`
	VerifiedAt      *time.Time            `json:"verifiedAt,omitempty"`
	RejectedAt      *time.Time            `json:"rejectedAt,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// ToEmployeeResponse converts domain.Employee to DTO.
func ToEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID:      e.EmployeeID,
		Name:            e.Name,
		Email:           e.Email,
		EmployeeCode:    e.EmployeeCode,
		Salary:          e.Salary,
		CompanyID:       e.CompanyID,
		Status:          e.Status,
		RejectionReason: e.RejectionReason,
		VerifiedAt:      e.VerifiedAt,
		RejectedAt:      e.RejectedAt,
		CreatedAt:       e.CreatedAt,
	}
}

// ListEmployeesResponse wraps a list of employees.
type ListEmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
}

func ToListEmployeesResponse(employees []domain.Employee) ListEmployeesResponse {
	out := make([]EmployeeResponse, len(employees))
	for i := range employees {
		out[i] = ToEmployeeResponse(&employees[i])
	}
	return ListEmployeesResponse{Employees: out}
}

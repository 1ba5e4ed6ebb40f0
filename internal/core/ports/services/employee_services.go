package services

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/dto"
)

// EmployeeRegistrationSvc covers self-registration and company-initiated creation.
type EmployeeRegistrationSvc interface {
	// RegisterEmployee creates a pending employee under an approved company.
	RegisterEmployee(ctx context.Context, req dto.RegisterEmployeeRequest) (*domain.Employee, error)
	// CreateEmployee lets company staff with edit rights add an employee to their own company.
	CreateEmployee(ctx context.Context, actor domain.Principal, req dto.CreateEmployeeRequest) (*domain.Employee, error)
}

// EmployeeReaderSvc defines read operations for employee data
type EmployeeReaderSvc interface {
	GetEmployee(ctx context.Context, actor domain.Principal, employeeID string) (*domain.Employee, error)
	ListCompanyEmployees(ctx context.Context, actor domain.Principal, companyID string) ([]domain.Employee, error)
	// ListEmployees is admin only.
	ListEmployees(ctx context.Context, actor domain.Principal) ([]domain.Employee, error)
}

// EmployeeManagementSvc defines the verification lifecycle and code maintenance.
type EmployeeManagementSvc interface {
	VerifyEmployee(ctx context.Context, actor domain.Principal, employeeID string) (*domain.Employee, error)
	RejectEmployee(ctx context.Context, actor domain.Principal, employeeID, reason string) (*domain.Employee, error)
	RegenerateEmployeeCode(ctx context.Context, actor domain.Principal, employeeID string) (*domain.Employee, error)
}

// EmployeeSvcFacade combines all employee-related service interfaces
type EmployeeSvcFacade interface {
	EmployeeRegistrationSvc
	EmployeeReaderSvc
	EmployeeManagementSvc
}

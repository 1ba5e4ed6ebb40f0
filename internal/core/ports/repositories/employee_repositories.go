package repositories

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
)

// EmployeeReader defines read operations for employee data
type EmployeeReader interface {
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)
	FindEmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error)
	FindEmployeeByCode(ctx context.Context, code string) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	ListEmployeesByCompany(ctx context.Context, companyID string) ([]domain.Employee, error)
	// ListEmployeeCodes returns every assigned employee code, for the sequential strategy.
	ListEmployeeCodes(ctx context.Context) ([]string, error)
	// CountEmployeesWithoutStatus counts legacy rows that have no status yet.
	CountEmployeesWithoutStatus(ctx context.Context) (int64, error)
}

// EmployeeWriter defines write operations for employee data
type EmployeeWriter interface {
	// SaveEmployee inserts a new employee. A taken code yields apperrors.ErrCodeTaken,
	// a taken email apperrors.ErrDuplicate.
	SaveEmployee(ctx context.Context, employee domain.Employee) error
	UpdateEmployeeCode(ctx context.Context, employeeID, code string) error
	// TransitionEmployeeStatus applies change only if the stored status equals change.From.
	TransitionEmployeeStatus(ctx context.Context, employeeID string, change domain.EmployeeStatusChange) error
	// BackfillEmployeeStatus sets a status on rows whose stored status is missing.
	BackfillEmployeeStatus(ctx context.Context, status domain.EmployeeStatus) (int64, error)
}

// EmployeeRepositoryFacade combines all employee-related repository interfaces
type EmployeeRepositoryFacade interface {
	EmployeeReader
	EmployeeWriter
}

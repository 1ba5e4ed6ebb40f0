package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/utils/aggregation"
	"github.com/SscSPs/loan_desk_app/internal/utils/identifier"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type employeeService struct {
	BaseService
	employeeRepo portsrepo.EmployeeRepositoryFacade
	companyRepo  portsrepo.CompanyReader
	hasher       SecretHasher
	issuer       identifier.Issuer
}

// EmployeeServiceOption is a functional option for configuring the employee service
type EmployeeServiceOption func(*employeeService)

// WithEmployeeCodeIssuer replaces the default random code issuer, e.g. with the
// sequential EMPnnn strategy.
func WithEmployeeCodeIssuer(issuer identifier.Issuer) EmployeeServiceOption {
	return func(s *employeeService) {
		s.issuer = issuer
	}
}

// WithEmployeeEvents publishes employee status changes.
func WithEmployeeEvents(events portssvc.StatusEventPublisher) EmployeeServiceOption {
	return func(s *employeeService) {
		s.Events = events
	}
}

// NewEmployeeService creates a new employee service with the given options
func NewEmployeeService(employeeRepo portsrepo.EmployeeRepositoryFacade, companyRepo portsrepo.CompanyReader, hasher SecretHasher, options ...EmployeeServiceOption) *employeeService {
	svc := &employeeService{
		employeeRepo: employeeRepo,
		companyRepo:  companyRepo,
		hasher:       hasher,
		issuer:       identifier.NewGenerator(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.EmployeeSvcFacade = (*employeeService)(nil)

func canViewEmployees(p domain.Permissions) bool { return p.CanViewAllEmployees }
func canEditEmployees(p domain.Permissions) bool { return p.CanEditEmployees }

// RegisterEmployee creates a pending employee under an approved company.
func (s *employeeService) RegisterEmployee(ctx context.Context, req dto.RegisterEmployeeRequest) (*domain.Employee, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, req.CompanyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationFailedError("company not found")
		}
		s.LogError(ctx, err, "Failed to load company for registration", slog.String("company_id", req.CompanyID))
		return nil, err
	}
	if !company.IsApproved() {
		return nil, apperrors.NewValidationFailedError("company is not approved")
	}
	return s.create(ctx, company.CompanyID, req.Name, req.Email, req.Password, req.Salary)
}

// CreateEmployee adds an employee to the acting company.
func (s *employeeService) CreateEmployee(ctx context.Context, actor domain.Principal, req dto.CreateEmployeeRequest) (*domain.Employee, error) {
	if actor.Kind != domain.PrincipalCompany {
		return nil, apperrors.NewForbiddenError("only a company can add employees")
	}
	if err := s.RequireCapability(actor, actor.CompanyID, canEditEmployees, "editing employees"); err != nil {
		return nil, err
	}
	return s.create(ctx, actor.CompanyID, req.Name, req.Email, req.Password, req.Salary)
}

func (s *employeeService) create(ctx context.Context, companyID, name, email, password string, salary decimal.Decimal) (*domain.Employee, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("employee name is required")
	}
	if !salary.IsPositive() {
		return nil, apperrors.NewValidationFailedError("salary must be greater than zero")
	}

	if _, err := s.employeeRepo.FindEmployeeByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationFailedError("email already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check employee email", slog.String("email", email))
		return nil, err
	}

	hash, err := s.hasher.HashSecret(password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash employee password")
		return nil, apperrors.NewInternalServerError("failed to register employee")
	}

	now := s.Now()
	employee := domain.Employee{
		EmployeeID:   uuid.NewString(),
		Name:         name,
		Email:        email,
		Salary:       salary,
		CompanyID:    companyID,
		Status:       domain.EmployeePending,
		PasswordHash: hash,
		TokenVersion: 1,
		AuditFields:  domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	_, err = s.issuer.Issue(ctx, domain.EmployeeCodePrefix, func(ctx context.Context, code string) error {
		employee.EmployeeCode = &code
		return s.employeeRepo.SaveEmployee(ctx, employee)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewValidationFailedError("email already registered")
		}
		s.LogError(ctx, err, "Failed to save employee", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Employee registered",
		slog.String("employee_id", employee.EmployeeID),
		slog.String("company_id", companyID),
		slog.String("employee_code", employee.Code()))
	return &employee, nil
}

// GetEmployee is open to the employee itself, its company's staff and admins.
func (s *employeeService) GetEmployee(ctx context.Context, actor domain.Principal, employeeID string) (*domain.Employee, error) {
	employee, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find employee", slog.String("employee_id", employeeID))
		}
		return nil, err
	}
	if actor.Kind == domain.PrincipalEmployee {
		if actor.ID != employeeID {
			return nil, apperrors.NewForbiddenError("not allowed to view this employee")
		}
		return employee, nil
	}
	if err := s.RequireCapability(actor, employee.CompanyID, canViewEmployees, "viewing employees"); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) ListCompanyEmployees(ctx context.Context, actor domain.Principal, companyID string) ([]domain.Employee, error) {
	if err := s.RequireCapability(actor, companyID, canViewEmployees, "viewing employees"); err != nil {
		return nil, err
	}
	employees, err := s.employeeRepo.ListEmployeesByCompany(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list company employees", slog.String("company_id", companyID))
		return nil, err
	}
	return aggregation.SortEmployees(employees), nil
}

func (s *employeeService) ListEmployees(ctx context.Context, actor domain.Principal) ([]domain.Employee, error) {
	if err := s.RequireAdmin(actor); err != nil {
		return nil, err
	}
	employees, err := s.employeeRepo.ListEmployees(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list employees")
		return nil, err
	}
	return aggregation.SortEmployees(employees), nil
}

func (s *employeeService) VerifyEmployee(ctx context.Context, actor domain.Principal, employeeID string) (*domain.Employee, error) {
	return s.decide(ctx, actor, employeeID, func(e domain.Employee) (domain.EmployeeStatusChange, error) {
		return e.Verify(actor.ID, s.Now())
	})
}

func (s *employeeService) RejectEmployee(ctx context.Context, actor domain.Principal, employeeID, reason string) (*domain.Employee, error) {
	return s.decide(ctx, actor, employeeID, func(e domain.Employee) (domain.EmployeeStatusChange, error) {
		return e.Reject(reason, actor.ID, s.Now())
	})
}

func (s *employeeService) decide(ctx context.Context, actor domain.Principal, employeeID string, next func(domain.Employee) (domain.EmployeeStatusChange, error)) (*domain.Employee, error) {
	employee, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireCapability(actor, employee.CompanyID, canEditEmployees, "editing employees"); err != nil {
		return nil, err
	}
	change, err := next(*employee)
	if err != nil {
		return nil, err
	}
	if err := s.employeeRepo.TransitionEmployeeStatus(ctx, employeeID, change); err != nil {
		if !errors.Is(err, apperrors.ErrInvalidTransition) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to transition employee status", slog.String("employee_id", employeeID))
		}
		return nil, err
	}
	employee.Apply(change)

	s.LogInfo(ctx, "Employee status changed", slog.String("employee_id", employeeID), slog.String("status", string(change.To)))
	s.Publish(ctx, statusEvent("employee", employeeID, employee.CompanyID, change))
	return employee, nil
}

func (s *employeeService) RegenerateEmployeeCode(ctx context.Context, actor domain.Principal, employeeID string) (*domain.Employee, error) {
	employee, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if err := s.RequireCapability(actor, employee.CompanyID, canEditEmployees, "editing employees"); err != nil {
		return nil, err
	}
	code, err := s.issuer.Issue(ctx, domain.EmployeeCodePrefix, func(ctx context.Context, code string) error {
		return s.employeeRepo.UpdateEmployeeCode(ctx, employeeID, code)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to regenerate employee code", slog.String("employee_id", employeeID))
		return nil, err
	}
	employee.EmployeeCode = &code
	s.LogInfo(ctx, "Employee code regenerated", slog.String("employee_id", employeeID), slog.String("employee_code", code))
	return employee, nil
}

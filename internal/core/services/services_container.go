package services

import (
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/platform/config"
	"github.com/SscSPs/loan_desk_app/internal/utils/identifier"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// cache and events may be nil.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, cache portsrepo.SessionCache, events portssvc.StatusEventPublisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	companyIssuer := identifier.NewGenerator(identifier.WithAttempts(cfg.CodeGenerationAttempts))
	var employeeIssuer identifier.Issuer = identifier.NewGenerator(identifier.WithAttempts(cfg.CodeGenerationAttempts))
	if cfg.EmployeeIDStrategy == config.EmployeeIDStrategySequential {
		employeeIssuer = identifier.NewSequential(repos.EmployeeRepo.ListEmployeeCodes, cfg.CodeGenerationAttempts)
	}

	// Auth first: the other services hash secrets through it and the gate subscribes to it.
	auth := NewAuthService(cfg, repos)
	container.Auth = auth

	container.Company = NewCompanyService(
		repos.CompanyRepo,
		auth,
		WithCompanyCodeIssuer(companyIssuer),
		WithBulkConcurrency(cfg.BulkUpdateConcurrency),
		WithCompanyEvents(events),
	)
	container.Employee = NewEmployeeService(
		repos.EmployeeRepo,
		repos.CompanyRepo,
		auth,
		WithEmployeeCodeIssuer(employeeIssuer),
		WithEmployeeEvents(events),
	)
	container.Loan = NewLoanService(repos.LoanRepo, repos.EmployeeRepo, repos.CompanyRepo, WithLoanEvents(events))
	container.Admin = NewAdminService(repos.AdminRepo, auth)
	container.Gate = NewSessionGate(auth, repos, cache, cfg.SessionCacheTTL)
	container.Dashboard = NewDashboardService(repos, cfg.DashboardCacheSize)
	container.Backfill = NewBackfillService(repos, companyIssuer, employeeIssuer)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}

package services

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/utils"
	"github.com/SscSPs/loan_desk_app/internal/utils/aggregation"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultDashboardCacheSize is the number of memoized views kept.
const DefaultDashboardCacheSize = 256

// dashboardService loads the collections a principal may see and runs the pure
// aggregation over them. Views are memoized on a fingerprint of the loaded rows
// and the filter, so any write produces a new key.
type dashboardService struct {
	BaseService
	companyRepo  portsrepo.CompanyReader
	employeeRepo portsrepo.EmployeeReader
	loanRepo     portsrepo.LoanReader
	memo         *lru.Cache[string, any]
}

func NewDashboardService(repos portsrepo.RepositoryProvider, cacheSize int) *dashboardService {
	if cacheSize <= 0 {
		cacheSize = DefaultDashboardCacheSize
	}
	memo, err := lru.New[string, any](cacheSize)
	if err != nil {
		memo, _ = lru.New[string, any](DefaultDashboardCacheSize)
	}
	return &dashboardService{
		companyRepo:  repos.CompanyRepo,
		employeeRepo: repos.EmployeeRepo,
		loanRepo:     repos.LoanRepo,
		memo:         memo,
	}
}

var _ portssvc.DashboardSvcFacade = (*dashboardService)(nil)

func (s *dashboardService) AdminDashboard(ctx context.Context, actor domain.Principal, filter domain.DashboardFilter) (*domain.AdminDashboard, error) {
	if err := s.RequireAdmin(actor); err != nil {
		return nil, err
	}

	var (
		companies []domain.Company
		employees []domain.Employee
		loans     []domain.Loan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		companies, err = s.companyRepo.ListCompanies(gctx)
		return err
	})
	g.Go(func() (err error) {
		employees, err = s.employeeRepo.ListEmployees(gctx)
		return err
	})
	g.Go(func() (err error) {
		loans, err = s.loanRepo.ListLoans(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load admin dashboard")
		return nil, err
	}

	key := fingerprint("admin", "", filter, companies, employees, loans)
	if cached, ok := s.memo.Get(key); ok {
		s.LogDebug(ctx, "Admin dashboard served from memo")
		return cached.(*domain.AdminDashboard), nil
	}

	// The drill-down selects from what the filters leave visible.
	visibleCompanies := aggregation.FilterCompanies(companies, filter.Query, filter.CompanyStatus)
	visibleEmployees := aggregation.FilterEmployees(employees, filter.Query, filter.EmployeeStatus)
	view := &domain.AdminDashboard{
		Companies: aggregation.CompanySummaries(visibleCompanies, employees, loans),
		Employees: aggregation.EmployeeSummaries(visibleEmployees, loans),
		Loans:     aggregation.SortLoans(aggregation.FilterLoans(loans, employees, filter.Query, filter.LoanStatus)),
		DrillDown: aggregation.DrillDown(visibleCompanies, visibleEmployees, loans, filter.SelectedCompanyID, filter.SelectedEmployeeID),
		LoanTally: aggregation.Tally(loans),
	}
	s.memo.Add(key, view)
	return view, nil
}

func (s *dashboardService) CompanyDashboard(ctx context.Context, actor domain.Principal, filter domain.DashboardFilter) (*domain.CompanyDashboard, error) {
	if actor.Kind != domain.PrincipalCompany {
		return nil, apperrors.NewForbiddenError("company dashboard requires a company session")
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	var (
		employees []domain.Employee
		loans     []domain.Loan
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		employees, err = s.employeeRepo.ListEmployeesByCompany(gctx, company.CompanyID)
		return err
	})
	g.Go(func() (err error) {
		loans, err = s.loanRepo.ListLoansByCompany(gctx, company.CompanyID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load company dashboard", slog.String("company_id", company.CompanyID))
		return nil, err
	}

	key := fingerprint("company", actor.ID+"|"+string(actor.Role), filter, []domain.Company{*company}, employees, loans)
	if cached, ok := s.memo.Get(key); ok {
		return cached.(*domain.CompanyDashboard), nil
	}

	perms := actor.Permissions()
	view := &domain.CompanyDashboard{
		Company:     *company,
		Permissions: perms,
		Employees:   []domain.EmployeeSummary{},
		Loans:       aggregation.SortLoans(aggregation.FilterLoans(loans, employees, filter.Query, filter.LoanStatus)),
		LoanTally:   aggregation.Tally(loans),
	}
	if perms.CanViewAllEmployees {
		view.Employees = aggregation.EmployeeSummaries(aggregation.FilterEmployees(employees, filter.Query, filter.EmployeeStatus), loans)
	}
	s.memo.Add(key, view)
	return view, nil
}

func (s *dashboardService) EmployeeDashboard(ctx context.Context, actor domain.Principal) (*domain.EmployeeDashboard, error) {
	if actor.Kind != domain.PrincipalEmployee {
		return nil, apperrors.NewForbiddenError("employee dashboard requires an employee session")
	}
	employee, err := s.employeeRepo.FindEmployeeByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, employee.CompanyID)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.ListLoansByEmployee(ctx, employee.EmployeeID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load employee loans", slog.String("employee_id", employee.EmployeeID))
		return nil, err
	}

	key := fingerprint("employee", actor.ID, domain.DashboardFilter{}, []domain.Company{*company}, []domain.Employee{*employee}, loans)
	if cached, ok := s.memo.Get(key); ok {
		return cached.(*domain.EmployeeDashboard), nil
	}

	view := &domain.EmployeeDashboard{
		Employee:      *employee,
		CompanyName:   company.Name,
		InterestRates: company.InterestRates,
		Summary:       aggregation.EmployeeSummaries([]domain.Employee{*employee}, loans)[0],
		Loans:         aggregation.SortLoans(loans),
	}
	s.memo.Add(key, view)
	return view, nil
}

// fingerprint covers everything a view depends on: the scope, the filter and
// the id, status, code and last write time of every loaded row.
func fingerprint(scope, actor string, f domain.DashboardFilter, companies []domain.Company, employees []domain.Employee, loans []domain.Loan) string {
	parts := make([]string, 0, 8+5*len(companies)+4*len(employees)+3*len(loans))
	parts = append(parts, scope, actor, f.Query, f.CompanyStatus, f.EmployeeStatus, f.LoanStatus, f.SelectedCompanyID, f.SelectedEmployeeID)
	for _, c := range companies {
		parts = append(parts, c.CompanyID, string(c.Status), c.Code(), c.Balance.String(), strconv.FormatInt(c.LastUpdatedAt.UnixNano(), 36))
	}
	for _, e := range employees {
		parts = append(parts, e.EmployeeID, string(e.Status), e.Code(), strconv.FormatInt(e.LastUpdatedAt.UnixNano(), 36))
	}
	for _, l := range loans {
		parts = append(parts, l.LoanID, string(l.Status), strconv.FormatInt(l.UpdatedAt.UnixNano(), 36))
	}
	return utils.Fingerprint(parts...)
}

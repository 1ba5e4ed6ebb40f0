package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/utils/identifier"
	"github.com/hashicorp/go-multierror"
)

// backfillService brings legacy rows up to the current invariants: a status on
// every company and employee, a code on every one of them and a complete rate
// table on every company. Running it twice changes nothing the second time.
type backfillService struct {
	BaseService
	companyRepo    portsrepo.CompanyRepositoryFacade
	employeeRepo   portsrepo.EmployeeRepositoryFacade
	companyIssuer  identifier.Issuer
	employeeIssuer identifier.Issuer
}

func NewBackfillService(repos portsrepo.RepositoryProvider, companyIssuer, employeeIssuer identifier.Issuer) *backfillService {
	return &backfillService{
		companyRepo:    repos.CompanyRepo,
		employeeRepo:   repos.EmployeeRepo,
		companyIssuer:  companyIssuer,
		employeeIssuer: employeeIssuer,
	}
}

var _ portssvc.BackfillSvc = (*backfillService)(nil)

// Run returns an error only when the status pass cannot run at all. Per-row
// failures are collected in the report.
func (s *backfillService) Run(ctx context.Context, dryRun bool) (*domain.BackfillReport, error) {
	report := &domain.BackfillReport{
		DryRun:                  dryRun,
		CompanyCodesFilled:      []string{},
		EmployeeCodesFilled:     []string{},
		InterestRatesNormalized: []string{},
		Failed:                  []domain.ItemFailure{},
	}
	var merr *multierror.Error
	fail := func(id string, err error) {
		merr = multierror.Append(merr, fmt.Errorf("%s: %w", id, err))
		report.Failed = append(report.Failed, domain.ItemFailure{ID: id, Error: err.Error()})
	}

	var err error
	if dryRun {
		report.CompanyStatusesFilled, err = s.companyRepo.CountCompaniesWithoutStatus(ctx)
	} else {
		report.CompanyStatusesFilled, err = s.companyRepo.BackfillCompanyStatus(ctx, domain.CompanyPending)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to backfill company statuses")
		return nil, err
	}
	if dryRun {
		report.EmployeeStatusesFilled, err = s.employeeRepo.CountEmployeesWithoutStatus(ctx)
	} else {
		report.EmployeeStatusesFilled, err = s.employeeRepo.BackfillEmployeeStatus(ctx, domain.EmployeePending)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to backfill employee statuses")
		return nil, err
	}

	// In a dry run legacy rows still lack a status and cannot be decoded, so
	// listing may fail; that is reported rather than aborting.
	companies, err := s.companyRepo.ListCompanies(ctx)
	if err != nil {
		fail("companies", err)
	}
	for _, c := range companies {
		if c.CompanyCode == nil || *c.CompanyCode == "" {
			if dryRun {
				report.CompanyCodesFilled = append(report.CompanyCodesFilled, c.CompanyID)
			} else if _, err := s.companyIssuer.Issue(ctx, domain.CompanyCodePrefix, func(ctx context.Context, code string) error {
				return s.companyRepo.UpdateCompanyCode(ctx, c.CompanyID, code)
			}); err != nil {
				fail(c.CompanyID, err)
			} else {
				report.CompanyCodesFilled = append(report.CompanyCodesFilled, c.CompanyID)
			}
		}

		normalized := c.InterestRates.Normalized()
		if c.InterestRates != nil && c.InterestRates.Equal(normalized) {
			continue
		}
		if !dryRun {
			if err := s.companyRepo.UpdateCompanyInterestRates(ctx, c.CompanyID, normalized); err != nil {
				fail(c.CompanyID, err)
				continue
			}
		}
		report.InterestRatesNormalized = append(report.InterestRatesNormalized, c.CompanyID)
	}

	employees, err := s.employeeRepo.ListEmployees(ctx)
	if err != nil {
		fail("employees", err)
	}
	for _, e := range employees {
		if e.EmployeeCode != nil && *e.EmployeeCode != "" {
			continue
		}
		if !dryRun {
			if _, err := s.employeeIssuer.Issue(ctx, domain.EmployeeCodePrefix, func(ctx context.Context, code string) error {
				return s.employeeRepo.UpdateEmployeeCode(ctx, e.EmployeeID, code)
			}); err != nil {
				fail(e.EmployeeID, err)
				continue
			}
		}
		report.EmployeeCodesFilled = append(report.EmployeeCodesFilled, e.EmployeeID)
	}

	attrs := []any{
		slog.Bool("dry_run", dryRun),
		slog.Int64("company_statuses", report.CompanyStatusesFilled),
		slog.Int64("employee_statuses", report.EmployeeStatusesFilled),
		slog.Int("company_codes", len(report.CompanyCodesFilled)),
		slog.Int("employee_codes", len(report.EmployeeCodesFilled)),
		slog.Int("interest_rates", len(report.InterestRatesNormalized)),
	}
	if err := merr.ErrorOrNil(); err != nil {
		s.LogError(ctx, err, "Backfill finished with failures", attrs...)
	} else {
		s.LogInfo(ctx, "Backfill finished", attrs...)
	}
	return report, nil
}

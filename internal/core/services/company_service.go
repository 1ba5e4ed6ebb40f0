package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/utils/aggregation"
	"github.com/SscSPs/loan_desk_app/internal/utils/identifier"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultBulkConcurrency bounds the per-company fan-out of bulk updates.
const DefaultBulkConcurrency = 8

// SecretHasher produces the stored form of a password.
type SecretHasher interface {
	HashSecret(secret string) (string, error)
}

type companyService struct {
	BaseService
	companyRepo     portsrepo.CompanyRepositoryFacade
	hasher          SecretHasher
	issuer          identifier.Issuer
	bulkConcurrency int
}

// CompanyServiceOption is a functional option for configuring the company service
type CompanyServiceOption func(*companyService)

// WithCompanyCodeIssuer replaces the default random code issuer.
func WithCompanyCodeIssuer(issuer identifier.Issuer) CompanyServiceOption {
	return func(s *companyService) {
		s.issuer = issuer
	}
}

// WithBulkConcurrency bounds how many companies a bulk update touches at once.
func WithBulkConcurrency(n int) CompanyServiceOption {
	return func(s *companyService) {
		if n > 0 {
			s.bulkConcurrency = n
		}
	}
}

// WithCompanyEvents publishes company status changes.
func WithCompanyEvents(events portssvc.StatusEventPublisher) CompanyServiceOption {
	return func(s *companyService) {
		s.Events = events
	}
}

// NewCompanyService creates a new company service with the given options
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade, hasher SecretHasher, options ...CompanyServiceOption) *companyService {
	svc := &companyService{
		companyRepo:     companyRepo,
		hasher:          hasher,
		issuer:          identifier.NewGenerator(),
		bulkConcurrency: DefaultBulkConcurrency,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterCompany creates a pending company with default interest rates. The
// company code is claimed through the unique constraint on insert.
func (s *companyService) RegisterCompany(ctx context.Context, req dto.RegisterCompanyRequest) (*domain.Company, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("company name is required")
	}
	if _, err := domain.ParseRole(string(req.Role)); err != nil {
		return nil, apperrors.NewValidationFailedError("role must be one of admin, manager or hr")
	}

	if _, err := s.companyRepo.FindCompanyByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationFailedError("email already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check company email", slog.String("email", email))
		return nil, err
	}

	hash, err := s.hasher.HashSecret(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash company password")
		return nil, apperrors.NewInternalServerError("failed to register company")
	}

	now := s.Now()
	company := domain.Company{
		CompanyID:     uuid.NewString(),
		Name:          name,
		Email:         email,
		Balance:       decimal.Zero,
		InterestRates: domain.DefaultInterestRates(),
		Role:          req.Role,
		Status:        domain.CompanyPending,
		PasswordHash:  hash,
		TokenVersion:  1,
		AuditFields:   domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	_, err = s.issuer.Issue(ctx, domain.CompanyCodePrefix, func(ctx context.Context, code string) error {
		company.CompanyCode = &code
		return s.companyRepo.SaveCompany(ctx, company)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewValidationFailedError("email already registered")
		}
		s.LogError(ctx, err, "Failed to save company", slog.String("email", email))
		return nil, err
	}

	s.LogInfo(ctx, "Company registered", slog.String("company_id", company.CompanyID), slog.String("company_code", company.Code()))
	return &company, nil
}

// ListApprovedCompanies returns approved companies ordered by name.
func (s *companyService) ListApprovedCompanies(ctx context.Context) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompaniesByStatus(ctx, domain.CompanyApproved)
	if err != nil {
		s.LogError(ctx, err, "Failed to list approved companies")
		return nil, err
	}
	return aggregation.SortCompanies(companies), nil
}

func (s *companyService) GetCompany(ctx context.Context, actor domain.Principal, companyID string) (*domain.Company, error) {
	if !actor.ActsFor(companyID) {
		return nil, apperrors.NewForbiddenError("not allowed to view this company")
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find company", slog.String("company_id", companyID))
		}
		return nil, err
	}
	return company, nil
}

func (s *companyService) ListCompanies(ctx context.Context, actor domain.Principal) ([]domain.Company, error) {
	if err := s.RequireAdmin(actor); err != nil {
		return nil, err
	}
	companies, err := s.companyRepo.ListCompanies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies")
		return nil, err
	}
	return aggregation.SortCompanies(companies), nil
}

func (s *companyService) ApproveCompany(ctx context.Context, actor domain.Principal, companyID string) (*domain.Company, error) {
	return s.decide(ctx, actor, companyID, func(c domain.Company) (domain.CompanyStatusChange, error) {
		return c.Approve(actor.ID, s.Now())
	})
}

func (s *companyService) RejectCompany(ctx context.Context, actor domain.Principal, companyID, reason string) (*domain.Company, error) {
	return s.decide(ctx, actor, companyID, func(c domain.Company) (domain.CompanyStatusChange, error) {
		return c.Reject(reason, actor.ID, s.Now())
	})
}

func (s *companyService) decide(ctx context.Context, actor domain.Principal, companyID string, next func(domain.Company) (domain.CompanyStatusChange, error)) (*domain.Company, error) {
	if err := s.RequireAdmin(actor); err != nil {
		return nil, err
	}
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	change, err := next(*company)
	if err != nil {
		return nil, err
	}
	if err := s.companyRepo.TransitionCompanyStatus(ctx, companyID, change); err != nil {
		if !errors.Is(err, apperrors.ErrInvalidTransition) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to transition company status", slog.String("company_id", companyID))
		}
		return nil, err
	}
	company.Apply(change)

	s.LogInfo(ctx, "Company status changed", slog.String("company_id", companyID), slog.String("status", string(change.To)))
	s.Publish(ctx, statusEvent("company", companyID, companyID, change))
	return company, nil
}

// UpdateInterestRates replaces the rate table. Existing loans keep the rate they froze.
func (s *companyService) UpdateInterestRates(ctx context.Context, actor domain.Principal, companyID string, rates domain.InterestRates) (*domain.Company, error) {
	if err := s.RequireCapability(actor, companyID, func(p domain.Permissions) bool { return p.CanViewFinancials }, "editing interest rates"); err != nil {
		return nil, err
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	if err := s.companyRepo.UpdateCompanyInterestRates(ctx, companyID, rates); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update interest rates", slog.String("company_id", companyID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Interest rates updated", slog.String("company_id", companyID))
	return s.companyRepo.FindCompanyByID(ctx, companyID)
}

func (s *companyService) UpdateBalance(ctx context.Context, actor domain.Principal, companyID string, balance decimal.Decimal) (*domain.Company, error) {
	if err := s.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if balance.IsNegative() {
		return nil, apperrors.NewValidationFailedError("balance must not be negative")
	}
	if err := s.companyRepo.UpdateCompanyBalance(ctx, companyID, balance); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update balance", slog.String("company_id", companyID))
		}
		return nil, err
	}
	return s.companyRepo.FindCompanyByID(ctx, companyID)
}

// RegenerateCompanyCode issues a fresh code for the company.
func (s *companyService) RegenerateCompanyCode(ctx context.Context, actor domain.Principal, companyID string) (*domain.Company, error) {
	if err := s.RequireCapability(actor, companyID, nil, ""); err != nil {
		return nil, err
	}
	if _, err := s.companyRepo.FindCompanyByID(ctx, companyID); err != nil {
		return nil, err
	}
	code, err := s.issuer.Issue(ctx, domain.CompanyCodePrefix, func(ctx context.Context, code string) error {
		return s.companyRepo.UpdateCompanyCode(ctx, companyID, code)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to regenerate company code", slog.String("company_id", companyID))
		return nil, err
	}
	s.LogInfo(ctx, "Company code regenerated", slog.String("company_id", companyID), slog.String("company_code", code))
	return s.companyRepo.FindCompanyByID(ctx, companyID)
}

// BulkSetInterestRates writes the same table to every company. Each company is
// updated independently: one failure neither cancels nor rolls back the others.
// Failures are listed in the result and joined in result.Err.
func (s *companyService) BulkSetInterestRates(ctx context.Context, actor domain.Principal, rates domain.InterestRates) (*domain.BulkResult, error) {
	if err := s.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	companies, err := s.companyRepo.ListCompanies(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list companies for bulk update")
		return nil, err
	}

	var (
		mu     sync.Mutex
		merr   *multierror.Error
		result = &domain.BulkResult{Updated: []string{}, Failed: []domain.ItemFailure{}}
		g      errgroup.Group
	)
	g.SetLimit(s.bulkConcurrency)
	for _, c := range companies {
		companyID := c.CompanyID
		g.Go(func() error {
			err := s.companyRepo.UpdateCompanyInterestRates(ctx, companyID, rates)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				merr = multierror.Append(merr, fmt.Errorf("company %s: %w", companyID, err))
				result.Failed = append(result.Failed, domain.ItemFailure{ID: companyID, Error: err.Error()})
				return nil
			}
			result.Updated = append(result.Updated, companyID)
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(result.Updated)
	sort.Slice(result.Failed, func(i, j int) bool { return result.Failed[i].ID < result.Failed[j].ID })

	result.Err = merr.ErrorOrNil()
	if result.Err != nil {
		s.LogError(ctx, result.Err, "Bulk interest rate update finished with failures",
			slog.Int("updated", len(result.Updated)),
			slog.Int("failed", len(result.Failed)))
	} else {
		s.LogInfo(ctx, "Bulk interest rate update finished", slog.Int("updated", len(result.Updated)))
	}
	return result, nil
}

package repositories

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CompanyReader defines read operations for company data
type CompanyReader interface {
	// FindCompanyByID retrieves a company by its internal id.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	// FindCompanyByEmail retrieves a company by its (unique) email.
	FindCompanyByEmail(ctx context.Context, email string) (*domain.Company, error)
	// FindCompanyByCode retrieves a company by its company code.
	FindCompanyByCode(ctx context.Context, code string) (*domain.Company, error)
	// ListCompanies retrieves every company.
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	// ListCompaniesByStatus retrieves companies in the given status.
	ListCompaniesByStatus(ctx context.Context, status domain.CompanyStatus) ([]domain.Company, error)
	// CountCompaniesWithoutStatus counts legacy rows that have no status yet.
	CountCompaniesWithoutStatus(ctx context.Context) (int64, error)
}

// CompanyWriter defines write operations for company data
type CompanyWriter interface {
	// SaveCompany inserts a new company. A taken code yields apperrors.ErrCodeTaken,
	// a taken email apperrors.ErrDuplicate.
	SaveCompany(ctx context.Context, company domain.Company) error
	UpdateCompanyInterestRates(ctx context.Context, companyID string, rates domain.InterestRates) error
	UpdateCompanyBalance(ctx context.Context, companyID string, balance decimal.Decimal) error
	// UpdateCompanyCode replaces the company code, subject to the same uniqueness rule as SaveCompany.
	UpdateCompanyCode(ctx context.Context, companyID, code string) error
	// TransitionCompanyStatus applies change only if the stored status equals change.From.
	TransitionCompanyStatus(ctx context.Context, companyID string, change domain.CompanyStatusChange) error
	// BackfillCompanyStatus sets a status on rows whose stored status is missing.
	BackfillCompanyStatus(ctx context.Context, status domain.CompanyStatus) (int64, error)
}

// CompanyRepositoryFacade combines all company-related repository interfaces
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}

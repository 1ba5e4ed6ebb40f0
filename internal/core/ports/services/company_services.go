package services

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/shopspring/decimal"
)

// CompanyRegistrationSvc defines the public company onboarding operations
type CompanyRegistrationSvc interface {
	// RegisterCompany creates a pending company with a fresh company code and default rates.
	RegisterCompany(ctx context.Context, req dto.RegisterCompanyRequest) (*domain.Company, error)
	// ListApprovedCompanies feeds the employee registration picker.
	ListApprovedCompanies(ctx context.Context) ([]domain.Company, error)
}

// CompanyReaderSvc defines read operations for company data
type CompanyReaderSvc interface {
	GetCompany(ctx context.Context, actor domain.Principal, companyID string) (*domain.Company, error)
	// ListCompanies is admin only.
	ListCompanies(ctx context.Context, actor domain.Principal) ([]domain.Company, error)
}

// CompanyManagementSvc defines the mutating company operations
type CompanyManagementSvc interface {
	ApproveCompany(ctx context.Context, actor domain.Principal, companyID string) (*domain.Company, error)
	RejectCompany(ctx context.Context, actor domain.Principal, companyID, reason string) (*domain.Company, error)
	// UpdateInterestRates is open to the company itself (with financial visibility) and admins.
	UpdateInterestRates(ctx context.Context, actor domain.Principal, companyID string, rates domain.InterestRates) (*domain.Company, error)
	// UpdateBalance is admin only.
	UpdateBalance(ctx context.Context, actor domain.Principal, companyID string, balance decimal.Decimal) (*domain.Company, error)
	RegenerateCompanyCode(ctx context.Context, actor domain.Principal, companyID string) (*domain.Company, error)
	// BulkSetInterestRates applies the same table to every company, reporting failures per company.
	BulkSetInterestRates(ctx context.Context, actor domain.Principal, rates domain.InterestRates) (*domain.BulkResult, error)
}

// CompanySvcFacade combines all company-related service interfaces
type CompanySvcFacade interface {
	CompanyRegistrationSvc
	CompanyReaderSvc
	CompanyManagementSvc
}

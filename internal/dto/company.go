package dto

import (
	"time"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// --- Company DTOs ---

// RegisterCompanyRequest defines data for self-registration of a company.
type RegisterCompanyRequest struct {
	Name     string      `json:"name" binding:"required,min=2,max=120"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8,max=72"`
	Role     domain.Role `json:"role" binding:"required,oneof=admin manager hr"`
}

// UpdateInterestRatesRequest carries a full rate table, e.g. {"3":"1.5","6":"2","12":"3"}.
type UpdateInterestRatesRequest struct {
	InterestRates domain.InterestRates `json:"interestRates" binding:"required"`
}

// UpdateBalanceRequest sets the informational funding balance of a company.
type UpdateBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}

// RejectRequest carries the mandatory reason for any rejection.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CompanyResponse defines data returned for a company.
type CompanyResponse struct {
	CompanyID       string               `json:"companyID"`
	Name            string               `json:"name"`
	Email           string               `json:"email"`
	CompanyCode     *string              `json:"companyCode,omitempty"`
	Balance         decimal.Decimal      `json:"balance"`
	InterestRates   domain.InterestRates `json:"interestRates"`
	Role            domain.Role          `json:"role"`
	Status          domain.CompanyStatus `json:"status"`
	RejectionReason *string              `json:"rejectionReason,omitempty"`
	ApprovedAt      *time.Time           `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time           `json:"rejectedAt,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	LastUpdatedAt   time.Time            `json:"lastUpdatedAt"`
}

// ToCompanyResponse converts domain.Company to DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	rates := c.InterestRates
	if rates == nil {
		rates = domain.DefaultInterestRates()
	}
	return CompanyResponse{
		CompanyID:       c.CompanyID,
		Name:            c.Name,
		Email:           c.Email,
		CompanyCode:     c.CompanyCode,
		Balance:         c.Balance,
		InterestRates:   rates,
		Role:            c.Role,
		Status:          c.Status,
		RejectionReason: c.RejectionReason,
		ApprovedAt:      c.ApprovedAt,
		RejectedAt:      c.RejectedAt,
		CreatedAt:       c.CreatedAt,
		LastUpdatedAt:   c.LastUpdatedAt,
	}
}

// ListCompaniesResponse wraps a list of companies.
type ListCompaniesResponse struct {
	Companies []CompanyResponse `json:"companies"`
}

func ToListCompaniesResponse(companies []domain.Company) ListCompaniesResponse {
	out := make([]CompanyResponse, len(companies))
	for i := range companies {
		out[i] = ToCompanyResponse(&companies[i])
	}
	return ListCompaniesResponse{Companies: out}
}

// CompanyOption is the trimmed company shown in the employee registration picker.
type CompanyOption struct {
	CompanyID   string `json:"companyID"`
	Name        string `json:"name"`
	CompanyCode string `json:"companyCode"`
}

func ToCompanyOptions(companies []domain.Company) []CompanyOption {
	out := make([]CompanyOption, len(companies))
	for i, c := range companies {
		out[i] = CompanyOption{CompanyID: c.CompanyID, Name: c.Name, CompanyCode: c.Code()}
	}
	return out
}

// BulkResultResponse reports a bulk update.
type BulkResultResponse struct {
	UpdatedCount int                  `json:"updatedCount"`
	FailedCount  int                  `json:"failedCount"`
	Updated      []string             `json:"updated"`
	Failed       []domain.ItemFailure `json:"failed"`
}

func ToBulkResultResponse(r *domain.BulkResult) BulkResultResponse {
	updated := r.Updated
	if updated == nil {
		updated = []string{}
	}
	failed := r.Failed
	if failed == nil {
		failed = []domain.ItemFailure{}
	}
	return BulkResultResponse{
		UpdatedCount: len(updated),
		FailedCount:  len(failed),
		Updated:      updated,
		Failed:       failed,
	}
}

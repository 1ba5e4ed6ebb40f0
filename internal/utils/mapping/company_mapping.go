package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/models"
)

// EncodeInterestRates produces the jsonb form of a rate table. A nil table is stored as NULL.
func EncodeInterestRates(rates domain.InterestRates) ([]byte, error) {
	if rates == nil {
		return nil, nil
	}
	raw, err := json.Marshal(rates)
	if err != nil {
		return nil, fmt.Errorf("failed to encode interest rates: %w", err)
	}
	return raw, nil
}

// DecodeInterestRates parses a stored rate table. NULL yields nil, which reads as all defaults.
func DecodeInterestRates(raw []byte) (domain.InterestRates, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var rates domain.InterestRates
	if err := json.Unmarshal(raw, &rates); err != nil {
		return nil, fmt.Errorf("%w: malformed interest rates: %v", apperrors.ErrValidation, err)
	}
	return rates, nil
}

// ToModelCompany converts a domain Company to a model Company
func ToModelCompany(d domain.Company) (models.Company, error) {
	rates, err := EncodeInterestRates(d.InterestRates)
	if err != nil {
		return models.Company{}, err
	}
	status := string(d.Status)
	return models.Company{
		CompanyID:       d.CompanyID,
		Name:            d.Name,
		Email:           d.Email,
		CompanyCode:     d.CompanyCode,
		Balance:         d.Balance,
		InterestRates:   rates,
		Role:            string(d.Role),
		Status:          &status,
		RejectionReason: d.RejectionReason,
		ApprovedAt:      d.ApprovedAt,
		RejectedAt:      d.RejectedAt,
		PasswordHash:    d.PasswordHash,
		TokenVersion:    d.TokenVersion,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainCompany converts a model Company to a domain Company. Role and status are
// decoded strictly; a row without a status must be backfilled before it can be read.
func ToDomainCompany(m models.Company) (domain.Company, error) {
	if m.Status == nil {
		return domain.Company{}, fmt.Errorf("%w: company %s has no status", apperrors.ErrValidation, m.CompanyID)
	}
	status, err := domain.ParseCompanyStatus(*m.Status)
	if err != nil {
		return domain.Company{}, err
	}
	role, err := domain.ParseRole(m.Role)
	if err != nil {
		return domain.Company{}, err
	}
	rates, err := DecodeInterestRates(m.InterestRates)
	if err != nil {
		return domain.Company{}, err
	}
	return domain.Company{
		CompanyID:       m.CompanyID,
		Name:            m.Name,
		Email:           m.Email,
		CompanyCode:     m.CompanyCode,
		Balance:         m.Balance,
		InterestRates:   rates,
		Role:            role,
		Status:          status,
		RejectionReason: m.RejectionReason,
		ApprovedAt:      m.ApprovedAt,
		RejectedAt:      m.RejectedAt,
		PasswordHash:    m.PasswordHash,
		TokenVersion:    m.TokenVersion,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainCompanySlice converts a slice of model Companies, stopping at the first undecodable row.
func ToDomainCompanySlice(ms []models.Company) ([]domain.Company, error) {
	ds := make([]domain.Company, len(ms))
	for i, m := range ms {
		d, err := ToDomainCompany(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

package mapping

import (
	"fmt"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/models"
)

// ToModelEmployee converts a domain Employee to a model Employee
func ToModelEmployee(d domain.Employee) models.Employee {
	status := string(d.Status)
	return models.Employee{
		EmployeeID:      d.EmployeeID,
		Name:            d.Name,
		Email:           d.Email,
		EmployeeCode:    d.EmployeeCode,
		Salary:          d.Salary,
		CompanyID:       d.CompanyID,
		Status:          &status,
		RejectionReason: d.RejectionReason,
		VerifiedAt:      d.VerifiedAt,
		RejectedAt:      d.RejectedAt,
		PasswordHash:    d.PasswordHash,
		TokenVersion:    d.TokenVersion,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEmployee converts a model Employee to a domain Employee
func ToDomainEmployee(m models.Employee) (domain.Employee, error) {
	if m.Status == nil {
		return domain.Employee{}, fmt.Errorf("%w: employee %s has no status", apperrors.ErrValidation, m.EmployeeID)
	}
	status, err := domain.ParseEmployeeStatus(*m.Status)
	if err != nil {
		return domain.Employee{}, err
	}
	return domain.Employee{
		EmployeeID:      m.EmployeeID,
		Name:            m.Name,
		Email:           m.Email,
		EmployeeCode:    m.EmployeeCode,
		Salary:          m.Salary,
		CompanyID:       m.CompanyID,
		Status:          status,
		RejectionReason: m.RejectionReason,
		VerifiedAt:      m.VerifiedAt,
		RejectedAt:      m.RejectedAt,
		PasswordHash:    m.PasswordHash,
		TokenVersion:    m.TokenVersion,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}

func ToDomainEmployeeSlice(ms []models.Employee) ([]domain.Employee, error) {
	ds := make([]domain.Employee, len(ms))
	for i, m := range ms {
		d, err := ToDomainEmployee(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

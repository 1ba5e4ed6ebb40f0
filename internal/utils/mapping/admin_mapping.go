package mapping

import (
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/models"
)

func ToModelAdmin(d domain.Admin) models.Admin {
	return models.Admin{
		AdminID:      d.AdminID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		TokenVersion: d.TokenVersion,
		CreatedAt:    d.CreatedAt,
	}
}

func ToDomainAdmin(m models.Admin) domain.Admin {
	return domain.Admin{
		AdminID:      m.AdminID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		TokenVersion: m.TokenVersion,
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainCredential tags a credential row with the table it was read from.
func ToDomainCredential(kind domain.PrincipalKind, m models.Credential) domain.Credential {
	return domain.Credential{
		Kind:         kind,
		PrincipalID:  m.PrincipalID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		TokenVersion: m.TokenVersion,
	}
}

package repositories

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
)

// CredentialRepository reads and revokes credentials across all principal kinds.
type CredentialRepository interface {
	FindCredentialByEmail(ctx context.Context, kind domain.PrincipalKind, email string) (*domain.Credential, error)
	FindCredentialByID(ctx context.Context, kind domain.PrincipalKind, principalID string) (*domain.Credential, error)
	// IncrementTokenVersion invalidates every token issued so far and returns the new version.
	IncrementTokenVersion(ctx context.Context, kind domain.PrincipalKind, principalID string) (int, error)
}

package services

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/SscSPs/loan_desk_app/internal/dto"
)

// AdminSvcFacade manages platform administrator records.
type AdminSvcFacade interface {
	// CreateAdmin is admin only.
	CreateAdmin(ctx context.Context, actor domain.Principal, req dto.CreateAdminRequest) (*domain.Admin, error)
	// EnsureBootstrapAdmin creates the configured first admin if it does not exist yet.
	EnsureBootstrapAdmin(ctx context.Context, name, email, password string) (*domain.Admin, error)
}

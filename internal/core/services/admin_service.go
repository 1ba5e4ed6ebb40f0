package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/google/uuid"
)

type adminService struct {
	BaseService
	adminRepo portsrepo.AdminRepositoryFacade
	hasher    SecretHasher
}

func NewAdminService(adminRepo portsrepo.AdminRepositoryFacade, hasher SecretHasher) *adminService {
	return &adminService{adminRepo: adminRepo, hasher: hasher}
}

var _ portssvc.AdminSvcFacade = (*adminService)(nil)

func (s *adminService) CreateAdmin(ctx context.Context, actor domain.Principal, req dto.CreateAdminRequest) (*domain.Admin, error) {
	if err := s.RequireAdmin(actor); err != nil {
		return nil, err
	}
	admin, err := s.create(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Admin created", slog.String("admin_id", admin.AdminID), slog.String("created_by", actor.ID))
	return admin, nil
}

// EnsureBootstrapAdmin is idempotent: an existing admin with the email is returned as is.
func (s *adminService) EnsureBootstrapAdmin(ctx context.Context, name, email, password string) (*domain.Admin, error) {
	existing, err := s.adminRepo.FindAdminByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up bootstrap admin")
		return nil, err
	}
	admin, err := s.create(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Bootstrap admin created", slog.String("admin_id", admin.AdminID))
	return admin, nil
}

func (s *adminService) create(ctx context.Context, name, email, password string) (*domain.Admin, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationFailedError("admin name and email are required")
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationFailedError("password must be at least 8 characters")
	}
	hash, err := s.hasher.HashSecret(password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash admin password")
		return nil, apperrors.NewInternalServerError("failed to create admin")
	}
	admin := domain.Admin{
		AdminID:      uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		TokenVersion: 1,
		CreatedAt:    s.Now(),
	}
	if err := s.adminRepo.SaveAdmin(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewValidationFailedError("email already registered")
		}
		s.LogError(ctx, err, "Failed to save admin")
		return nil, err
	}
	return &admin, nil
}

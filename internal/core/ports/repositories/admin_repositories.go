package repositories

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
)

// AdminRepositoryFacade covers the admins collection.
type AdminRepositoryFacade interface {
	FindAdminByID(ctx context.Context, adminID string) (*domain.Admin, error)
	FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)
	// SaveAdmin inserts an admin. A taken email yields apperrors.ErrDuplicate.
	SaveAdmin(ctx context.Context, admin domain.Admin) error
}

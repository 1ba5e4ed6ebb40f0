package services

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
)

// StatusEventPublisher announces committed status transitions.
type StatusEventPublisher interface {
	PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error
}

package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Events portssvc.StatusEventPublisher
	Clock  func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the service clock in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// Publish announces a committed transition. Failures are logged only; the
// transition already happened.
func (s *BaseService) Publish(ctx context.Context, event domain.StatusChangedEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishStatusChanged(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish status change",
			slog.String("entity", event.Entity),
			slog.String("entity_id", event.EntityID),
			slog.String("to", event.To))
	}
}

// RequireAdmin fails with ErrForbidden unless the actor is a platform admin.
func (s *BaseService) RequireAdmin(actor domain.Principal) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbiddenError("admin access required")
	}
	return nil
}

// RequireCapability allows platform admins, and company principals acting for
// companyID whose role grants the capability.
func (s *BaseService) RequireCapability(actor domain.Principal, companyID string, capability func(domain.Permissions) bool, what string) error {
	if actor.IsAdmin() {
		return nil
	}
	if !actor.ActsFor(companyID) {
		return apperrors.NewForbiddenError("not allowed to act for this company")
	}
	if capability != nil && !capability(actor.Permissions()) {
		return apperrors.NewForbiddenError("role does not allow " + what)
	}
	return nil
}

func statusEvent[S ~string](entity, id, companyID string, change domain.StatusChange[S]) domain.StatusChangedEvent {
	return domain.StatusChangedEvent{
		Entity:     entity,
		EntityID:   id,
		CompanyID:  companyID,
		From:       string(change.From),
		To:         string(change.To),
		Reason:     change.Reason,
		ActorID:    change.By,
		OccurredAt: change.At,
	}
}

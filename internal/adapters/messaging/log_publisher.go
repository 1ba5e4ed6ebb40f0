package messaging

import (
	"context"
	"log/slog"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
)

// LogPublisher writes status events to the structured log. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

var _ portssvc.StatusEventPublisher = (*LogPublisher)(nil)

func (p *LogPublisher) PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error {
	p.logger.InfoContext(ctx, "status changed",
		slog.String("entity", event.Entity),
		slog.String("entity_id", event.EntityID),
		slog.String("company_id", event.CompanyID),
		slog.String("from", event.From),
		slog.String("to", event.To),
		slog.String("actor_id", event.ActorID),
		slog.Time("occurred_at", event.OccurredAt),
	)
	return nil
}

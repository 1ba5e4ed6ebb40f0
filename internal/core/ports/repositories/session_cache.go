package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
)

// SessionCache stores principal snapshots under keys like "company:<id>".
// Get returns apperrors.ErrNotFound on a miss.
type SessionCache interface {
	Get(ctx context.Context, key string) (*domain.SessionRecord, error)
	Set(ctx context.Context, key string, record domain.SessionRecord, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
}

package services

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
)

// SessionGateSvc decides whether a session may act as a given principal kind.
type SessionGateSvc interface {
	// Resolve verifies the token and re-validates the principal against the canonical
	// store. An empty required kind accepts whatever kind the token claims.
	Resolve(ctx context.Context, required domain.PrincipalKind, token string) domain.Decision
	// Watch emits loading, then a decision, then a fresh decision on every auth-state
	// change of the same principal until stop is called or ctx ends.
	Watch(ctx context.Context, required domain.PrincipalKind, token string, onDecision func(domain.Decision)) (stop func())
	// CachedSession returns the display snapshot from the session cache.
	CachedSession(ctx context.Context, kind domain.PrincipalKind, principalID string) (*domain.SessionRecord, error)
	// Forget drops the cached snapshot, e.g. on logout.
	Forget(ctx context.Context, kind domain.PrincipalKind, principalID string)
}

package services

import (
	"context"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// AuthProvider is the credential and token half of authentication.
type AuthProvider interface {
	// HashSecret produces the stored form of a password at sign-up.
	HashSecret(secret string) (string, error)
	// SignIn checks email and secret and returns the matching credential.
	SignIn(ctx context.Context, kind domain.PrincipalKind, email, secret string) (*domain.Credential, error)
	// SignOut revokes every token of the principal and notifies subscribers.
	SignOut(ctx context.Context, kind domain.PrincipalKind, principalID string) error
	// Subscribe registers an auth-state listener. The returned func removes it.
	Subscribe(listener func(domain.AuthStateEvent)) (unsubscribe func())
	IssueToken(ctx context.Context, cred domain.Credential) (string, time.Time, error)
	// VerifyToken checks signature, expiry and that the token version is still current.
	VerifyToken(ctx context.Context, token string) (*domain.SessionClaims, error)
	// ForceTokenRefresh re-issues a token for still-valid claims.
	ForceTokenRefresh(ctx context.Context, claims domain.SessionClaims) (string, time.Time, error)
}

// LoginResult is what a successful login hands back.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Principal domain.Principal
}

// AuthSvcFacade adds status-aware login on top of the provider.
type AuthSvcFacade interface {
	AuthProvider
	// Login signs in and refuses principals that are not in good standing.
	Login(ctx context.Context, kind domain.PrincipalKind, email, password string) (*LoginResult, error)
	// LoginAdminByEmail issues an admin session for an externally verified email.
	LoginAdminByEmail(ctx context.Context, email string) (*LoginResult, error)
}

// GoogleOAuthSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthSvcFacade interface {
	// AuthCodeURL builds the Google consent URL carrying state.
	AuthCodeURL(state string) string
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// ValidateGoogleIDToken validates an ID token string from Google and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
}

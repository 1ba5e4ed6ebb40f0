package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/platform/config"
	"github.com/SscSPs/loan_desk_app/internal/utils"
)

// authService authenticates all three principal kinds against the credentials
// stored on their own records and issues versioned JWTs.
type authService struct {
	BaseService
	cfg         *config.Config
	credentials portsrepo.CredentialRepository
	loader      principalLoader

	mu        sync.RWMutex
	nextID    uint64
	listeners map[uint64]func(domain.AuthStateEvent)
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, repos portsrepo.RepositoryProvider) *authService {
	return &authService{
		cfg:         cfg,
		credentials: repos.CredentialRepo,
		loader: principalLoader{
			companies: repos.CompanyRepo,
			employees: repos.EmployeeRepo,
			admins:    repos.AdminRepo,
		},
		listeners: make(map[uint64]func(domain.AuthStateEvent)),
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) HashSecret(secret string) (string, error) {
	return utils.HashPassword(secret)
}

func (s *authService) SignIn(ctx context.Context, kind domain.PrincipalKind, email, secret string) (*domain.Credential, error) {
	cred, err := s.checkSecret(ctx, kind, email, secret)
	if err != nil {
		return nil, err
	}
	s.notify(domain.AuthStateEvent{Kind: kind, PrincipalID: cred.PrincipalID, SignedIn: true})
	return cred, nil
}

func (s *authService) checkSecret(ctx context.Context, kind domain.PrincipalKind, email, secret string) (*domain.Credential, error) {
	cred, err := s.credentials.FindCredentialByEmail(ctx, kind, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("invalid email or password")
		}
		s.LogError(ctx, err, "Failed to look up credential", slog.String("kind", string(kind)))
		return nil, err
	}
	if cred.PasswordHash == "" || !utils.CheckPasswordHash(secret, cred.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("invalid email or password")
	}
	return cred, nil
}

// SignOut bumps the token version, which invalidates every token issued so far.
func (s *authService) SignOut(ctx context.Context, kind domain.PrincipalKind, principalID string) error {
	version, err := s.credentials.IncrementTokenVersion(ctx, kind, principalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to revoke tokens", slog.String("principal_id", principalID))
		}
		return err
	}
	s.LogInfo(ctx, "Principal signed out", slog.String("principal_id", principalID), slog.Int("token_version", version))
	s.notify(domain.AuthStateEvent{Kind: kind, PrincipalID: principalID, SignedIn: false})
	return nil
}

func (s *authService) Subscribe(listener func(domain.AuthStateEvent)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *authService) notify(event domain.AuthStateEvent) {
	s.mu.RLock()
	listeners := make([]func(domain.AuthStateEvent), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(event)
	}
}

func (s *authService) IssueToken(ctx context.Context, cred domain.Credential) (string, time.Time, error) {
	claims := domain.SessionClaims{Kind: cred.Kind, PrincipalID: cred.PrincipalID, TokenVersion: cred.TokenVersion}
	token, expiresAt, err := utils.GenerateJWT(claims, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token", slog.String("principal_id", cred.PrincipalID))
		return "", time.Time{}, apperrors.NewInternalServerError("failed to issue token")
	}
	return token, expiresAt, nil
}

// VerifyToken checks the signature and expiry, then that the token version still
// matches the stored one.
func (s *authService) VerifyToken(ctx context.Context, token string) (*domain.SessionClaims, error) {
	if token == "" {
		return nil, apperrors.NewUnauthorizedError("missing token")
	}
	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret, s.cfg.JWTIssuer)
	if err != nil {
		s.LogDebug(ctx, "Token rejected", slog.String("error", err.Error()))
		return nil, apperrors.NewUnauthorizedError("invalid or expired token")
	}
	if _, err := s.currentCredential(ctx, *claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *authService) currentCredential(ctx context.Context, claims domain.SessionClaims) (*domain.Credential, error) {
	cred, err := s.credentials.FindCredentialByID(ctx, claims.Kind, claims.PrincipalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("account no longer exists")
		}
		return nil, err
	}
	if cred.TokenVersion != claims.TokenVersion {
		return nil, apperrors.NewUnauthorizedError("token has been revoked")
	}
	return cred, nil
}

func (s *authService) ForceTokenRefresh(ctx context.Context, claims domain.SessionClaims) (string, time.Time, error) {
	cred, err := s.currentCredential(ctx, claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return s.IssueToken(ctx, *cred)
}

// Login signs in and refuses principals that are not in good standing.
func (s *authService) Login(ctx context.Context, kind domain.PrincipalKind, email, password string) (*portssvc.LoginResult, error) {
	cred, err := s.checkSecret(ctx, kind, email, password)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, *cred)
}

// LoginAdminByEmail starts an admin session for an email already verified by Google.
func (s *authService) LoginAdminByEmail(ctx context.Context, email string) (*portssvc.LoginResult, error) {
	cred, err := s.credentials.FindCredentialByEmail(ctx, domain.PrincipalAdmin, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("no admin account for this email")
		}
		return nil, err
	}
	return s.startSession(ctx, *cred)
}

func (s *authService) startSession(ctx context.Context, cred domain.Credential) (*portssvc.LoginResult, error) {
	st, err := s.loader.load(ctx, cred.Kind, cred.PrincipalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("invalid email or password")
		}
		return nil, err
	}
	if st.Denial != "" {
		s.LogInfo(ctx, "Login refused", slog.String("principal_id", cred.PrincipalID), slog.String("reason", st.Denial))
		return nil, apperrors.NewForbiddenError(st.Denial)
	}

	token, expiresAt, err := s.IssueToken(ctx, cred)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Principal logged in", slog.String("principal_id", cred.PrincipalID), slog.String("kind", string(cred.Kind)))
	s.notify(domain.AuthStateEvent{Kind: cred.Kind, PrincipalID: cred.PrincipalID, SignedIn: true})
	return &portssvc.LoginResult{Token: token, ExpiresAt: expiresAt, Principal: st.Principal}, nil
}

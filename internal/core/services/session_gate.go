package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
)

// DefaultSessionCacheTTL is used when the gate is built without a TTL.
const DefaultSessionCacheTTL = 30 * time.Minute

// sessionGate re-validates every session against the canonical store. The
// session cache is written for display purposes and never read for a decision.
type sessionGate struct {
	BaseService
	auth     portssvc.AuthProvider
	loader   principalLoader
	cache    portsrepo.SessionCache
	cacheTTL time.Duration
}

// NewSessionGate creates the gate. cache may be nil.
func NewSessionGate(auth portssvc.AuthProvider, repos portsrepo.RepositoryProvider, cache portsrepo.SessionCache, cacheTTL time.Duration) *sessionGate {
	if cacheTTL <= 0 {
		cacheTTL = DefaultSessionCacheTTL
	}
	return &sessionGate{
		auth: auth,
		loader: principalLoader{
			companies: repos.CompanyRepo,
			employees: repos.EmployeeRepo,
			admins:    repos.AdminRepo,
		},
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

var _ portssvc.SessionGateSvc = (*sessionGate)(nil)

func loginPathFor(kind domain.PrincipalKind) string {
	if kind == "" {
		return "/login"
	}
	return domain.LoginPath(kind)
}

func (g *sessionGate) Resolve(ctx context.Context, required domain.PrincipalKind, token string) domain.Decision {
	claims, err := g.auth.VerifyToken(ctx, token)
	if err != nil {
		reason := "session could not be verified"
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && errors.Is(err, apperrors.ErrUnauthorized) {
			reason = appErr.Message
		} else {
			g.LogError(ctx, err, "Failed to verify session token")
		}
		return domain.Decision{State: domain.GateUnauthenticated, Redirect: loginPathFor(required), Reason: reason}
	}

	st, err := g.loader.load(ctx, claims.Kind, claims.PrincipalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			g.evict(ctx, claims.Kind, claims.PrincipalID)
			return domain.Decision{State: domain.GateUnauthenticated, Redirect: loginPathFor(required), Reason: "account no longer exists"}
		}
		g.LogError(ctx, err, "Failed to re-read session principal", slog.String("principal_id", claims.PrincipalID))
		return domain.Decision{State: domain.GateUnauthenticated, Redirect: loginPathFor(required), Reason: "session could not be verified"}
	}
	principal := st.Principal

	if required != "" && claims.Kind != required {
		return domain.Decision{
			State:     domain.GateUnauthorized,
			Principal: &principal,
			Redirect:  domain.DashboardPath(claims.Kind),
			Reason:    "signed in as " + string(claims.Kind),
		}
	}
	if st.Denial != "" {
		g.evict(ctx, claims.Kind, claims.PrincipalID)
		return domain.Decision{
			State:     domain.GateUnauthorized,
			Principal: &principal,
			Redirect:  domain.LoginPath(claims.Kind),
			Reason:    st.Denial,
		}
	}

	g.refresh(ctx, domain.SessionRecord{Principal: principal, Status: st.Status})
	return domain.Decision{State: domain.GateAuthorized, Principal: &principal}
}

// Watch emits loading, then the first decision, then a new decision after every
// auth-state event of the watched principal. A resolution that finishes after a
// newer one was started is dropped.
func (g *sessionGate) Watch(ctx context.Context, required domain.PrincipalKind, token string, onDecision func(domain.Decision)) func() {
	ctx, cancel := context.WithCancel(ctx)

	var (
		mu         sync.Mutex
		generation atomic.Uint64
		subject    atomic.Pointer[string]
	)

	emit := func(gen uint64, d domain.Decision) {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil || gen != generation.Load() {
			return
		}
		if d.Principal != nil {
			key := domain.SessionCacheKey(d.Principal.Kind, d.Principal.ID)
			subject.Store(&key)
		}
		onDecision(d)
	}

	resolve := func() {
		gen := generation.Add(1)
		go func() {
			emit(gen, g.Resolve(ctx, required, token))
		}()
	}

	mu.Lock()
	onDecision(domain.Decision{State: domain.GateLoading})
	mu.Unlock()

	unsubscribe := g.auth.Subscribe(func(event domain.AuthStateEvent) {
		// Until the first decision names the principal, any event may concern it.
		if key := subject.Load(); key != nil && *key != domain.SessionCacheKey(event.Kind, event.PrincipalID) {
			return
		}
		resolve()
	})
	resolve()

	go func() {
		<-ctx.Done()
		unsubscribe()
	}()

	return func() {
		cancel()
		unsubscribe()
	}
}

func (g *sessionGate) CachedSession(ctx context.Context, kind domain.PrincipalKind, principalID string) (*domain.SessionRecord, error) {
	if g.cache == nil {
		return nil, apperrors.NewNotFoundError("no cached session")
	}
	return g.cache.Get(ctx, domain.SessionCacheKey(kind, principalID))
}

func (g *sessionGate) Forget(ctx context.Context, kind domain.PrincipalKind, principalID string) {
	g.evict(ctx, kind, principalID)
}

func (g *sessionGate) refresh(ctx context.Context, record domain.SessionRecord) {
	if g.cache == nil {
		return
	}
	key := domain.SessionCacheKey(record.Principal.Kind, record.Principal.ID)
	if err := g.cache.Set(ctx, key, record, g.cacheTTL); err != nil {
		g.LogError(ctx, err, "Failed to refresh session cache", slog.String("key", key))
	}
}

func (g *sessionGate) evict(ctx context.Context, kind domain.PrincipalKind, principalID string) {
	if g.cache == nil {
		return
	}
	key := domain.SessionCacheKey(kind, principalID)
	if err := g.cache.Remove(ctx, key); err != nil {
		g.LogError(ctx, err, "Failed to evict session cache", slog.String("key", key))
	}
}

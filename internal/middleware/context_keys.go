package middleware

import (
	"context"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const (
	principalKey = contextKey("principal")
	tokenKey     = contextKey("token")
)

// WithPrincipal returns a copy of ctx carrying the re-validated principal.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipalFromCtx retrieves the principal placed by AuthMiddleware.
func GetPrincipalFromCtx(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

// GetPrincipalFromContext retrieves the authenticated principal from the Gin context.
// It returns the principal and a boolean indicating if it was found.
func GetPrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	if v, exists := c.Get(string(principalKey)); exists {
		p, ok := v.(domain.Principal)
		return p, ok
	}
	return GetPrincipalFromCtx(c.Request.Context())
}

// GetTokenFromContext returns the bearer token that authenticated the request.
func GetTokenFromContext(c *gin.Context) (string, bool) {
	token, ok := c.Get(string(tokenKey))
	if !ok {
		return "", false
	}
	s, ok := token.(string)
	return s, ok
}

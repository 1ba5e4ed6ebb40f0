package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

var (
	errMissingAuthHeader = errors.New("authorization header required")
	errBadAuthHeader     = errors.New("authorization header format must be Bearer {token}")
)

// BearerToken extracts the token from "Authorization: Bearer <token>". Browsers'
// EventSource cannot set headers, so an access_token query parameter is accepted too.
func BearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("access_token"); token != "" {
			return token, nil
		}
		return "", errMissingAuthHeader
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", errBadAuthHeader
	}
	return parts[1], nil
}

// RequirePrincipal gates a route group on the session gate. With exactly one kind the
// gate checks it directly; with several (or none) any of them is accepted.
func RequirePrincipal(gate portssvc.SessionGateSvc, kinds ...domain.PrincipalKind) gin.HandlerFunc {
	var required domain.PrincipalKind
	if len(kinds) == 1 {
		required = kinds[0]
	}
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		token, err := BearerToken(c)
		if err != nil {
			logger.Warn("Missing or malformed bearer token", slog.String("error", err.Error()))
			loginKind := required
			if loginKind == "" && len(kinds) > 0 {
				loginKind = kinds[0]
			}
			redirect := ""
			if loginKind != "" {
				redirect = domain.LoginPath(loginKind)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "redirect": redirect})
			return
		}

		decision := gate.Resolve(c.Request.Context(), required, token)
		if decision.Authorized() && len(kinds) > 1 && !slices.Contains(kinds, decision.Principal.Kind) {
			decision = domain.Decision{
				State:    domain.GateUnauthorized,
				Redirect: domain.DashboardPath(decision.Principal.Kind),
				Reason:   "this area is not available to " + string(decision.Principal.Kind) + " accounts",
			}
		}

		switch decision.State {
		case domain.GateAuthorized:
		case domain.GateUnauthorized:
			logger.Warn("Session not authorized", slog.String("reason", decision.Reason))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": decision.Reason, "redirect": decision.Redirect})
			return
		default:
			logger.Warn("Session not authenticated", slog.String("reason", decision.Reason))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": decision.Reason, "redirect": decision.Redirect})
			return
		}

		principal := *decision.Principal
		enrichedLogger := logger.With(
			slog.String("principal_id", principal.ID),
			slog.String("principal_kind", string(principal.Kind)),
		)
		ctx := WithPrincipal(c.Request.Context(), principal)
		ctx = WithLogger(ctx, enrichedLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(principalKey), principal)
		c.Set(string(loggerKey), enrichedLogger)
		c.Set(string(tokenKey), token)

		c.Next()
	}
}

// RequirePermission aborts with 403 unless the company principal's role grants the
// capability. Admin principals always pass. Must run after RequirePrincipal.
func RequirePermission(name string, check func(domain.Permissions) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipalFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if principal.IsAdmin() || check(principal.Permissions()) {
			c.Next()
			return
		}
		GetLoggerFromCtx(c.Request.Context()).Warn("Permission denied", slog.String("permission", name))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "your role does not allow " + name})
	}
}

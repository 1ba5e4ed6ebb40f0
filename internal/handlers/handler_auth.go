package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/middleware"
	"github.com/SscSPs/loan_desk_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// authHandler handles login, logout and token refresh for all principal kinds.
type authHandler struct {
	auth    portssvc.AuthSvcFacade
	gate    portssvc.SessionGateSvc
	posthog *utils.PosthogClientWrapper
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(r *gin.Engine, services *portssvc.ServiceContainer, limit gin.HandlerFunc, posthog *utils.PosthogClientWrapper) {
	h := &authHandler{auth: services.Auth, gate: services.Gate, posthog: posthog}
	google := newGoogleOAuthHandler(services.GoogleOAuth, services.Auth)

	auth := r.Group("/auth")
	{
		auth.POST("/company/login", limit, h.login(domain.PrincipalCompany))
		auth.POST("/employee/login", limit, h.login(domain.PrincipalEmployee))
		auth.POST("/admin/login", limit, h.login(domain.PrincipalAdmin))
		auth.GET("/admin/google/start", google.start)
		auth.POST("/admin/google/exchange-code", limit, google.exchangeCode)

		session := auth.Group("", middleware.RequirePrincipal(services.Gate))
		session.POST("/logout", h.logout)
		session.POST("/refresh", h.refresh)
	}
}

// login godoc
// @Summary Sign in
// @Description Authenticates a company, employee or admin. Pending, rejected or unverified accounts are refused with 403.
// @Tags auth
// @Accept json
// @Produce json
// @Param kind path string true "company, employee or admin"
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Account not in good standing"
// @Failure 429 {object} ErrorResponse
// @Router /auth/{kind}/login [post]
func (h *authHandler) login(kind domain.PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginRequest
		if !bindJSON(c, &req) {
			return
		}

		result, err := h.auth.Login(c.Request.Context(), kind, req.Email, req.Password)
		if err != nil {
			respondError(c, err, "Failed to log in")
			return
		}

		middleware.PosthogEvent(c, h.posthog, result.Principal.ID, "login", map[string]any{"principal_kind": string(kind)})
		middleware.GetLoggerFromCtx(c.Request.Context()).Info("Principal logged in",
			slog.String("principal_id", result.Principal.ID),
			slog.String("principal_kind", string(kind)))
		c.JSON(http.StatusOK, dto.LoginResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
			Principal: result.Principal,
			Redirect:  domain.DashboardPath(kind),
		})
	}
}

// logout godoc
// @Summary Sign out
// @Description Revokes every outstanding token of the signed-in principal.
// @Tags auth
// @Produce json
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	if err := h.auth.SignOut(c.Request.Context(), principal.Kind, principal.ID); err != nil {
		respondError(c, err, "Failed to log out")
		return
	}
	h.gate.Forget(c.Request.Context(), principal.Kind, principal.ID)
	c.Status(http.StatusNoContent)
}

// refresh godoc
// @Summary Refresh the access token
// @Tags auth
// @Produce json
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	token, ok := middleware.GetTokenFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	claims, err := h.auth.VerifyToken(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "Failed to verify token")
		return
	}
	fresh, expiresAt, err := h.auth.ForceTokenRefresh(c.Request.Context(), *claims)
	if err != nil {
		respondError(c, err, "Failed to refresh token")
		return
	}
	c.JSON(http.StatusOK, dto.RefreshTokenResponse{Token: fresh, ExpiresAt: expiresAt})
}

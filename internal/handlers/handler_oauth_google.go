package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	"github.com/SscSPs/loan_desk_app/internal/dto"
	"github.com/SscSPs/loan_desk_app/internal/middleware"
	"github.com/SscSPs/loan_desk_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// googleOAuthHandler lets platform admins sign in with their Google account.
// Only emails that already belong to an admin record are accepted.
type googleOAuthHandler struct {
	google portssvc.GoogleOAuthSvcFacade
	auth   portssvc.AuthSvcFacade
}

func newGoogleOAuthHandler(google portssvc.GoogleOAuthSvcFacade, auth portssvc.AuthSvcFacade) *googleOAuthHandler {
	return &googleOAuthHandler{google: google, auth: auth}
}

const oauthStateBytes = 16

// start godoc
// @Summary Begin Google sign-in for platform admins
// @Tags auth
// @Produce json
// @Success 200 {object} dto.GoogleStartResponse
// @Router /auth/admin/google/start [get]
func (h *googleOAuthHandler) start(c *gin.Context) {
	state, err := utils.GenerateSecureRandomString(oauthStateBytes)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to generate oauth state", slog.String("error", err.Error()))
		appErr := apperrors.NewInternalServerError("Failed to start Google sign-in")
		c.JSON(appErr.Code, appErr)
		return
	}
	c.JSON(http.StatusOK, dto.GoogleStartResponse{URL: h.google.AuthCodeURL(state), State: state})
}

// exchangeCode godoc
// @Summary Exchange a Google authorization code for an admin session
// @Tags auth
// @Accept json
// @Produce json
// @Param code body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid authorization code"
// @Failure 401 {object} map[string]string "Not an admin account"
// @Failure 504 {object} map[string]string "Google unreachable"
// @Router /auth/admin/google/exchange-code [post]
func (h *googleOAuthHandler) exchangeCode(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnContext(ctx, "Failed to bind JSON for exchange code request", slog.String("error", err.Error()))
		appErr := apperrors.NewBadRequestError("Invalid request payload: " + err.Error())
		c.JSON(appErr.Code, appErr)
		return
	}

	oauth2Token, err := h.google.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		appErr := apperrors.NewGatewayTimeoutError("Failed to communicate with Google OAuth service.")
		lower := strings.ToLower(err.Error())
		if strings.Contains(lower, "invalid_grant") || strings.Contains(lower, "bad request") {
			appErr = apperrors.NewBadRequestError("Invalid or expired authorization code provided by Google.")
		}
		c.JSON(appErr.Code, appErr)
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.ErrorContext(ctx, "ID token not found in Google's token response")
		appErr := apperrors.NewInternalServerError("Failed to retrieve ID token from Google.")
		c.JSON(appErr.Code, appErr)
		return
	}

	payload, err := h.google.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.WarnContext(ctx, "Google ID token validation failed", slog.String("error", err.Error()))
		appErr := apperrors.NewUnauthorizedError("Invalid Google ID token")
		c.JSON(appErr.Code, appErr)
		return
	}

	email, _ := payload.Claims["email"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || !emailVerified {
		appErr := apperrors.NewUnauthorizedError("Google account email is missing or unverified")
		c.JSON(appErr.Code, appErr)
		return
	}

	result, err := h.auth.LoginAdminByEmail(ctx, email)
	if err != nil {
		respondError(c, err, "Failed to start admin session")
		return
	}

	logger.InfoContext(ctx, "Admin signed in via Google", slog.String("admin_id", result.Principal.ID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Principal: result.Principal,
		Redirect:  domain.DashboardPath(domain.PrincipalAdmin),
	})
}

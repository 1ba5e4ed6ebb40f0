package dto

import (
	"time"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
)

// LoginRequest is shared by the company, employee and admin login routes.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Principal domain.Principal `json:"principal"`
	Redirect  string           `json:"redirect"`
}

// RefreshTokenResponse represents the response for a successful token refresh.
type RefreshTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GoogleStartResponse carries the consent URL and the state the SPA must check on callback.
type GoogleStartResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// ExchangeCodeRequest defines the expected JSON body for the Google exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// SessionResponse returns the live decision and the cached display snapshot.
type SessionResponse struct {
	Decision    domain.Decision       `json:"decision"`
	Permissions domain.Permissions    `json:"permissions"`
	Cached      *domain.SessionRecord `json:"cached,omitempty"`
}

// CreateAdminRequest defines data for adding another platform admin.
type CreateAdminRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

package utils

import (
	"testing"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	claims := domain.SessionClaims{Kind: domain.PrincipalEmployee, PrincipalID: "emp-1", TokenVersion: 3}

	token, expiresAt, err := GenerateJWT(claims, "secret", time.Hour, "loan-desk")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	parsed, err := ParseAndValidateJWT(token, "secret", "loan-desk")
	require.NoError(t, err)
	assert.Equal(t, claims, *parsed)
}

func TestParseJWTRejectsBadTokens(t *testing.T) {
	claims := domain.SessionClaims{Kind: domain.PrincipalCompany, PrincipalID: "c-1", TokenVersion: 1}

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := GenerateJWT(claims, "secret", time.Hour, "loan-desk")
		require.NoError(t, err)
		_, err = ParseAndValidateJWT(token, "other", "loan-desk")
		assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		token, _, err := GenerateJWT(claims, "secret", -time.Minute, "loan-desk")
		require.NoError(t, err)
		_, err = ParseAndValidateJWT(token, "secret", "loan-desk")
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, _, err := GenerateJWT(claims, "secret", time.Hour, "someone-else")
		require.NoError(t, err)
		_, err = ParseAndValidateJWT(token, "secret", "loan-desk")
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("unknown kind", func(t *testing.T) {
		bad := domain.SessionClaims{Kind: "auditor", PrincipalID: "x", TokenVersion: 1}
		token, _, err := GenerateJWT(bad, "secret", time.Hour, "loan-desk")
		require.NoError(t, err)
		_, err = ParseAndValidateJWT(token, "secret", "loan-desk")
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidClaims)
	})
}

func TestFingerprintSeparatesParts(t *testing.T) {
	assert.Equal(t, Fingerprint("a", "b"), Fingerprint("a", "b"))
	assert.NotEqual(t, Fingerprint("ab", "c"), Fingerprint("a", "bc"))
	assert.Len(t, Fingerprint(), 64)
}

func TestFormatWithPrecision(t *testing.T) {
	v := decimal.RequireFromString("57.3333333333")
	assert.Equal(t, "57.33", FormatWithPrecision(v, 2))
	w := decimal.RequireFromString("172.5")
	assert.Equal(t, "172.5", FormatWithPrecision(w, 2))
	assert.Equal(t, "172.50", FormatFixed(w, 2))
}

func TestGenerateSecureRandomString(t *testing.T) {
	a, err := GenerateSecureRandomString(16)
	require.NoError(t, err)
	assert.Len(t, a, 32)
	b, err := GenerateSecureRandomString(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}

package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenClaims is the JWT payload of an access token. The subject is the
// principal id.
type SessionTokenClaims struct {
	Kind    string `json:"kind"`
	Version int    `json:"ver"`
	jwt.RegisteredClaims
}

// GenerateJWT generates a new JWT token for the given session claims and returns it
// with its expiry.
func GenerateJWT(claims domain.SessionClaims, secret string, expiryDuration time.Duration, issuer string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiryDuration)
	tokenClaims := SessionTokenClaims{
		Kind:    string(claims.Kind),
		Version: claims.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   claims.PrincipalID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAndValidateJWT parses a JWT token string, validates its signature and standard claims,
// and decodes the session claims. It does not check the token version against storage.
func ParseAndValidateJWT(tokenString string, secretKey string, issuer string) (*domain.SessionClaims, error) {
	claims := &SessionTokenClaims{}

	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	}, options...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	kind, err := domain.ParsePrincipalKind(claims.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", jwt.ErrTokenInvalidClaims, err)
	}
	if claims.Subject == "" {
		return nil, errors.Join(jwt.ErrTokenInvalidClaims, errors.New("subject missing"))
	}
	return &domain.SessionClaims{Kind: kind, PrincipalID: claims.Subject, TokenVersion: claims.Version}, nil
}

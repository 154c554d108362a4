// Package auth provides token-based authentication for the panel API.
// It implements JWT issuance and validation plus the gin middleware
// protecting every route behind the session gate.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Manager handles JWT token issuance and validation for the panel's
// single admin session.
type Manager struct {
	jwtSecret   string        // Secret key for token signing and verification
	tokenExpiry time.Duration // Duration for which tokens remain valid
}

// Claims is the JWT claims structure for an authenticated admin session.
type Claims struct {
	Email string `json:"email"` // Admin email the token was issued to
	jwt.RegisteredClaims
}

// NewManager creates an authentication manager with the default 24 hour
// token expiry.
func NewManager(jwtSecret string) *Manager {
	return NewManagerWithExpiry(jwtSecret, 24*time.Hour)
}

// NewManagerWithExpiry creates an authentication manager with a custom
// token expiry duration.
func NewManagerWithExpiry(jwtSecret string, tokenExpiry time.Duration) *Manager {
	return &Manager{
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

// GenerateToken creates a signed JWT for the given admin email.
// The token expires after the configured duration.
// Returns the signed token string and its expiry time.
func (m *Manager) GenerateToken(email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.tokenExpiry)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "nexus-panel",
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(m.jwtSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken parses and validates a JWT token string.
// It verifies the signature, expiry, and signing method.
// Returns the parsed claims if the token is valid.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}

package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	AccountID uuid.UUID
	jwt.RegisteredClaims
}

// SessionToken is a freshly signed token and the instant it stops being valid.
type SessionToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenService issues and validates session tokens.
type TokenService interface {
	// Issue signs a token bound to accountID.
	Issue(accountID uuid.UUID) (*SessionToken, error)

	// Validate checks signature and expiry and returns the bound claims.
	Validate(token string) (*SessionClaims, error)

	// TTL returns the configured token lifetime.
	TTL() time.Duration
}

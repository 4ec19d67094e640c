// Package auth validates the session tokens issued by the login flow.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultTokenLifetime matches the lifetime of tokens issued at login.
const DefaultTokenLifetime = 7 * 24 * time.Hour

// JWTService issues and validates HMAC-signed session tokens.
type JWTService interface {
	// GenerateToken signs a token for userID valid for the service lifetime.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks signature and expiry and returns the claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a session token.
type Claims struct {
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

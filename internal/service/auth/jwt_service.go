// Package auth issues and validates the bearer tokens that identify task
// owners.
package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT whose subject is ownerID.
	GenerateToken(ctx context.Context, ownerID int64) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a token.
type Claims struct {
	// OwnerID is parsed from the subject claim.
	OwnerID   int64
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

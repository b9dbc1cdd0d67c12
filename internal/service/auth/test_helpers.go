package auth

import "time"

// NewTestJWTService creates a JWT service with an injected clock for tests.
func NewTestJWTService(secret string, lifetime time.Duration, now func() time.Time) JWTService {
	return newHMACJWTService(secret, lifetime, now)
}

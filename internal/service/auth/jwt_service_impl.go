package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/tasktrack/internal/config"
	"github.com/phrazzld/tasktrack/internal/platform/logger"
)

// MinSecretLength is the shortest accepted HMAC signing secret.
const MinSecretLength = 32

// hmacJWTService is an implementation of JWTService using HMAC-SHA signing.
type hmacJWTService struct {
	signingKey    []byte
	tokenLifetime time.Duration
	timeFunc      func() time.Time // Injectable for testing
	clockSkew     time.Duration    // Allowed time difference for validation to handle clock drift
}

// Ensure hmacJWTService implements JWTService interface
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA256 signing.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	}
	lifetime := time.Duration(cfg.TokenLifetimeMinutes) * time.Minute
	if lifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive")
	}

	return newHMACJWTService(cfg.JWTSecret, lifetime, time.Now), nil
}

func newHMACJWTService(secret string, lifetime time.Duration, now func() time.Time) *hmacJWTService {
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      now,
		clockSkew:     2 * time.Minute,
	}
}

// GenerateToken creates a signed JWT for ownerID.
func (s *hmacJWTService) GenerateToken(ctx context.Context, ownerID int64) (string, error) {
	log := logger.FromContext(ctx)
	if ownerID <= 0 {
		return "", fmt.Errorf("owner id must be positive, got %d", ownerID)
	}
	now := s.timeFunc()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(ownerID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
		ID:        uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT",
			"error", err,
			"owner_id", ownerID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT and returns its claims.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "error", err)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			log.Debug("token validation failed: token not yet valid", "error", err)
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("token validation failed",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	ownerID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || ownerID <= 0 {
		log.Debug("token validation failed: subject is not an owner id",
			"subject", claims.Subject)
		return nil, ErrInvalidToken
	}

	result := &Claims{
		OwnerID:   ownerID,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}

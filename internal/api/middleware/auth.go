package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/tasktrack/internal/api/shared"
	"github.com/phrazzld/tasktrack/internal/platform/logger"
	"github.com/phrazzld/tasktrack/internal/redact"
	"github.com/phrazzld/tasktrack/internal/service/auth"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates the bearer token from the Authorization header and
// adds the token's owner ID to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r.Header.Get("Authorization"))
		switch {
		case errors.Is(err, auth.ErrMissingToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		case err != nil:
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				logger.FromContext(r.Context()).Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := shared.SetOwnerID(r.Context(), claims.OwnerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}

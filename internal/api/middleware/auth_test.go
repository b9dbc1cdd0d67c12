package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasktrack/internal/api/shared"
	"github.com/phrazzld/tasktrack/internal/mocks"
	"github.com/phrazzld/tasktrack/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	tests := []struct {
		name            string
		authHeader      string
		validateErr     error
		claims          *auth.Claims
		expectedStatus  int
		expectedOwnerID int64
	}{
		{
			name:            "valid token",
			authHeader:      "Bearer valid-token",
			claims:          &auth.Claims{OwnerID: 9},
			expectedStatus:  http.StatusOK,
			expectedOwnerID: 9,
		},
		{
			name:            "lowercase scheme",
			authHeader:      "bearer valid-token",
			claims:          &auth.Claims{OwnerID: 9},
			expectedStatus:  http.StatusOK,
			expectedOwnerID: 9,
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unexpected validation failure",
			authHeader:     "Bearer some-token",
			validateErr:    errors.New("keystore offline"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := &mocks.MockJWTService{
				ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
					return tt.claims, tt.validateErr
				},
			}
			mw := NewAuthMiddleware(jwtService)

			var gotOwner int64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotOwner, _ = shared.GetOwnerID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedOwnerID, gotOwner)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "scheme case-insensitive", header: "bearer abc", want: "abc"},
		{name: "empty header", header: "", wantErr: auth.ErrMissingToken},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: auth.ErrInvalidToken},
		{name: "scheme only", header: "Bearer ", wantErr: auth.ErrInvalidToken},
		{name: "no separator", header: "Bearer", wantErr: auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := bearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

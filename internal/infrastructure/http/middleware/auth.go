package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/weeklydish/planner/internal/infrastructure/security"
	"github.com/weeklydish/planner/pkg/errors"
	"go.uber.org/zap"
)

// TokenValidator parses bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*security.Claims, error)
}

// AuthenticateAPI requires a valid bearer token and stores its user id in the
// request context
func AuthenticateAPI(validator TokenValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, errors.NewUnauthorizedError("Authorization header required"))
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				WriteError(w, r, errors.NewUnauthorizedError("Invalid authorization header format"))
				return
			}

			claims, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("Rejected bearer token",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err),
				)
				WriteError(w, r, errors.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// WithUserID returns a context carrying the authenticated user id
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts user ID from request context
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

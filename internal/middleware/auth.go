package middleware

import (
	"net/http"
	"strings"

	"mini-bookstore/internal/auth"
	"mini-bookstore/internal/model"

	"github.com/rs/zerolog"
)

// BearerAuth validates the JWT in the Authorization header and stores its claims in the request context.
func BearerAuth(tokens *auth.TokenManager, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing bearer token")
				writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Access token required")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("invalid bearer token")
				writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin rejects callers whose token does not carry the admin role. It must run after BearerAuth.
func RequireAdmin(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.FromContext(r.Context())
			if !ok || !claims.IsAdmin() {
				logger.Warn().Str("path", r.URL.Path).Str("user_id", auth.UserID(r.Context())).Msg("admin access denied")
				writeError(w, r, http.StatusForbidden, model.ErrCodeForbidden, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

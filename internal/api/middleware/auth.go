package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/quotedesk/quotebot/internal/api/shared"
	"github.com/quotedesk/quotebot/internal/platform/logger"
)

// TokenVerifier checks a bearer token presented by Google Chat.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) error
}

// AuthMiddleware rejects webhook calls that do not carry a valid Google
// Chat ID token. A missing or malformed Authorization header is a 401; a
// token that fails verification is a 403.
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates an AuthMiddleware around the given verifier.
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate validates the Authorization header before passing the
// request on.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid Header Format")
			return
		}

		if err := m.verifier.Verify(r.Context(), parts[1]); err != nil {
			logger.FromContextOrDefault(r.Context(), slog.Default()).Warn("rejected webhook token",
				slog.String("error", err.Error()))
			shared.RespondWithError(w, r, http.StatusForbidden, "Invalid Token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rachit/chat-backend/internal/models"
)

// TokenStore resolves a session token to its user.
type TokenStore interface {
	FindByToken(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth validates the bearer token against the user table, checks the
// token has not expired, and injects the user_id into the request context.
// Possession of an unexpired token is the only notion of "logged in".
func RequireAuth(users TokenStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			user, err := users.FindByToken(r.Context(), token)
			if err != nil || user == nil {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}
			if user.TokenExpiresAt <= time.Now().Unix() {
				http.Error(w, `{"error":"session expired"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", user.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zynordev/okurundan/internal/identity"
	"github.com/zynordev/okurundan/internal/models"
)

type contextKey string

const userKey contextKey = "user"

// Auth resolves the Authorization header through the given resolver and
// attaches the user to the request context. An unresolvable credential ends
// the request with 401 and no side effects.
func Auth(resolver identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := resolver.Resolve(r.Header.Get("Authorization"))
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"message": "Yetkisiz erişim.",
				})
				return
			}
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom returns the user attached by Auth, or nil.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

package httpserver

import (
	"context"
	"net/http"
	"strings"

	"azurea_hotel/internal/auth"
	"azurea_hotel/internal/domain"
)

type ctxKey int

const actorKey ctxKey = iota

// Auth validates the Bearer token and stashes the acting user in the
// request context. Requests without a valid token never reach the handler.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				writeUnauthorized(w, "missing bearer token")
				return
			}
			claims, err := auth.ParseAccessToken(secret, strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}
			actor := domain.Actor{UserID: claims.UserID, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, actor)))
		})
	}
}

// RequireStaff gates the admin surface. Runs after Auth.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !actorFrom(r.Context()).Role.IsStaff() {
			writeError(w, domain.Forbiddenf("staff or admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func actorFrom(ctx context.Context) domain.Actor {
	a, _ := ctx.Value(actorKey).(domain.Actor)
	return a
}

package middleware

import (
	"net/http"
	"strings"

	"clubaereo/bitacora/internal/auth"
)

// AuthMiddleware validates the bearer token and stores the caller's claims
// in the request context.
func AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

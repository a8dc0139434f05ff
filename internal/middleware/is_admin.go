package middleware

import (
	"net/http"

	"clubaereo/bitacora/internal/auth"
	"clubaereo/bitacora/internal/constants"
)

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if claims == nil || claims.Role() != constants.RoleAdmin.String() {
				http.Error(w, "Unauthorized. Need administrator perms", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

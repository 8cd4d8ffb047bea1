package httpx

import (
	"net/http"
	"slices"
)

const DetailPermissionDenied = "You do not have permission to perform this action."

// RequireRole lets the request through only when the authenticated caller
// holds one of roles. It must run after AuthnMiddleware.
func RequireRole(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeBearerError(w, DetailNotAuthenticated)
				return
			}

			if !slices.Contains(roles, claims.Role) {
				WriteDetail(w, http.StatusForbidden, DetailPermissionDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

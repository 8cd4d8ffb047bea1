package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/clinic/pkg/jwtx"
	"github.com/aussiebroadwan/clinic/pkg/slogx"
)

const (
	DetailNotAuthenticated = "Authentication credentials were not provided."
	DetailInvalidToken     = "Given token not valid for any token type"
)

// AuthnMiddleware requires a valid bearer token and puts its claims in the
// request context.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, DetailNotAuthenticated)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				writeBearerError(w, DetailInvalidToken)
				return
			}

			ctx = slogx.WithUser(ctx, claims.UserID, claims.Role)
			next.ServeHTTP(w, r.WithContext(withClaims(ctx, claims)))
		})
	}
}

// RFC 6750 challenge with a REST-framework style body.
func writeBearerError(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
	WriteDetail(w, http.StatusUnauthorized, detail)
}

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dmaloney/flatnote/internal/auth"
)

const authCookieName = "authtoken"

// RequireAuth validates the session token cookie and attaches the caller
// identity to the request context. Missing, malformed, and expired
// tokens are all rejected before any store access happens.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(authCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			ident, err := tokens.Validate(cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := auth.WithIdentity(r.Context(), ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}

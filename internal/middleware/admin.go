package middleware

import (
	"net/http"
	"strings"

	"github.com/tapgame/backend/internal/auth"
	"github.com/tapgame/backend/internal/http/respond"
)

// RequireAdmin rejects requests lacking a valid admin bearer token and
// stores the verified claims in the request context. Every failure path,
// including a role mismatch inside the token, gets an explicit 401.
func RequireAdmin(gate *auth.Gate, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respond.Error(w, http.StatusUnauthorized, "no token")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respond.Error(w, http.StatusUnauthorized, "no token")
			return
		}
		claims, err := gate.Verify(parts[1])
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapgame/backend/internal/auth"
)

func newTestGate() *auth.Gate {
	tokens := auth.NewTokenManager("middleware-test-secret", "game-backend-test", 12*time.Hour)
	return auth.NewGate("pw", "", tokens)
}

func TestRequireAdmin(t *testing.T) {
	gate := newTestGate()

	var sawClaims *auth.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawClaims = auth.ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireAdmin(gate, next)

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		for _, header := range []string{"Bearer", "Token abc"} {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Authorization", header)
			w := httptest.NewRecorder()
			guarded.ServeHTTP(w, r)
			assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer nonsense")
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token passes claims through", func(t *testing.T) {
		token, err := gate.Login("pw")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, sawClaims)
		assert.Equal(t, "admin", sawClaims.Role)
	})
}

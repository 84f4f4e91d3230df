package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newTestTokenManager(ttl time.Duration) *TokenManager {
	return NewTokenManager(testSecret, "game-backend-test", ttl)
}

func TestGenerateAndVerify(t *testing.T) {
	mgr := newTestTokenManager(12 * time.Hour)

	token, err := mgr.Generate()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := mgr.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "game-backend-test", claims.Issuer)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	mgr := newTestTokenManager(12 * time.Hour)
	forged := NewTokenManager("some-other-secret", "game-backend-test", 12*time.Hour)

	token, err := forged.Generate()
	require.NoError(t, err)

	_, err = mgr.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	expired := newTestTokenManager(-time.Minute)

	token, err := expired.Generate()
	require.NoError(t, err)

	_, err = newTestTokenManager(12 * time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsRoleMismatch(t *testing.T) {
	mgr := newTestTokenManager(12 * time.Hour)

	// Well-signed token, wrong role: must be rejected explicitly rather
	// than slipping through the guard.
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Role: "viewer",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = mgr.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	mgr := newTestTokenManager(12 * time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := mgr.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyRejectsUnexpectedSigningMethod(t *testing.T) {
	mgr := newTestTokenManager(12 * time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: "admin"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = mgr.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on a failed admin password check.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Gate performs the admin password check and hands out session tokens.
type Gate struct {
	password     string
	passwordHash string
	tokens       *TokenManager
}

// NewGate builds the admin gate. A non-empty bcrypt hash takes precedence
// over the plain password.
func NewGate(password, passwordHash string, tokens *TokenManager) *Gate {
	return &Gate{
		password:     password,
		passwordHash: passwordHash,
		tokens:       tokens,
	}
}

// Login verifies the supplied password and issues a session token. The
// plain-password path uses a constant-time comparison.
func (g *Gate) Login(password string) (string, error) {
	if password == "" {
		return "", ErrInvalidCredentials
	}
	if g.passwordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(g.passwordHash), []byte(password)); err != nil {
			return "", ErrInvalidCredentials
		}
	} else if subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) != 1 {
		return "", ErrInvalidCredentials
	}
	return g.tokens.Generate()
}

// Verify validates a bearer token string and returns its claims.
func (g *Gate) Verify(token string) (*Claims, error) {
	return g.tokens.Verify(token)
}

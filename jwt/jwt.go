// -------------------- jwt/jwt.go --------------------

// bearer tokens for the providers allowed to call the generate endpoint, the
// signing secret is reloaded from disk by fswatch

package jwtutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const Issuer = "prng"

var (
	ErrEmptySecret  = errors.New("jwt: empty secret")
	ErrInvalidToken = errors.New("jwt: invalid token")
)

type Claims struct {
	jwt.RegisteredClaims
}

// Authenticator issues and checks HS256 tokens. The secret may be swapped at
// runtime; tokens signed with the old secret stop validating.
type Authenticator struct {
	mu     sync.RWMutex
	secret []byte
}

func NewAuthenticator(secret []byte) (*Authenticator, error) {
	a := &Authenticator{}
	if err := a.SetSecret(secret); err != nil {
		return nil, err
	}
	return a, nil
}

// LoadSecret reads a secret file, ignoring surrounding whitespace.
func LoadSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	secret := []byte(strings.TrimSpace(string(data)))
	if len(secret) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptySecret)
	}
	return secret, nil
}

func (a *Authenticator) SetSecret(secret []byte) error {
	if len(secret) == 0 {
		return ErrEmptySecret
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.secret = append([]byte(nil), secret...)
	return nil
}

func (a *Authenticator) key() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.secret
}

func (a *Authenticator) GenerateToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.key())
}

func (a *Authenticator) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.key(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || !claims.VerifyIssuer(Issuer, true) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

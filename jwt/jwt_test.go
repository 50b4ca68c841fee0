package jwtutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_RoundTrip(t *testing.T) {
	a, err := NewAuthenticator([]byte("s3cret"))
	require.NoError(t, err)

	tok, err := a.GenerateToken("oracle-1", time.Hour)
	require.NoError(t, err)

	claims, err := a.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "oracle-1", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestToken_Expired(t *testing.T) {
	a, err := NewAuthenticator([]byte("s3cret"))
	require.NoError(t, err)

	tok, err := a.GenerateToken("oracle-1", -time.Minute)
	require.NoError(t, err)
	_, err = a.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestToken_SecretRotation(t *testing.T) {
	a, err := NewAuthenticator([]byte("old"))
	require.NoError(t, err)
	tok, err := a.GenerateToken("client", time.Hour)
	require.NoError(t, err)

	require.NoError(t, a.SetSecret([]byte("new")))
	_, err = a.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.ErrorIs(t, a.SetSecret(nil), ErrEmptySecret)
}

func TestToken_RejectsOtherAlgorithms(t *testing.T) {
	a, err := NewAuthenticator([]byte("s3cret"))
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer}})
	tok, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = a.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestToken_WrongIssuer(t *testing.T) {
	a, err := NewAuthenticator([]byte("s3cret"))
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "elsewhere"}})
	tok, err := foreign.SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = a.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLoadSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret")
	require.NoError(t, os.WriteFile(path, []byte("  abc \n"), 0o600))

	secret, err := LoadSecret(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), secret)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))
	_, err = LoadSecret(empty)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = NewAuthenticator(nil)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

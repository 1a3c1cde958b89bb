package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-signing-key")

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT(testKey, "owner-1", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(testKey, token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.AccountID())
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestValidateJWT_Expired(t *testing.T) {
	token, err := GenerateJWT(testKey, "owner-1", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(testKey, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateJWT_WrongKey(t *testing.T) {
	token, err := GenerateJWT([]byte("other-key"), "owner-1", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(testKey, token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestValidateJWT_Garbage(t *testing.T) {
	_, err := ValidateJWT(testKey, "not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateJWT_SubjectOnly(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   "acct-42",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testKey)
	require.NoError(t, err)

	claims, err := ValidateJWT(testKey, signed)
	require.NoError(t, err)
	assert.Equal(t, "acct-42", claims.AccountID())
}

func TestValidateJWT_MissingAccount(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testKey)
	require.NoError(t, err)

	_, err = ValidateJWT(testKey, signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

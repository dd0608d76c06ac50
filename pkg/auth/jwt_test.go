package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := NewJWTManager("secret", 1, 7)

	token, err := m.GenerateToken("user-1", "customer")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := NewJWTManager("secret", 1, 7)

	token, err := m.GenerateRefreshToken("user-1", "admin")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret", 1, 7).GenerateToken("user-1", "customer")
	require.NoError(t, err)

	_, err = NewJWTManager("other", 1, 7).ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestValidateToken_Expired(t *testing.T) {
	m := NewJWTManager("secret", 1, 7)

	claims := &Claims{
		UserID:    "user-1",
		TokenType: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	m := NewJWTManager("secret", 1, 7)

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1", TokenType: AccessToken}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

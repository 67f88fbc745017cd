package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken_RoundTrip(t *testing.T) {
	userID := uuid.New()
	secret := "test-secret"

	tokenString, err := NewAccessToken(userID, secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, userID.String(), claims.Subject)
}

func TestNewAccessToken_Expired(t *testing.T) {
	tokenString, err := NewAccessToken(uuid.New(), "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestNewAccessToken_WrongSecretRejected(t *testing.T) {
	tokenString, err := NewAccessToken(uuid.New(), "right-secret", time.Hour)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	require.Error(t, err)
}

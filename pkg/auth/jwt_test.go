package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndParse(t *testing.T) {
	// Arrange
	jwtService, err := NewJWTService("test-secret", 1)
	require.NoError(t, err)

	// Act
	token, err := jwtService.GenerateToken(42, "alice", "admin")
	require.NoError(t, err)

	claims, err := jwtService.ParseToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTService_ParseToken_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService("secret-one", 1)
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-two", 1)
	require.NoError(t, err)

	token, err := issuer.GenerateToken(1, "alice", "user")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err, "Токен с чужой подписью должен отвергаться")
}

func TestNewJWTService_EmptySecret(t *testing.T) {
	_, err := NewJWTService("", 1)
	assert.Error(t, err)
}

package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_BeforeSave_HashesPassword(t *testing.T) {
	// Arrange
	user := &User{Username: "alice", Password: "secret123"}

	// Act
	err := user.BeforeSave(nil)

	// Assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(user.Password, "$2"), "Пароль должен быть bcrypt-хешем")
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestUser_BeforeSave_SkipsAlreadyHashed(t *testing.T) {
	// Arrange
	user := &User{Username: "alice", Password: "secret123"}
	require.NoError(t, user.BeforeSave(nil))
	hashed := user.Password

	// Act: повторное сохранение не должно хешировать хеш
	err := user.BeforeSave(nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, hashed, user.Password)
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}

package utils_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/utils"
)

func TestGenerateAndParseToken(t *testing.T) {
	userID := uuid.New()

	token, err := utils.GenerateToken("secret", userID, "a@b.com", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := utils.ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := utils.GenerateToken("secret", uuid.New(), "a@b.com", "user", time.Hour)
	require.NoError(t, err)

	_, err = utils.ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := utils.GenerateToken("secret", uuid.New(), "a@b.com", "user", -time.Minute)
	require.NoError(t, err)

	_, err = utils.ParseToken("secret", token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := utils.ParseToken("secret", "not-a-token")
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := utils.HashPassword("Secret1!")
	require.NoError(t, err)

	assert.True(t, utils.CheckPassword(hash, "Secret1!"))
	assert.False(t, utils.CheckPassword(hash, "secret1!"))
}

package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/srvk/hardware-rental/internal/utils"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := utils.HashPassword("hunter2", 4)
	assert.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, utils.VerifyPassword(hash, "hunter2"))
	assert.False(t, utils.VerifyPassword(hash, "hunter3"))
	assert.False(t, utils.VerifyPassword("not-a-hash", "hunter2"))
}

func TestNewAccessTokenClaims(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 42, "ADMIN", 15)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 5*time.Second)

	parsed, err := jwt.Parse(tok.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "ADMIN", claims["role"])
}

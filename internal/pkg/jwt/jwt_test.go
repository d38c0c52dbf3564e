package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateAccessToken("user-123", "guest@example.com", "authenticated", "secret", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "guest@example.com", claims.Email)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("user-123", "guest@example.com", "authenticated", "secret", time.Minute)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateExpired(t *testing.T) {
	token, err := GenerateAccessToken("user-123", "guest@example.com", "authenticated", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "secret")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestDisplayName(t *testing.T) {
	c := &Claims{UserMetadata: map[string]interface{}{"username": "asha"}}
	assert.Equal(t, "asha", c.DisplayName())

	c.UserMetadata["full_name"] = "Asha Rao"
	assert.Equal(t, "Asha Rao", c.DisplayName())

	assert.Equal(t, "", (&Claims{}).DisplayName())
}

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vision-lab/trainforge/dao/model"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := newTokenManager("access-secret", "refresh-secret", 1, 168)

	msg := &JWTMessage{
		UserID:       42,
		Username:     "alice",
		RolePlatform: model.RoleUser,
	}
	accessToken, refreshToken, err := tm.CreateTokens(msg)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	decoded, err := tm.CheckToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, *msg, decoded)

	decoded, err = tm.CheckRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, *msg, decoded)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	tm := newTokenManager("access-secret", "refresh-secret", 1, 168)

	msg := &JWTMessage{UserID: 7, Username: "carol", RolePlatform: model.RoleUser}
	accessToken, refreshToken, err := tm.CreateTokens(msg)
	require.NoError(t, err)

	_, err = tm.CheckToken(refreshToken)
	assert.Error(t, err)
	_, err = tm.CheckRefreshToken(accessToken)
	assert.Error(t, err)
}

func TestCheckTokenRejectsWrongSecret(t *testing.T) {
	tm := newTokenManager("access-secret", "refresh-secret", 1, 168)
	other := newTokenManager("other-secret", "other-refresh", 1, 168)

	msg := &JWTMessage{UserID: 1, Username: "bob", RolePlatform: model.RoleAdmin}
	token, _, err := tm.CreateTokens(msg)
	require.NoError(t, err)

	_, err = other.CheckToken(token)
	assert.Error(t, err)
}

func TestCheckTokenRejectsGarbage(t *testing.T) {
	tm := newTokenManager("access-secret", "refresh-secret", 1, 168)
	_, err := tm.CheckToken("not-a-jwt")
	assert.Error(t, err)
}

package jwthelper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	const signingKey = "test-signing-key"

	token, err := GenerateToken(signingKey, 42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(signingKey, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AdminID)
}

func TestParseToken_WrongKey(t *testing.T) {
	token, err := GenerateToken("key-one", 42, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("key-two", token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	const signingKey = "test-signing-key"

	token, err := GenerateToken(signingKey, 42, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(signingKey, token)
	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("test-signing-key", "not.a.token")
	assert.Error(t, err)
}

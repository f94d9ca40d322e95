package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	claims := AccessTokenClaims{
		Username:     "cashier1",
		RoleID:       "role-1",
		RoleName:     "cashier",
		RoleActive:   true,
		BranchCode:   "01",
		Capabilities: map[string][]string{"contributions": {"create", "read"}},
	}
	token, err := GenerateJWT(claims, "actor-1", "secret", time.Now(), time.Minute, "bfa")
	require.NoError(t, err)

	parsed, err := ParseAndValidateJWT(token, "secret", "bfa")
	require.NoError(t, err)
	assert.Equal(t, "actor-1", parsed.Subject)
	assert.Equal(t, "01", parsed.BranchCode)
	assert.Equal(t, []string{"create", "read"}, parsed.Capabilities["contributions"])
	assert.True(t, parsed.RoleActive)
}

func TestParseAndValidateJWT_Expired(t *testing.T) {
	token, err := GenerateJWT(AccessTokenClaims{}, "actor-1", "secret", time.Now().Add(-time.Hour), time.Minute, "bfa")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "secret", "bfa")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseAndValidateJWT_WrongSecretOrIssuer(t *testing.T) {
	token, err := GenerateJWT(AccessTokenClaims{}, "actor-1", "secret", time.Now(), time.Minute, "bfa")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "other", "bfa")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseAndValidateJWT(token, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestRefreshTokenHash(t *testing.T) {
	raw, err := GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, raw, 64)

	hash := HashRefreshToken(raw)
	assert.Len(t, hash, 64)
	assert.True(t, CompareRefreshTokenHash(raw, hash))
	assert.False(t, CompareRefreshTokenHash(raw+"x", hash))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := svc.GenerateTokenPair("user-123", "river@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), pair.ExpiresIn)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "river@example.com", claims.Email)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, "wellnest", claims.Issuer)

	refreshClaims, err := svc.ValidateToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
	assert.NotEqual(t, claims.ID, refreshClaims.ID)
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	// Token signed with a different secret
	other := NewJWTService("other-secret", time.Minute, time.Hour)
	pair, err := other.GenerateTokenPair("user-123", "river@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	// NewJWTService floors non-positive TTLs, so build an already-expired
	// issuer directly.
	svc := &JWTService{
		secretKey:       []byte("test-secret"),
		accessTokenTTL:  -time.Minute,
		refreshTokenTTL: time.Hour,
	}

	pair, err := svc.GenerateTokenPair("user-123", "river@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret", 15*time.Minute, time.Hour)

	pair, err := svc.GenerateTokenPair("user-123", "river@example.com")
	require.NoError(t, err)

	t.Run("refresh token yields a new pair", func(t *testing.T) {
		fresh, err := svc.RefreshToken(pair.RefreshToken)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(fresh.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("access token cannot be used to refresh", func(t *testing.T) {
		_, err := svc.RefreshToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}

func TestExtractUserID(t *testing.T) {
	svc := NewJWTService("test-secret", time.Minute, time.Hour)

	pair, err := svc.GenerateTokenPair("user-123", "river@example.com")
	require.NoError(t, err)

	userID, err := svc.ExtractUserID(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	_, err = svc.ExtractUserID("garbage")
	assert.Error(t, err)
}

func TestNewJWTServiceDefaults(t *testing.T) {
	svc := NewJWTService("test-secret", 0, 0)
	assert.Equal(t, 15*time.Minute, svc.accessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, svc.refreshTokenTTL)
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	signed, err := GenerateToken(testSecret, "user-1", time.Hour)
	require.NoError(t, err)

	claims, err := VerifyToken(testSecret, signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "portfolio-api", claims.Issuer)
}

func TestVerifyTokenExpired(t *testing.T) {
	signed, err := GenerateToken(testSecret, "user-1", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTokenInvalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyToken(testSecret, tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}

	t.Run("wrong secret", func(t *testing.T) {
		signed, err := GenerateToken("other-secret", "user-1", time.Hour)
		require.NoError(t, err)

		_, err = VerifyToken(testSecret, signed)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

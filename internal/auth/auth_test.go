package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewManager("test-secret")

	t.Run("should round-trip a valid token", func(t *testing.T) {
		token, expiresAt, err := manager.GenerateToken("admin@gmail.com")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

		claims, err := manager.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "admin@gmail.com", claims.Email)
		assert.Equal(t, "nexus-panel", claims.Issuer)
	})

	t.Run("should reject a token signed with a different secret", func(t *testing.T) {
		other := NewManager("other-secret")
		token, _, err := other.GenerateToken("admin@gmail.com")
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := manager.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		expiring := NewManagerWithExpiry("test-secret", -time.Minute)
		token, _, err := expiring.GenerateToken("admin@gmail.com")
		require.NoError(t, err)

		_, err = NewManager("test-secret").ValidateToken(token)
		assert.Error(t, err)
	})
}

package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupGate(t *testing.T) (*Gate, *FlagStore) {
	flag := NewFlagStore(filepath.Join(t.TempDir(), "auth_flag"))
	gate, err := NewGate("admin@gmail.com", "Admin123", flag, zap.NewNop().Sugar())
	require.NoError(t, err)
	return gate, flag
}

func TestGateLogin(t *testing.T) {
	t.Run("should reject a wrong password with the literal message", func(t *testing.T) {
		gate, flag := setupGate(t)

		err := gate.Login("admin@gmail.com", "wrong")
		require.Error(t, err)
		assert.Equal(t, "Invalid email or password", err.Error())
		assert.False(t, gate.Authenticated())
		assert.False(t, flag.IsSet(), "persisted flag is untouched on failure")
	})

	t.Run("should reject a wrong email", func(t *testing.T) {
		gate, _ := setupGate(t)

		err := gate.Login("root@gmail.com", "Admin123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.False(t, gate.Authenticated())
	})

	t.Run("should authenticate and persist the flag on the exact pair", func(t *testing.T) {
		gate, flag := setupGate(t)

		require.NoError(t, gate.Login("admin@gmail.com", "Admin123"))
		assert.True(t, gate.Authenticated())
		assert.True(t, flag.IsSet())
	})
}

func TestGateLogout(t *testing.T) {
	gate, flag := setupGate(t)
	require.NoError(t, gate.Login("admin@gmail.com", "Admin123"))
	gate.Navigate(PageUsers)

	gate.Logout()

	assert.False(t, gate.Authenticated())
	assert.False(t, flag.IsSet())
	assert.Equal(t, PageDashboard, gate.CurrentPage(), "logout resets navigation")
}

func TestGateRestoresPersistedSession(t *testing.T) {
	dir := t.TempDir()
	flag := NewFlagStore(filepath.Join(dir, "auth_flag"))
	require.NoError(t, flag.Set())

	gate, err := NewGate("admin@gmail.com", "Admin123", flag, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.True(t, gate.Authenticated(), "flag set before startup restores the session")
}

func TestFlagStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flag")
	flag := NewFlagStore(path)

	t.Run("should read absent as unset", func(t *testing.T) {
		assert.False(t, flag.IsSet())
	})

	t.Run("should only accept the literal truthy marker", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("yes"), 0o600))
		assert.False(t, flag.IsSet())

		require.NoError(t, flag.Set())
		assert.True(t, flag.IsSet())
	})

	t.Run("should clear idempotently", func(t *testing.T) {
		require.NoError(t, flag.Clear())
		assert.False(t, flag.IsSet())
		assert.NoError(t, flag.Clear())
	})
}

package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "token"))

	require.NoError(t, store.Save("secret-token"))

	token, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "secret-token", token)
}

func TestStore_MissingFileMeansNoToken(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "token"))

	token, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "token"))

	require.NoError(t, store.Save("first"))
	require.NoError(t, store.Save("second"))

	token, err := store.Token()
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}

func TestStore_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewStore(path)

	require.NoError(t, store.Save("secret"))
	require.NoError(t, store.Remove())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "token file should be gone after remove")

	// Removing again is a no-op.
	require.NoError(t, store.Remove())
}

func TestStore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	store := NewStore(path)

	require.NoError(t, store.Save("secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

package configstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBolt_PutGetDelete(t *testing.T) {
	kv, err := OpenBolt(filepath.Join(t.TempDir(), "sub", "config.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	_, err = kv.Get("token")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Put("token", "secret"))
	got, err := kv.Get("token")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)

	// Overwrite in place.
	require.NoError(t, kv.Put("token", "rotated"))
	got, err = kv.Get("token")
	require.NoError(t, err)
	assert.Equal(t, "rotated", got)

	require.NoError(t, kv.Delete("token"))
	_, err = kv.Get("token")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.ErrorIs(t, kv.Delete("token"), ErrKeyNotFound)
}

func TestBolt_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.db")

	kv, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, kv.Put("repo", "alice/photos"))
	require.NoError(t, kv.Close())

	reopened, err := OpenBolt(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.Get("repo")
	require.NoError(t, err)
	assert.Equal(t, "alice/photos", got)
}

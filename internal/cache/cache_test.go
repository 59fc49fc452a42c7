package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "images"))
	require.NoError(t, err)
	return s
}

func TestNew_WritesMediaMarker(t *testing.T) {
	s := newStore(t)
	assert.FileExists(t, filepath.Join(s.Dir(), noMediaMarker))

	// Reopening the same directory is fine.
	again, err := New(s.Dir())
	require.NoError(t, err)
	assert.Equal(t, s.Dir(), again.Dir())
}

func TestPutResolve_VersionKeyed(t *testing.T) {
	s := newStore(t)

	path, err := s.Put([]byte("bytes"), "abc123def456.jpg", "v1")
	require.NoError(t, err)
	assert.Equal(t, "v1.jpg", filepath.Base(path))

	got, ok := s.Resolve("abc123def456.jpg", "v1")
	assert.True(t, ok)
	assert.Equal(t, path, got)

	// A different version token is a distinct entry.
	_, ok = s.Resolve("abc123def456.jpg", "v2")
	assert.False(t, ok)
}

func TestPutResolve_NameKeyedFallback(t *testing.T) {
	s := newStore(t)

	path, err := s.Put([]byte("bytes"), "abc123def456.png", "")
	require.NoError(t, err)
	assert.Equal(t, "abc123def456.png", filepath.Base(path))

	_, ok := s.Resolve("abc123def456.png", "")
	assert.True(t, ok)
}

func TestPut_Idempotent(t *testing.T) {
	s := newStore(t)

	path, err := s.Put([]byte("original"), "a.jpg", "v1")
	require.NoError(t, err)

	// Same path again: the existing file wins, content untouched.
	again, err := s.Put([]byte("ignored"), "a.jpg", "v1")
	require.NoError(t, err)
	assert.Equal(t, path, again)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), data)
}

func TestPut_SanitizesVersionToken(t *testing.T) {
	s := newStore(t)

	path, err := s.Put([]byte("x"), "a.gif", "sha/with:odd chars")
	require.NoError(t, err)
	assert.Equal(t, "sha_with_odd_chars.gif", filepath.Base(path))
}

func TestResolve_Miss(t *testing.T) {
	s := newStore(t)
	_, ok := s.Resolve("never-written.jpg", "v1")
	assert.False(t, ok)
}

func TestEvict_RemovesBothPaths(t *testing.T) {
	s := newStore(t)

	versioned, err := s.Put([]byte("x"), "a.jpg", "v1")
	require.NoError(t, err)
	fallback, err := s.Put([]byte("x"), "a.jpg", "")
	require.NoError(t, err)

	require.NoError(t, s.Evict("a.jpg", "v1"))
	assert.NoFileExists(t, versioned)
	assert.NoFileExists(t, fallback)

	// Evicting again is not an error.
	require.NoError(t, s.Evict("a.jpg", "v1"))
}

func TestEvictAll_FiltersByExtension(t *testing.T) {
	s := newStore(t)

	_, err := s.Put([]byte("1"), "a.jpg", "v1")
	require.NoError(t, err)
	_, err = s.Put([]byte("2"), "b.png", "v2")
	require.NoError(t, err)
	_, err = s.Put([]byte("3"), "keep.dat", "v3")
	require.NoError(t, err)

	cleared, err := s.EvictAll([]string{"jpg", "png", "gif", "webp"})
	require.NoError(t, err)
	assert.Equal(t, 2, cleared)

	_, ok := s.Resolve("keep.dat", "v3")
	assert.True(t, ok)
	assert.FileExists(t, filepath.Join(s.Dir(), noMediaMarker))
}

func TestUsage_ExcludesMarker(t *testing.T) {
	s := newStore(t)

	bytes, files, err := s.Usage()
	require.NoError(t, err)
	assert.Zero(t, bytes)
	assert.Zero(t, files)

	_, err = s.Put([]byte("12345"), "a.jpg", "v1")
	require.NoError(t, err)
	_, err = s.Put([]byte("123"), "b.png", "v2")
	require.NoError(t, err)

	bytes, files, err = s.Usage()
	require.NoError(t, err)
	assert.Equal(t, int64(8), bytes)
	assert.Equal(t, 2, files)
}

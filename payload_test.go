package bitarchive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holiday.JPEG")
	require.NoError(t, os.WriteFile(path, []byte("file bytes"), 0644))

	p, err := PayloadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("file bytes"), p.Data)
	assert.Equal(t, "jpg", p.Extension)
}

func TestPayloadFromFile_NoExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noext")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := PayloadFromFile(path)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestPayloadFromFile_Missing(t *testing.T) {
	_, err := PayloadFromFile(filepath.Join(t.TempDir(), "absent.jpg"))
	assert.Error(t, err)
}

func TestPayloadFromURL_ExtensionFromPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote bytes"))
	}))
	t.Cleanup(srv.Close)

	p, err := PayloadFromURL(context.Background(), srv.URL+"/pic.png?size=large")
	require.NoError(t, err)
	assert.Equal(t, []byte("remote bytes"), p.Data)
	assert.Equal(t, "png", p.Extension)
}

func TestPayloadFromURL_ExtensionFromContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		w.Write([]byte("webp bytes"))
	}))
	t.Cleanup(srv.Close)

	p, err := PayloadFromURL(context.Background(), srv.URL+"/download")
	require.NoError(t, err)
	assert.Equal(t, "webp", p.Extension)
}

func TestPayloadFromURL_NoInferableExtension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("mystery"))
	}))
	t.Cleanup(srv.Close)

	_, err := PayloadFromURL(context.Background(), srv.URL+"/download")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestPayloadFromURL_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	_, err := PayloadFromURL(context.Background(), srv.URL+"/gone.jpg")
	assert.Error(t, err)
}

package bitarchive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Deterministic(t *testing.T) {
	data := []byte("raw image bytes")

	first, err := Fingerprint(data, "jpg")
	require.NoError(t, err)
	second, err := Fingerprint(data, "jpg")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, fingerprintLen+len(".jpg"))
	assert.Regexp(t, `^[0-9a-f]{12}\.jpg$`, first)
}

func TestFingerprint_ContentChangesName(t *testing.T) {
	a, err := Fingerprint([]byte("one"), "png")
	require.NoError(t, err)
	b, err := Fingerprint([]byte("two"), "png")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestFingerprint_SynonymAndCaseFold(t *testing.T) {
	data := []byte("same bytes")

	jpeg, err := Fingerprint(data, "JPEG")
	require.NoError(t, err)
	jpg, err := Fingerprint(data, "jpg")
	require.NoError(t, err)

	assert.Equal(t, jpg, jpeg)
}

func TestFingerprint_UnsupportedExtension(t *testing.T) {
	_, err := Fingerprint([]byte("x"), "bmp")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Fingerprint([]byte("x"), "")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestNormalizeExtension(t *testing.T) {
	assert.Equal(t, "jpg", NormalizeExtension("JPEG"))
	assert.Equal(t, "jpg", NormalizeExtension("jpg"))
	assert.Equal(t, "jpg", NormalizeExtension(".jpeg"))
	assert.Equal(t, "webp", NormalizeExtension("WEBP"))
	assert.Equal(t, "", NormalizeExtension(""))
}

func TestExtensionFromName(t *testing.T) {
	assert.Equal(t, "jpg", ExtensionFromName("abc123.JPEG"))
	assert.Equal(t, "png", ExtensionFromName("https://host/img.png?raw=1"))
	assert.Equal(t, "gif", ExtensionFromName("a.b.gif#frag"))
	assert.Equal(t, "", ExtensionFromName("noext"))
	assert.Equal(t, "", ExtensionFromName("trailingdot."))
}

func TestExtensionFromMime(t *testing.T) {
	assert.Equal(t, "jpg", ExtensionFromMime("image/jpeg"))
	assert.Equal(t, "webp", ExtensionFromMime("image/webp"))
	assert.Equal(t, "", ExtensionFromMime("not-a-mime"))
}

func TestMimeFromExtension(t *testing.T) {
	assert.Equal(t, "image/jpeg", MimeFromExtension("jpg"))
	assert.Equal(t, "image/png", MimeFromExtension("png"))
	assert.Equal(t, "image/*", MimeFromExtension(""))
}
